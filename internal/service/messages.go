package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
)

const EventNewMessage = "new_message"

// Event is the payload pushed over a user's live channel.
type Event struct {
	Type    string             `json:"type"`
	Message models.MessageView `json:"message"`
}

type Outgoing struct {
	ItemID     string
	ReceiverID string
	Content    string
}

// Messages returns the thread about itemID that userID takes part in, oldest first.
func (m *Market) Messages(ctx context.Context, userID, itemID string) ([]models.MessageView, error) {
	msgs, err := m.store.MessagesByItem(ctx, itemID, userID)
	if err != nil {
		return nil, fmt.Errorf("service.Messages: %w", err)
	}

	users := m.lookup(ctx)
	views := make([]models.MessageView, 0, len(msgs))
	for _, msg := range msgs {
		v := models.MessageView{Message: msg}
		if sender, ok := users.get(msg.SenderID); ok {
			v.SenderName = sender.Username
		}
		views = append(views, v)
	}

	return views, nil
}

// SendMessage stores the message and pushes it to the receiver when they are
// connected. A failed push does not fail the send.
func (m *Market) SendMessage(ctx context.Context, sender models.User, out Outgoing) (models.Message, error) {
	const op = "service.SendMessage"

	if strings.TrimSpace(out.Content) == "" {
		return models.Message{}, invalid("content is required")
	}

	if _, err := m.store.ItemByID(ctx, out.ItemID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Message{}, ErrItemNotFound
		}
		return models.Message{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := m.store.UserByID(ctx, out.ReceiverID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Message{}, ErrUserNotFound
		}
		return models.Message{}, fmt.Errorf("%s: %w", op, err)
	}

	msg := models.Message{
		ID:         m.newID(),
		ItemID:     out.ItemID,
		SenderID:   sender.ID,
		ReceiverID: out.ReceiverID,
		Content:    out.Content,
		Timestamp:  m.now(),
	}

	if err := m.store.CreateMessage(ctx, msg); err != nil {
		return models.Message{}, fmt.Errorf("%s: %w", op, err)
	}

	event := Event{
		Type:    EventNewMessage,
		Message: models.MessageView{Message: msg, SenderName: sender.Username},
	}
	delivered, err := m.notifier.Deliver(msg.ReceiverID, event)
	if err != nil {
		m.logger.Warn("Failed to deliver message", slog.String("receiver_id", msg.ReceiverID), "error", err)
	} else if delivered {
		m.logger.Debug("Message delivered", slog.String("message_id", msg.ID), slog.String("receiver_id", msg.ReceiverID))
	}

	return msg, nil
}
