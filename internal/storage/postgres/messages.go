package postgres

import (
	"context"
	"fmt"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
)

func (q *queries) CreateMessage(ctx context.Context, msg models.Message) error {
	const op = "storage.postgres.CreateMessage"

	_, err := q.db.ExecContext(ctx,
		"INSERT INTO messages (id, item_id, sender_id, receiver_id, content, sent_at) VALUES ($1, $2, $3, $4, $5, $6)",
		msg.ID, msg.ItemID, msg.SenderID, msg.ReceiverID, msg.Content, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (q *queries) MessagesByItem(ctx context.Context, itemID, participantID string) ([]models.Message, error) {
	const op = "storage.postgres.MessagesByItem"

	rows, err := q.db.QueryContext(ctx,
		`SELECT id, item_id, sender_id, receiver_id, content, sent_at FROM messages
		WHERE item_id = $1 AND (sender_id = $2 OR receiver_id = $2)
		ORDER BY sent_at, id`,
		itemID, participantID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	msgs := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ItemID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		msgs = append(msgs, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return msgs, nil
}
