// Package notify keeps track of the live notification channel of every
// connected user and pushes best-effort payloads to it.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Channel is a live server-push connection of one user.
type Channel interface {
	Send(data []byte) error
	Close() error
}

// Registry binds a user id to at most one Channel. Delivery is at-most-once:
// there is no queue and no retry.
type Registry struct {
	mu       sync.Mutex
	channels map[string]Channel
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		channels: make(map[string]Channel),
		logger:   logger,
	}
}

// Attach makes ch the destination for userID. The channel it replaces, if any,
// is returned untouched; closing it is up to the caller.
func (r *Registry) Attach(userID string, ch Channel) (Channel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.channels[userID]
	r.channels[userID] = ch

	r.logger.Debug("channel attached", slog.String("user_id", userID), slog.Bool("replaced", ok))

	return prev, ok
}

// Detach removes the binding of userID and returns the channel that was bound.
func (r *Registry) Detach(userID string) (Channel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.channels[userID]
	if ok {
		delete(r.channels, userID)
		r.logger.Debug("channel detached", slog.String("user_id", userID))
	}

	return ch, ok
}

// Release removes the binding only while it still points at ch, so an evicted
// connection shutting down leaves its successor in place.
func (r *Registry) Release(userID string, ch Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.channels[userID]; !ok || cur != ch {
		return false
	}
	delete(r.channels, userID)
	r.logger.Debug("channel released", slog.String("user_id", userID))

	return true
}

// Deliver serializes payload to JSON and writes it to the channel of userID.
// It reports false with a nil error when the user has no channel. A failed
// write drops the binding and closes the channel.
func (r *Registry) Deliver(userID string, payload any) (bool, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("notify.Deliver: marshal payload: %w", err)
	}

	r.mu.Lock()
	ch, ok := r.channels[userID]
	r.mu.Unlock()

	if !ok {
		return false, nil
	}

	if err := ch.Send(data); err != nil {
		r.Release(userID, ch)
		if cerr := ch.Close(); cerr != nil {
			r.logger.Debug("closing failed channel", slog.String("user_id", userID), "error", cerr)
		}
		return false, fmt.Errorf("notify.Deliver: send to %s: %w", userID, err)
	}

	return true, nil
}

func (r *Registry) Connected(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.channels[userID]
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.channels)
}
