// Package service implements the marketplace operations on top of a storage
// backend. It knows nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrItemUnavailable    = errors.New("item not available")
	ErrOwnItem            = errors.New("cannot purchase your own item")
	ErrInvalidInput       = errors.New("invalid input")
)

// Notifier pushes a payload to a user's live channel, if there is one.
type Notifier interface {
	Deliver(userID string, payload any) (bool, error)
}

type Market struct {
	store      storage.Storage
	notifier   Notifier
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string
	bcryptCost int
}

type Option func(*Market)

func WithClock(now func() time.Time) Option {
	return func(m *Market) { m.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(m *Market) { m.newID = newID }
}

func WithBcryptCost(cost int) Option {
	return func(m *Market) { m.bcryptCost = cost }
}

func New(store storage.Storage, notifier Notifier, logger *slog.Logger, opts ...Option) *Market {
	m := &Market{
		store:      store,
		notifier:   notifier,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Stats reports how many users and items the store holds.
func (m *Market) Stats(ctx context.Context) (users, items int, err error) {
	if users, err = m.store.CountUsers(ctx); err != nil {
		return 0, 0, fmt.Errorf("service.Stats: %w", err)
	}
	if items, err = m.store.CountItems(ctx); err != nil {
		return 0, 0, fmt.Errorf("service.Stats: %w", err)
	}
	return users, items, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// userLookup resolves display fields for a batch of records, asking the store
// once per user id. Unknown ids resolve to the zero User.
type userLookup struct {
	ctx   context.Context
	repo  storage.Users
	cache map[string]models.User
}

func (m *Market) lookup(ctx context.Context) *userLookup {
	return &userLookup{ctx: ctx, repo: m.store, cache: make(map[string]models.User)}
}

func (l *userLookup) get(id string) (models.User, bool) {
	if u, ok := l.cache[id]; ok {
		return u, u.ID != ""
	}
	u, err := l.repo.UserByID(l.ctx, id)
	if err != nil {
		u = models.User{}
	}
	l.cache[id] = u
	return u, u.ID != ""
}
