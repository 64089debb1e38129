// Package memory is the volatile storage backend. All data is lost on restart.
package memory

import (
	"context"
	"sync"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
)

var _ storage.Storage = (*Storage)(nil)

// Storage keeps every entity in maps guarded by a single lock.
type Storage struct {
	mu sync.RWMutex
	t  *tables
}

func New() *Storage {
	return &Storage{t: newTables()}
}

func (s *Storage) Close() error {
	return nil
}

// InTx runs fn with exclusive access to the store. Writes made by fn are
// undone when it returns an error.
func (s *Storage) InTx(ctx context.Context, fn func(ctx context.Context, repo storage.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.t.journal = []func(){}
	defer func() { s.t.journal = nil }()

	if err := fn(ctx, s.t); err != nil {
		s.t.rollback()
		return err
	}

	return nil
}

func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.CreateUser(ctx, user)
}

func (s *Storage) UserByID(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.UserByID(ctx, id)
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.UserByEmail(ctx, email)
}

func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ListUsers(ctx)
}

func (s *Storage) AddEcoPoints(ctx context.Context, userID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.AddEcoPoints(ctx, userID, delta)
}

func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.CountUsers(ctx)
}

func (s *Storage) CreateItem(ctx context.Context, item models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.CreateItem(ctx, item)
}

func (s *Storage) ItemByID(ctx context.Context, id string) (models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ItemByID(ctx, id)
}

func (s *Storage) ListItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.ListItems(ctx, filter)
}

func (s *Storage) MarkItemSold(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.MarkItemSold(ctx, id)
}

func (s *Storage) CountItems(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.CountItems(ctx)
}

func (s *Storage) CreateMessage(ctx context.Context, msg models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.CreateMessage(ctx, msg)
}

func (s *Storage) MessagesByItem(ctx context.Context, itemID, participantID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.MessagesByItem(ctx, itemID, participantID)
}

func (s *Storage) CreateTransaction(ctx context.Context, tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.CreateTransaction(ctx, tx)
}

func (s *Storage) TransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.TransactionsByUser(ctx, userID)
}
