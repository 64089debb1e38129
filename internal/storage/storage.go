// Package storage defines the repository the marketplace runs on. Backends
// live in the memory and postgres subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrItemUnavailable = errors.New("item not available")
)

type Users interface {
	CreateUser(ctx context.Context, user models.User) error
	UserByID(ctx context.Context, id string) (models.User, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	AddEcoPoints(ctx context.Context, userID string, delta int) error
	CountUsers(ctx context.Context) (int, error)
}

type Items interface {
	CreateItem(ctx context.Context, item models.Item) error
	ItemByID(ctx context.Context, id string) (models.Item, error)
	// ListItems returns matching items, newest first.
	ListItems(ctx context.Context, filter models.ItemFilter) ([]models.Item, error)
	// MarkItemSold flips an available item to unavailable. It fails with
	// ErrItemUnavailable if the item is already sold.
	MarkItemSold(ctx context.Context, id string) error
	CountItems(ctx context.Context) (int, error)
}

type Messages interface {
	CreateMessage(ctx context.Context, msg models.Message) error
	// MessagesByItem returns messages about the item sent or received by
	// participantID, oldest first.
	MessagesByItem(ctx context.Context, itemID, participantID string) ([]models.Message, error)
}

type Transactions interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) error
	// TransactionsByUser returns transactions where userID is buyer or seller,
	// newest first.
	TransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error)
}

type Repository interface {
	Users
	Items
	Messages
	Transactions
}

// Storage is a Repository that can run a group of operations atomically.
type Storage interface {
	Repository
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
	Close() error
}
