package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
)

const (
	uniqueViolation = "23505"
	usersEmailKey   = "users_email_key"
)

var _ storage.Storage = (*Storage)(nil)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Storage struct {
	*queries
	db *sql.DB
}

func New(dbUrl string) (*Storage, error) {
	db, err := sql.Open("postgres", dbUrl)
	if err != nil {
		return nil, fmt.Errorf("database connection error %s", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect database error %s", err)
	}

	return NewWithDB(db), nil
}

func NewWithDB(db *sql.DB) *Storage {
	return &Storage{queries: &queries{db: db}, db: db}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// InTx runs fn inside a database transaction, committing when fn succeeds.
func (s *Storage) InTx(ctx context.Context, fn func(ctx context.Context, repo storage.Repository) error) (err error) {
	const op = "storage.postgres.InTx"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("%s: %w", op, cerr)
		}
	}()

	return fn(ctx, &queries{db: tx})
}

type queries struct {
	db DBTX
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == constraint
}
