package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/storage"
)

type Registration struct {
	Email    string
	Username string
	FullName string
	Password string
}

func (r Registration) validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil || strings.ContainsAny(r.Email, "<> ") {
		return invalid("email %q is not a valid address", r.Email)
	}
	if strings.TrimSpace(r.Username) == "" {
		return invalid("username is required")
	}
	if r.Password == "" {
		return invalid("password is required")
	}
	return nil
}

// Register creates a user with the starting eco-points balance.
func (m *Market) Register(ctx context.Context, reg Registration) (models.User, error) {
	const op = "service.Register"

	if err := reg.validate(); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), m.bcryptCost)
	if err != nil {
		m.logger.Error("Failed to hash password", "error", err)
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		ID:           m.newID(),
		Email:        reg.Email,
		Username:     reg.Username,
		FullName:     reg.FullName,
		PasswordHash: string(hash),
		EcoPoints:    models.StartingEcoPoints,
		CreatedAt:    m.now(),
	}

	if err := m.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	m.logger.Info("Register new user", slog.String("user_id", user.ID), slog.String("username", user.Username))

	return user, nil
}

// Login checks the password of the user registered under email.
func (m *Market) Login(ctx context.Context, email, password string) (models.User, error) {
	const op = "service.Login"

	user, err := m.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func (m *Market) User(ctx context.Context, id string) (models.User, error) {
	const op = "service.User"

	user, err := m.store.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
