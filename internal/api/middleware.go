package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/lib/jwt"
	"github.com/IlyasAtabaev731/ecofinds/internal/service"
)

type ctxKey int

const userKey ctxKey = iota

// authenticate resolves the bearer token to a known user and stores it in the
// request context.
func (s *APIServer) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenHeader := r.Header.Get("Authorization")
		if tokenHeader == "" {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		parts := strings.Fields(tokenHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		userID, err := jwt.ParseToken(parts[1], string(s.jwtSecret))
		if err != nil {
			s.logger.Debug("Rejected token", "error", err)
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := s.market.User(r.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				writeError(w, http.StatusUnauthorized, "User not found")
				return
			}
			s.writeServiceError(w, r, err)
			return
		}

		r = r.WithContext(context.WithValue(r.Context(), userKey, user))
		next(w, r)
	}
}

func currentUser(r *http.Request) models.User {
	user, _ := r.Context().Value(userKey).(models.User)
	return user
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection.
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	rec.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *APIServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("Request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}
