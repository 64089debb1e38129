package api

import (
	"net/http"

	"github.com/IlyasAtabaev731/ecofinds/internal/domain/models"
	"github.com/IlyasAtabaev731/ecofinds/internal/lib/jwt"
	"github.com/IlyasAtabaev731/ecofinds/internal/service"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id"`
}

func (s *APIServer) registerHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := s.market.Register(r.Context(), service.Registration{
			Email:    req.Email,
			Username: req.Username,
			FullName: req.FullName,
			Password: req.Password,
		})
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		s.writeToken(w, r, user)
	}
}

func (s *APIServer) loginHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := s.market.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		s.writeToken(w, r, user)
	}
}

func (s *APIServer) writeToken(w http.ResponseWriter, r *http.Request, user models.User) {
	token, err := jwt.NewToken(user.ID, string(s.jwtSecret), s.config.JWT.TokenTTL)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
	})
}
