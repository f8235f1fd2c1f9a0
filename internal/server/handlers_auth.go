package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Kamon-Tahara-504/HypoFrame/internal/db"
	"github.com/Kamon-Tahara-504/HypoFrame/internal/types"
)

// handleRegister creates an account and returns a session token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	hash, err := s.password.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			s.errorResponse(w, http.StatusConflict, "Email already registered")
			return
		}
		s.logger.Error("failed to create user", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	s.issueToken(w, http.StatusCreated, user)
}

// handleLogin verifies credentials and returns a session token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.errorResponse(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		s.logger.Error("failed to look up user", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if !s.password.VerifyPassword(req.Password, user.PasswordHash) {
		s.errorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.issueToken(w, http.StatusOK, user)
}

func (s *Server) issueToken(w http.ResponseWriter, status int, user *types.User) {
	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		s.logger.Error("failed to generate token", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	s.jsonResponse(w, status, types.AuthResponse{Token: token, UserID: user.ID})
}

// validationMessage renders the first validation failure.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("validation error: %s - %s", verrs[0].Field(), verrs[0].Tag())
	}
	return "validation error: invalid request"
}
