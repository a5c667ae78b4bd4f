package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fjod/go_cart/storefront-service/internal/domain"
	"github.com/fjod/go_cart/storefront-service/internal/session"
	"github.com/fjod/go_cart/storefront-service/pkg/logger"
)

type AuthService interface {
	Register(r session.Registration) (domain.User, error)
	Login(ctx context.Context, sessionID, email, password string) (domain.User, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*domain.User, error)
}

type AuthHandler struct {
	auth        AuthService
	timeout     time.Duration
	maxBodySize int64
	logger      *zap.Logger
}

func NewAuthHandler(auth AuthService, timeout time.Duration, maxBodySize int64, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		auth:        auth,
		timeout:     timeout,
		maxBodySize: maxBodySize,
		logger:      logger,
	}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req session.Registration
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.auth.Register(req)
	switch {
	case errors.Is(err, session.ErrMissingFields):
		respondError(w, http.StatusBadRequest, "missing_fields", err.Error())
	case errors.Is(err, session.ErrPasswordMismatch):
		respondError(w, http.StatusBadRequest, "password_mismatch", err.Error())
	case errors.Is(err, session.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email_taken", err.Error())
	case err != nil:
		respondInternal(w, logger.FromContext(r.Context(), h.logger), "register failed", err)
	default:
		respondJSON(w, http.StatusCreated, user)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.auth.Login(ctx, getSessionID(r.Context()), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
			return
		}
		respondInternal(w, logger.FromContext(ctx, h.logger), "login failed", err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.auth.Logout(ctx, getSessionID(r.Context())); err != nil {
		respondInternal(w, logger.FromContext(ctx, h.logger), "logout failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, err := h.auth.CurrentUser(ctx, getSessionID(r.Context()))
	if err != nil {
		respondInternal(w, logger.FromContext(ctx, h.logger), "current user failed", err)
		return
	}
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "not logged in")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
