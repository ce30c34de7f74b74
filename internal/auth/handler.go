package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/scryptex/backend/internal/api"
	"github.com/scryptex/backend/internal/models"
)

type SignupRequest struct {
	Username      string  `json:"username" validate:"required,min=3"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=8"`
	WalletAddress *string `json:"wallet_address,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Handler struct {
	svc Service
	log *slog.Logger
}

func NewHandler(svc Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	user, token, err := h.svc.Signup(r.Context(), req.Username, req.Email, req.Password, req.WalletAddress)
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) || errors.Is(err, ErrDuplicateEmail) {
			api.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("signup failed", "error", err)
		api.Error(w, http.StatusInternalServerError, "registration failed")
		return
	}
	api.Success(w, tokenPayload(token, user), "User registered successfully")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	user, token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.log.Error("login failed", "error", err)
		api.Error(w, http.StatusInternalServerError, "login failed")
		return
	}
	api.Success(w, tokenPayload(token, user), "Login successful")
}

func tokenPayload(token string, user *models.User) map[string]any {
	return map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	}
}
