package waitlist

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/scryptex/backend/internal/api"
)

type JoinRequest struct {
	Username string  `json:"username" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Ref      *string `json:"ref,omitempty"`
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

func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := h.svc.Join(r.Context(), req.Username, req.Email, req.Ref)
	if err != nil {
		if errors.Is(err, ErrInvalidReferral) || errors.Is(err, ErrEmailRegistered) {
			api.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("waitlist join failed", "email", req.Email, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not join waitlist")
		return
	}
	api.Success(w, map[string]any{
		"username":           entry.Username,
		"referral_code":      entry.ReferralCode,
		"reward_pending_tex": entry.RewardPendingTex,
	}, "Joined waitlist successfully")
}

func (h *Handler) ReferralData(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	entry, err := h.svc.ReferralData(r.Context(), code)
	if err != nil {
		if errors.Is(err, ErrCodeNotFound) {
			api.Error(w, http.StatusNotFound, "Referral code not found")
			return
		}
		h.log.Error("referral lookup failed", "code", code, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not load referral data")
		return
	}
	api.Success(w, map[string]any{
		"username":           entry.Username,
		"referral_code":      entry.ReferralCode,
		"referral_count":     entry.ReferralCount,
		"reward_pending_tex": entry.RewardPendingTex,
	}, "Referral data retrieved")
}
