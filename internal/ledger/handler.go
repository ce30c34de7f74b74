package ledger

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/scryptex/backend/internal/api"
	"github.com/scryptex/backend/internal/audit"
	"github.com/scryptex/backend/internal/middleware"
)

type UseRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Description   string  `json:"description" validate:"required"`
	RelatedEntity *string `json:"related_entity,omitempty"`
}

type TopupRequestBody struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"required"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	WalletAddress *string `json:"wallet_address,omitempty"`
}

type VerifyPaymentRequest struct {
	RequestID       string `json:"request_id" validate:"required"`
	TransactionHash string `json:"transaction_hash" validate:"required"`
}

type Handler struct {
	svc   Service
	audit *audit.Recorder
	log   *slog.Logger
}

func NewHandler(svc Service, rec *audit.Recorder, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, audit: rec, log: log}
}

// Status returns the balance plus the five most recent log entries.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	balance, logs, err := h.svc.Status(r.Context(), user.ID)
	if err != nil {
		h.log.Error("credit status failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not load credit status")
		return
	}
	api.Success(w, map[string]any{
		"balance":         balance.Balance,
		"lifetime_earned": balance.LifetimeEarned,
		"lifetime_spent":  balance.LifetimeSpent,
		"last_updated":    balance.LastUpdated,
		"recent_logs":     logs,
	}, "Credit status retrieved")
}

func (h *Handler) Use(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req UseRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	remaining, err := h.svc.Spend(r.Context(), user.ID, req.Amount, req.Description, req.RelatedEntity)
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			api.Error(w, http.StatusPaymentRequired, "Insufficient credits")
			return
		}
		h.log.Error("credit use failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not deduct credits")
		return
	}
	h.audit.Record(r.Context(), user.ID, "credit_use", map[string]any{
		"amount":      req.Amount,
		"description": req.Description,
	})
	api.Success(w, map[string]any{
		"amount_used":       req.Amount,
		"remaining_balance": remaining,
	}, "Credits deducted")
}

func (h *Handler) RequestTopup(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req TopupRequestBody
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	topup, err := h.svc.RequestTopup(r.Context(), user.ID, req.Amount, req.Currency, req.PaymentMethod, req.WalletAddress)
	if err != nil {
		h.log.Error("topup request failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not create topup request")
		return
	}
	api.Success(w, topup, "Topup request created")
}

func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req VerifyPaymentRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	topup, balance, err := h.svc.VerifyPayment(r.Context(), user.ID, req.RequestID, req.TransactionHash)
	if err != nil {
		switch {
		case errors.Is(err, ErrTopupNotFound):
			api.Error(w, http.StatusNotFound, "Topup request not found")
		case errors.Is(err, ErrTopupSettled):
			api.Error(w, http.StatusBadRequest, "Topup request already settled")
		default:
			h.log.Error("verify payment failed", "user_id", user.ID, "error", err)
			api.Error(w, http.StatusInternalServerError, "could not verify payment")
		}
		return
	}
	h.audit.Record(r.Context(), user.ID, "credit_topup", map[string]any{
		"request_id": topup.ID,
		"amount":     topup.Amount,
	})
	api.Success(w, map[string]any{
		"request":     topup,
		"new_balance": balance,
	}, "Payment verified and credits added")
}
