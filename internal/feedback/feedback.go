package feedback

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scryptex/backend/internal/api"
	"github.com/scryptex/backend/internal/ids"
	"github.com/scryptex/backend/internal/middleware"
	"github.com/scryptex/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, f *models.Feedback) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO feedback (id, type, message, email, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, f.ID, f.Type, f.Message, f.Email, f.UserID).Scan(&f.CreatedAt)
}

type SubmitRequest struct {
	Type    string  `json:"type" validate:"required"`
	Message string  `json:"message" validate:"required"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
}

type store interface {
	Create(ctx context.Context, f *models.Feedback) error
}

type Handler struct {
	store store
	log   *slog.Logger
}

func NewHandler(s store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: s, log: log}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	fb := &models.Feedback{
		ID:      ids.New("fb_"),
		Type:    req.Type,
		Message: req.Message,
		Email:   req.Email,
	}
	if user := middleware.UserFromCtx(r.Context()); user != nil {
		fb.UserID = &user.ID
	}
	if err := h.store.Create(r.Context(), fb); err != nil {
		h.log.Error("feedback submit failed", "error", err)
		api.Error(w, http.StatusInternalServerError, "could not submit feedback")
		return
	}
	api.Success(w, map[string]any{"feedback_id": fb.ID}, "Feedback submitted successfully")
}
