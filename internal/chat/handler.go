package chat

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/scryptex/backend/internal/api"
	"github.com/scryptex/backend/internal/middleware"
)

type SendRequest struct {
	Content  string  `json:"content" validate:"required"`
	ThreadID *string `json:"thread_id,omitempty"`
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

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req SendRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	threadID, reply, err := h.svc.Send(r.Context(), &user.ID, req.ThreadID, req.Content)
	if err != nil {
		if errors.Is(err, ErrThreadNotFound) {
			api.Error(w, http.StatusNotFound, "Chat thread not found")
			return
		}
		h.log.Error("chat send failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not send message")
		return
	}
	api.Success(w, map[string]any{
		"thread_id": threadID,
		"response":  reply,
	}, "Message sent successfully")
}

func (h *Handler) Threads(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	threads, err := h.svc.Threads(r.Context(), user.ID)
	if err != nil {
		h.log.Error("list chat threads failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not load chat threads")
		return
	}
	api.Success(w, map[string]any{"threads": threads}, "Chat threads retrieved successfully")
}

func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	threadID := r.PathValue("thread_id")
	thread, err := h.svc.Thread(r.Context(), user.ID, threadID)
	if err != nil {
		switch {
		case errors.Is(err, ErrThreadNotFound):
			api.Error(w, http.StatusNotFound, "Chat thread not found")
		case errors.Is(err, ErrNotOwner):
			api.Error(w, http.StatusForbidden, "Not authorized to access this chat thread")
		default:
			h.log.Error("get chat thread failed", "user_id", user.ID, "thread_id", threadID, "error", err)
			api.Error(w, http.StatusInternalServerError, "could not load chat thread")
		}
		return
	}
	api.Success(w, map[string]any{"thread": thread}, "Chat thread retrieved successfully")
}
