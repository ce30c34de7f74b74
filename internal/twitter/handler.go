package twitter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/scryptex/backend/internal/api"
	"github.com/scryptex/backend/internal/audit"
	"github.com/scryptex/backend/internal/ledger"
	"github.com/scryptex/backend/internal/middleware"
)

type PostRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
	Topic     string `json:"topic" validate:"required"`
	Tone      string `json:"tone,omitempty"`
}

type ThreadRequest struct {
	ProjectID string   `json:"project_id" validate:"required"`
	Topics    []string `json:"topics" validate:"required,min=1"`
}

type ConnectRequest struct {
	TwitterHandle string `json:"twitter_handle" validate:"required"`
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

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req PostRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Tone == "" {
		req.Tone = "informative"
	}
	post, err := h.svc.CreatePost(r.Context(), user.ID, req.ProjectID, req.Topic, req.Tone)
	if err != nil {
		switch {
		case errors.Is(err, ErrProjectNotFound):
			api.Error(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			api.Error(w, http.StatusPaymentRequired, "Insufficient credits to create Twitter post")
		default:
			h.log.Error("twitter post failed", "user_id", user.ID, "error", err)
			api.Error(w, http.StatusInternalServerError, "could not create Twitter post")
		}
		return
	}
	h.audit.Record(r.Context(), user.ID, "twitter_post_create", map[string]any{
		"post_id":    post.ID,
		"project_id": req.ProjectID,
		"topic":      req.Topic,
	})
	api.Success(w, map[string]any{
		"post_id": post.ID,
		"content": post.Content,
		"status":  post.Status,
	}, "Twitter post generated successfully")
}

func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req ThreadRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	thread, postCount, err := h.svc.CreateThread(r.Context(), user.ID, req.ProjectID, req.Topics)
	if err != nil {
		switch {
		case errors.Is(err, ErrProjectNotFound):
			api.Error(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			api.Error(w, http.StatusPaymentRequired, "Insufficient credits to create Twitter thread (requires 2 credits)")
		default:
			h.log.Error("twitter thread failed", "user_id", user.ID, "error", err)
			api.Error(w, http.StatusInternalServerError, "could not create Twitter thread")
		}
		return
	}
	h.audit.Record(r.Context(), user.ID, "twitter_thread_create", map[string]any{
		"thread_id":  thread.ID,
		"project_id": req.ProjectID,
		"topics":     req.Topics,
	})
	api.Success(w, map[string]any{
		"thread_id":  thread.ID,
		"post_count": postCount,
		"topics":     req.Topics,
		"status":     thread.Status,
	}, "Twitter thread generated successfully")
}

func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	posts, err := h.svc.Posts(r.Context(), user.ID)
	if err != nil {
		h.log.Error("list twitter posts failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not load Twitter posts")
		return
	}
	api.Success(w, posts, "Twitter posts retrieved successfully")
}

func (h *Handler) Threads(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	threads, err := h.svc.Threads(r.Context(), user.ID)
	if err != nil {
		h.log.Error("list twitter threads failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not load Twitter threads")
		return
	}
	api.Success(w, threads, "Twitter threads retrieved successfully")
}

func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req ConnectRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	account, err := h.svc.Connect(r.Context(), user.ID, req.TwitterHandle)
	if err != nil {
		h.log.Error("twitter connect failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not connect Twitter account")
		return
	}
	api.Success(w, map[string]any{
		"twitter_handle": account.TwitterHandle,
		"is_connected":   account.IsConnected,
	}, "Twitter account connected successfully")
}
