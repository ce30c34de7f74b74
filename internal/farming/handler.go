package farming

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/scryptex/backend/internal/api"
	"github.com/scryptex/backend/internal/audit"
	"github.com/scryptex/backend/internal/ledger"
	"github.com/scryptex/backend/internal/middleware"
	"github.com/scryptex/backend/internal/models"
)

type AnalyzeRequest struct {
	ProjectName   string  `json:"project_name" validate:"required"`
	Chain         string  `json:"chain" validate:"required"`
	WalletAddress *string `json:"wallet_address,omitempty"`
}

type StartRequest struct {
	ProjectID     string   `json:"project_id" validate:"required"`
	WalletAddress *string  `json:"wallet_address,omitempty"`
	Tasks         []string `json:"tasks,omitempty"`
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

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req AnalyzeRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	project, err := h.svc.Analyze(r.Context(), user.ID, req.ProjectName, req.Chain, req.WalletAddress)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			api.Error(w, http.StatusPaymentRequired, "Insufficient credits to analyze farming tasks")
			return
		}
		h.log.Error("farming analyze failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not analyze farming tasks")
		return
	}
	h.audit.Record(r.Context(), user.ID, "farming_analyze", map[string]any{
		"project_id":   project.ID,
		"project_name": project.ProjectName,
		"chain":        project.Chain,
	})
	api.Success(w, map[string]any{
		"project_id": project.ID,
		"name":       project.ProjectName,
		"chain":      project.Chain,
		"tasks":      project.Tasks,
	}, "Farming tasks analyzed successfully")
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req StartRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	project, tasks, err := h.svc.Start(r.Context(), user.ID, req.ProjectID, req.WalletAddress, req.Tasks)
	if err != nil {
		switch {
		case errors.Is(err, ErrProjectNotFound):
			api.Error(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, ErrNotOwner):
			api.Error(w, http.StatusForbidden, "You don't have permission to farm this project")
		case errors.Is(err, ErrAlreadyRunning):
			api.Error(w, http.StatusBadRequest, "Farming already in progress for this project")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			api.Error(w, http.StatusPaymentRequired, "Insufficient credits to start farming (requires 2 credits)")
		default:
			h.log.Error("farming start failed", "user_id", user.ID, "project_id", req.ProjectID, "error", err)
			api.Error(w, http.StatusInternalServerError, "could not start farming")
		}
		return
	}
	h.audit.Record(r.Context(), user.ID, "farming_start", map[string]any{
		"project_id":   project.ID,
		"project_name": project.ProjectName,
		"chain":        project.Chain,
	})

	taskViews := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		taskViews = append(taskViews, map[string]any{
			"task_name": t.Name,
			"status":    models.FarmingStatusPending,
		})
	}
	api.Success(w, map[string]any{
		"farming_id": project.ID,
		"status":     "started",
		"tasks":      taskViews,
	}, "Farming started successfully")
}

func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	projectID := r.PathValue("project_id")
	project, logs, err := h.svc.Logs(r.Context(), user.ID, projectID)
	if err != nil {
		switch {
		case errors.Is(err, ErrProjectNotFound):
			api.Error(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, ErrNotOwner):
			api.Error(w, http.StatusForbidden, "You don't have access to this project")
		default:
			h.log.Error("farming logs failed", "user_id", user.ID, "project_id", projectID, "error", err)
			api.Error(w, http.StatusInternalServerError, "could not load farming logs")
		}
		return
	}

	logViews := make([]map[string]any, 0, len(logs))
	for _, l := range logs {
		logViews = append(logViews, map[string]any{
			"message":   l.Message,
			"level":     l.Level,
			"timestamp": l.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	api.Success(w, map[string]any{
		"project_id":   project.ID,
		"project_name": project.ProjectName,
		"status":       project.Status,
		"logs":         logViews,
	}, "Farming logs retrieved successfully")
}

func (h *Handler) My(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	projects, err := h.svc.MyProjects(r.Context(), user.ID)
	if err != nil {
		h.log.Error("list farming projects failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not load farming projects")
		return
	}

	views := make([]map[string]any, 0, len(projects))
	for _, p := range projects {
		tasks := make([]map[string]any, 0, len(p.Tasks))
		for _, t := range p.Tasks {
			tasks = append(tasks, map[string]any{
				"name":   t.Name,
				"type":   t.Type,
				"status": t.Status,
			})
		}
		var lastFarmed *string
		if p.Status != models.FarmingStatusPending {
			ts := p.UpdatedAt.UTC().Format(time.RFC3339)
			lastFarmed = &ts
		}
		views = append(views, map[string]any{
			"id":          p.ID,
			"name":        p.ProjectName,
			"chain":       p.Chain,
			"tasks":       tasks,
			"last_farmed": lastFarmed,
			"status":      p.Status,
		})
	}
	api.Success(w, views, "Farming projects retrieved successfully")
}

func (h *Handler) Chains(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.svc.Chains(), "Supported chains retrieved successfully")
}

// Save marks a project recurring so it shows on the user's farming list.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		api.Error(w, http.StatusBadRequest, "project_id is required")
		return
	}
	if err := h.svc.Save(r.Context(), user.ID, projectID); err != nil {
		switch {
		case errors.Is(err, ErrProjectNotFound):
			api.Error(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, ErrNotOwner):
			api.Error(w, http.StatusForbidden, "You don't have access to this project")
		default:
			h.log.Error("farming save failed", "user_id", user.ID, "project_id", projectID, "error", err)
			api.Error(w, http.StatusInternalServerError, "could not save project")
		}
		return
	}
	api.Success(w, nil, "Project saved to farming list successfully")
}
