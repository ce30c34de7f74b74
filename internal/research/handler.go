package research

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/scryptex/backend/internal/api"
	"github.com/scryptex/backend/internal/ledger"
	"github.com/scryptex/backend/internal/middleware"
)

type AnalyzeRequest struct {
	ProjectName string  `json:"project_name" validate:"required"`
	Website     *string `json:"website,omitempty"`
}

type FetcherRequest struct {
	ProjectID   string `json:"project_id" validate:"required"`
	FetcherType string `json:"fetcher_type" validate:"required"`
}

type HistoryRequest struct {
	ProjectName string `json:"project_name" validate:"required"`
}

type DeleteRequest struct {
	ProjectID string `json:"project_id" validate:"required"`
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

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req AnalyzeRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	project, err := h.svc.Analyze(r.Context(), &user.ID, req.ProjectName, req.Website)
	if err != nil {
		h.log.Error("analyze failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not start project analysis")
		return
	}
	api.Success(w, map[string]any{
		"project_id":         project.ID,
		"name":               project.Name,
		"status":             project.Status,
		"fetchers_available": project.FetchersAvailable,
	}, "Project analysis initiated")
}

func (h *Handler) RunFetcher(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req FetcherRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.RunFetcher(r.Context(), user.ID, req.ProjectID, req.FetcherType)
	if err != nil {
		switch {
		case errors.Is(err, ErrProjectNotFound):
			api.Error(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, ErrUnknownFetcher):
			api.Error(w, http.StatusBadRequest, "Fetcher not available")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			api.Error(w, http.StatusPaymentRequired, "Insufficient credits to run fetcher")
		default:
			h.log.Error("fetcher failed", "user_id", user.ID, "fetcher", req.FetcherType, "error", err)
			api.Error(w, http.StatusInternalServerError, "could not run fetcher")
		}
		return
	}
	api.Success(w, result, "Fetcher executed successfully")
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req HistoryRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	project, err := h.svc.History(r.Context(), user.ID, req.ProjectName)
	if err != nil {
		if errors.Is(err, ErrNoHistory) {
			api.Error(w, http.StatusNotFound, "No history found")
			return
		}
		h.log.Error("history failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not load analysis history")
		return
	}
	api.Success(w, project, "Analysis history retrieved")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	var req DeleteRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	deleted, err := h.svc.Delete(r.Context(), user.ID, req.ProjectID)
	if err != nil {
		h.log.Error("delete analysis failed", "user_id", user.ID, "error", err)
		api.Error(w, http.StatusInternalServerError, "could not delete analysis")
		return
	}
	api.Success(w, map[string]any{"deleted_count": deleted}, "Analysis deleted")
}
