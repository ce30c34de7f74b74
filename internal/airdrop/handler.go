// Package airdrop serves curated airdrop listings. The data is a static
// placeholder until the ingestion pipeline lands.
package airdrop

import (
	"net/http"

	"github.com/scryptex/backend/internal/api"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	api.Success(w, []map[string]any{
		{
			"id":              "mock-airdrop-1",
			"name":            "ZKSync Airdrop",
			"description":     "Participate in ZKSync ecosystem to qualify",
			"status":          "Active",
			"end_date":        "2023-12-31",
			"estimated_value": "$500-$2000",
		},
		{
			"id":              "mock-airdrop-2",
			"name":            "Scroll Airdrop",
			"description":     "Participate in Scroll testnet",
			"status":          "Active",
			"end_date":        "2023-12-15",
			"estimated_value": "$200-$1000",
		},
	}, "Top airdrops retrieved successfully")
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	api.Success(w, []map[string]any{
		{
			"id":           "mock-airdrop-3",
			"name":         "Berachain Airdrop",
			"description":  "New Layer 1 EVM chain",
			"status":       "Announced",
			"start_date":   "2023-11-15",
			"requirements": []string{"Testnet participation", "Discord activity"},
		},
	}, "Latest airdrops retrieved successfully")
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("airdrop_id") == "" {
		api.Error(w, http.StatusBadRequest, "airdrop_id is required")
		return
	}
	api.Success(w, nil, "Airdrop project saved successfully")
}

func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	api.Success(w, []map[string]any{
		{
			"id":              "mock-airdrop-1",
			"name":            "ZKSync Airdrop",
			"status":          "In Progress",
			"tasks_completed": 3,
			"tasks_total":     5,
		},
	}, "Saved airdrops retrieved successfully")
}
