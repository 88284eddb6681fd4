package server

import (
	"net/http"

	"github.com/warriorsbball/painttouch/internal/painttouch"
	"github.com/warriorsbball/painttouch/internal/session"
)

// AnalyticsResponse is the response for GET /api/analytics.
type AnalyticsResponse struct {
	GameID string `json:"gameId"`
	painttouch.Summary
}

// CatalogResponse is the response for GET /api/catalog.
type CatalogResponse struct {
	Teams       []string             `json:"teams"`
	Outcomes    []painttouch.Outcome `json:"outcomes"`
	SyncEnabled bool                 `json:"syncEnabled"`
}

func handleAnalytics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp AnalyticsResponse
		err := workspaceFrom(r).WithActive(func(g *session.GameSession) error {
			resp = AnalyticsResponse{GameID: g.ID(), Summary: g.Summarize()}
			return nil
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleCatalog(syncer Syncer) http.HandlerFunc {
	resp := CatalogResponse{
		Teams:       painttouch.Teams,
		Outcomes:    painttouch.Outcomes,
		SyncEnabled: syncer.Enabled(),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}
