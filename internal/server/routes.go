package server

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/warriorsbball/painttouch/internal/gateway"
	"github.com/warriorsbball/painttouch/internal/handler/health"
	"github.com/warriorsbball/painttouch/internal/painttouch"
	"github.com/warriorsbball/painttouch/internal/session"
)

// Syncer pushes a game's touches to the external database.
type Syncer interface {
	Enabled() bool
	Check(ctx context.Context) error
	Sync(ctx context.Context, game painttouch.Game, records []painttouch.TouchRecord) (gateway.SyncResult, error)
}

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Sessions *session.Registry
	Syncer   Syncer
	SPADir   string
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	broker := NewBroker()

	checks := map[string]health.Checker{}
	if deps.Syncer.Enabled() {
		checks["database"] = health.Optional(deps.Syncer)
	}

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Paint Touch API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, checks).Routes())

	r.Route("/api", func(r chi.Router) {
		r.Use(sessionMiddleware(deps.Sessions))

		r.Get("/catalog", handleCatalog(deps.Syncer))

		r.Get("/games", handleListGames())
		r.Post("/games", handleCreateGame(broker))
		r.Post("/games/{gameID}/select", handleSelectGame(broker))
		r.Delete("/games/{gameID}", handleDeleteGame(broker))
		r.Get("/game", handleActiveGame())

		r.Get("/touches", handleListTouches())
		r.Post("/touches", handleAddTouch(broker))
		r.Put("/touches/{id}", handleUpdateTouch(broker))
		r.Delete("/touches/{id}", handleRemoveTouch(broker))

		r.Get("/analytics", handleAnalytics())
		r.Get("/export.csv", handleExportCSV(logger))
		r.Get("/report.pdf", handleReport(logger))
		r.Post("/sync", handleSync(logger, deps.Syncer, broker))

		r.Get("/events", handleEvents(broker))
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
