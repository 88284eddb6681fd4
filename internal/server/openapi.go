package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/warriorsbball/painttouch/internal/gateway"
	"github.com/warriorsbball/painttouch/internal/painttouch"
)

// HealthResponse documents the /healthz body: one status per dependency.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Paint Touch API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the in-game paint touch tracker. " +
		"All /api routes are scoped to the session in the pt_session cookie.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies. An unreachable sync database is reported as degraded with status 200.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/catalog
	getCatalog, _ := r.NewOperationContext(http.MethodGet, "/api/catalog")
	getCatalog.SetSummary("Entry catalog")
	getCatalog.SetDescription("Returns the opponent list, the outcome catalog and whether sync is enabled.")
	getCatalog.AddRespStructure(CatalogResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getCatalog)

	// GET /api/games
	listGames, _ := r.NewOperationContext(http.MethodGet, "/api/games")
	listGames.SetSummary("List games")
	listGames.SetDescription("Returns the session's games, newest first, with the active game marked.")
	listGames.AddRespStructure(GameListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listGames)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Creates a game and makes it active. Date defaults to today.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(painttouch.Game{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createGame)

	// POST /api/games/{gameID}/select
	selectGame, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/select")
	selectGame.SetSummary("Select game")
	selectGame.SetDescription("Makes a game the active one.")
	selectGame.AddRespStructure(GameListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	selectGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(selectGame)

	// DELETE /api/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	deleteGame.SetSummary("Delete game")
	deleteGame.SetDescription("Discards a game and its touches. The newest remaining game becomes active.")
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// GET /api/game
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/game")
	getGame.SetSummary("Active game")
	getGame.SetDescription("Returns the active game and its touches, creating a default game on first use.")
	getGame.AddRespStructure(ActiveGameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getGame)

	// GET /api/touches
	listTouches, _ := r.NewOperationContext(http.MethodGet, "/api/touches")
	listTouches.SetSummary("List touches")
	listTouches.SetDescription("Returns the active game's touches in insertion order.")
	listTouches.AddRespStructure(TouchListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listTouches)

	// POST /api/touches
	addTouch, _ := r.NewOperationContext(http.MethodPost, "/api/touches")
	addTouch.SetSummary("Add touch")
	addTouch.SetDescription("Appends a touch to the active game.")
	addTouch.AddReqStructure(AddTouchRequest{})
	addTouch.AddRespStructure(painttouch.TouchRecord{}, openapi.WithHTTPStatus(http.StatusCreated))
	addTouch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(addTouch)

	// PUT /api/touches/{id}
	updateTouch, _ := r.NewOperationContext(http.MethodPut, "/api/touches/{id}")
	updateTouch.SetSummary("Edit touch")
	updateTouch.SetDescription("Updates possession, type or note of a touch. Omitted fields are unchanged.")
	updateTouch.AddReqStructure(painttouch.TouchUpdate{})
	updateTouch.AddRespStructure(painttouch.TouchRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	updateTouch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	updateTouch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(updateTouch)

	// DELETE /api/touches/{id}
	removeTouch, _ := r.NewOperationContext(http.MethodDelete, "/api/touches/{id}")
	removeTouch.SetSummary("Delete touch")
	removeTouch.SetDescription("Removes a touch. Other touches keep their ids.")
	removeTouch.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	removeTouch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(removeTouch)

	// GET /api/analytics
	getAnalytics, _ := r.NewOperationContext(http.MethodGet, "/api/analytics")
	getAnalytics.SetSummary("View analytics")
	getAnalytics.SetDescription("Returns possession shares and outcome counts for the active game.")
	getAnalytics.AddRespStructure(AnalyticsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getAnalytics)

	// GET /api/export.csv
	exportCSV, _ := r.NewOperationContext(http.MethodGet, "/api/export.csv")
	exportCSV.SetSummary("Export CSV")
	exportCSV.SetDescription("Downloads the active game's touches as CSV: id,possession,type,timestamp,note.")
	exportCSV.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("text/csv"))
	_ = r.AddOperation(exportCSV)

	// GET /api/report.pdf
	report, _ := r.NewOperationContext(http.MethodGet, "/api/report.pdf")
	report.SetSummary("Export report")
	report.SetDescription("Downloads a one-page PDF snapshot of the active game's analytics.")
	report.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("application/pdf"))
	_ = r.AddOperation(report)

	// POST /api/sync
	postSync, _ := r.NewOperationContext(http.MethodPost, "/api/sync")
	postSync.SetSummary("Sync to DB")
	postSync.SetDescription("Upserts the active game and its touches into DATABASE_URL. Idempotent.")
	postSync.AddRespStructure(gateway.SyncResult{}, openapi.WithHTTPStatus(http.StatusOK))
	postSync.AddRespStructure(SyncErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	postSync.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(postSync)

	// GET /api/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of changes made in this session.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
