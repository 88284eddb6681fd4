package server

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/warriorsbball/painttouch/internal/gateway"
	"github.com/warriorsbball/painttouch/internal/painttouch"
	"github.com/warriorsbball/painttouch/internal/session"
)

// snapshot is a consistent copy of the active game taken under the
// workspace lock.
type snapshot struct {
	game    painttouch.Game
	records []painttouch.TouchRecord
}

func activeSnapshot(r *http.Request) (snapshot, error) {
	var snap snapshot
	err := workspaceFrom(r).WithActive(func(g *session.GameSession) error {
		snap = snapshot{game: g.Game(), records: g.ListTouches()}
		return nil
	})
	return snap, err
}

func handleExportCSV(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := activeSnapshot(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var buf bytes.Buffer
		if err := gateway.ExportCSV(&buf, snap.records); err != nil {
			logger.Error("csv export failed", "game_id", snap.game.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, gateway.Filename(snap.game, "csv")))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

func handleReport(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := activeSnapshot(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var buf bytes.Buffer
		if err := gateway.Report(&buf, snap.game, session.Summarize(snap.records)); err != nil {
			logger.Error("report render failed", "game_id", snap.game.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, gateway.Filename(snap.game, "pdf")))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
