package server

import (
	"log/slog"
	"net/http"
)

func handleSync(logger *slog.Logger, syncer Syncer, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := activeSnapshot(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		// Runs outside the workspace lock.
		res, err := syncer.Sync(r.Context(), snap.game, snap.records)
		if err != nil {
			logger.Warn("sync to database failed", "game_id", snap.game.ID, "error", err)
			writeDomainError(w, err)
			return
		}

		broker.Publish(workspaceFrom(r).Token(), Event{Type: eventSynced, GameID: res.GameID, Written: res.Written})
		writeJSON(w, http.StatusOK, res)
	}
}
