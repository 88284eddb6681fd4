package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warriorsbball/painttouch/internal/painttouch"
	"github.com/warriorsbball/painttouch/internal/session"
)

// AddTouchRequest is the request body for POST /api/touches.
type AddTouchRequest struct {
	Possession string `json:"possession"`
	Type       string `json:"type"`
	Note       string `json:"note"`
}

// TouchListResponse is the response for GET /api/touches.
type TouchListResponse struct {
	GameID  string                   `json:"gameId"`
	Touches []painttouch.TouchRecord `json:"touches"`
}

func handleListTouches() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp TouchListResponse
		err := workspaceFrom(r).WithActive(func(g *session.GameSession) error {
			resp = TouchListResponse{GameID: g.ID(), Touches: g.ListTouches()}
			return nil
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleAddTouch(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddTouchRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		ws := workspaceFrom(r)
		var (
			rec    painttouch.TouchRecord
			gameID string
		)
		err := ws.WithActive(func(g *session.GameSession) error {
			var err error
			gameID = g.ID()
			rec, err = g.AddTouch(req.Possession, req.Type, req.Note)
			return err
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		broker.Publish(ws.Token(), Event{Type: eventTouchAdded, GameID: gameID, TouchID: rec.ID})
		writeJSON(w, http.StatusCreated, rec)
	}
}

func handleUpdateTouch(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req painttouch.TouchUpdate
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		ws := workspaceFrom(r)
		id := chi.URLParam(r, "id")
		var (
			rec    painttouch.TouchRecord
			gameID string
		)
		err := ws.WithActive(func(g *session.GameSession) error {
			var err error
			gameID = g.ID()
			rec, err = g.UpdateTouch(id, req)
			return err
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		broker.Publish(ws.Token(), Event{Type: eventTouchUpdated, GameID: gameID, TouchID: rec.ID})
		writeJSON(w, http.StatusOK, rec)
	}
}

func handleRemoveTouch(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r)
		id := chi.URLParam(r, "id")
		var gameID string
		err := ws.WithActive(func(g *session.GameSession) error {
			gameID = g.ID()
			return g.RemoveTouch(id)
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		broker.Publish(ws.Token(), Event{Type: eventTouchRemoved, GameID: gameID, TouchID: id})
		w.WriteHeader(http.StatusNoContent)
	}
}
