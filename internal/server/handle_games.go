package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warriorsbball/painttouch/internal/painttouch"
	"github.com/warriorsbball/painttouch/internal/session"
)

// CreateGameRequest is the request body for POST /api/games.
type CreateGameRequest struct {
	Name     string `json:"name"`
	Opponent string `json:"opponent"`
	Date     string `json:"date"`
}

// GameItem is one entry in the game list.
type GameItem struct {
	painttouch.Game
	Active     bool `json:"active"`
	TouchCount int  `json:"touchCount"`
}

// GameListResponse is the response for GET /api/games.
type GameListResponse struct {
	ActiveID string     `json:"activeId"`
	Games    []GameItem `json:"games"`
}

// ActiveGameResponse is the response for GET /api/game.
type ActiveGameResponse struct {
	Game    painttouch.Game          `json:"game"`
	Touches []painttouch.TouchRecord `json:"touches"`
}

func handleListGames() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r)
		writeJSON(w, http.StatusOK, gameList(ws))
	}
}

func handleCreateGame(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		ws := workspaceFrom(r)
		game, err := ws.CreateGame(req.Name, req.Opponent, req.Date)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		broker.Publish(ws.Token(), Event{Type: eventGameCreated, GameID: game.ID})
		writeJSON(w, http.StatusCreated, game)
	}
}

func handleSelectGame(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r)
		id := chi.URLParam(r, "gameID")

		if err := ws.Select(id); err != nil {
			writeDomainError(w, err)
			return
		}

		broker.Publish(ws.Token(), Event{Type: eventGameSelected, GameID: id})
		writeJSON(w, http.StatusOK, gameList(ws))
	}
}

func handleDeleteGame(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := workspaceFrom(r)
		id := chi.URLParam(r, "gameID")

		if err := ws.DeleteGame(id); err != nil {
			writeDomainError(w, err)
			return
		}

		broker.Publish(ws.Token(), Event{Type: eventGameDeleted, GameID: id})
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleActiveGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp ActiveGameResponse
		err := workspaceFrom(r).WithActive(func(g *session.GameSession) error {
			resp = ActiveGameResponse{Game: g.Game(), Touches: g.ListTouches()}
			return nil
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func gameList(ws *session.Workspace) GameListResponse {
	active := ws.ActiveID()
	games := ws.Games()
	counts := ws.TouchCounts()

	resp := GameListResponse{ActiveID: active, Games: make([]GameItem, len(games))}
	for i, g := range games {
		resp.Games[i] = GameItem{Game: g, Active: g.ID == active, TouchCount: counts[g.ID]}
	}
	return resp
}
