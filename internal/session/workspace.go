package session

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/warriorsbball/painttouch/internal/painttouch"
)

const (
	dateLayout      = "2006-01-02"
	defaultGameName = "Untitled game"
)

// Workspace is the state of one user session: its games, newest first, and
// the one that is active. Exactly one game is active once any exists.
type Workspace struct {
	token string

	mu       sync.Mutex
	games    []*GameSession
	active   string
	lastSeen time.Time
	gameOpts []Option
}

// NewWorkspace returns an empty workspace identified by token. Options are
// applied to every game created in it.
func NewWorkspace(token string, opts ...Option) *Workspace {
	return &Workspace{token: token, lastSeen: time.Now(), gameOpts: opts}
}

// Token returns the session token identifying the workspace.
func (w *Workspace) Token() string { return w.token }

// CreateGame adds a game and makes it active. An empty date means today.
func (w *Workspace) CreateGame(name, opponent, date string) (painttouch.Game, error) {
	name = strings.TrimSpace(name)
	opponent = strings.TrimSpace(opponent)
	date = strings.TrimSpace(date)

	if name == "" {
		return painttouch.Game{}, &painttouch.ValidationError{Field: "name", Reason: "is required"}
	}
	if opponent != "" && !slices.Contains(painttouch.Teams, opponent) {
		return painttouch.Game{}, &painttouch.ValidationError{Field: "opponent", Reason: "is not a known team"}
	}
	if date == "" {
		date = time.Now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		return painttouch.Game{}, &painttouch.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	g := w.addLocked(painttouch.Game{Name: name, Opponent: opponent, Date: date})
	return g.Game(), nil
}

// Games returns the metadata of every game, newest first.
func (w *Workspace) Games() []painttouch.Game {
	w.mu.Lock()
	defer w.mu.Unlock()

	games := make([]painttouch.Game, len(w.games))
	for i, g := range w.games {
		games[i] = g.Game()
	}
	return games
}

// TouchCounts returns the number of touches logged per game ID.
func (w *Workspace) TouchCounts() map[string]int {
	w.mu.Lock()
	defer w.mu.Unlock()

	counts := make(map[string]int, len(w.games))
	for _, g := range w.games {
		counts[g.ID()] = g.Len()
	}
	return counts
}

// ActiveID returns the active game ID, or "" if there are no games.
func (w *Workspace) ActiveID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Select makes the game with the given id active.
func (w *Workspace) Select(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.find(id) == nil {
		return &painttouch.NotFoundError{Kind: "game", ID: id}
	}
	w.active = id
	return nil
}

// DeleteGame discards a game and its touches. If it was active, the newest
// remaining game becomes active.
func (w *Workspace) DeleteGame(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := slices.IndexFunc(w.games, func(g *GameSession) bool { return g.ID() == id })
	if i < 0 {
		return &painttouch.NotFoundError{Kind: "game", ID: id}
	}
	w.games = slices.Delete(w.games, i, i+1)
	if w.active == id {
		w.active = ""
		if len(w.games) > 0 {
			w.active = w.games[0].ID()
		}
	}
	return nil
}

// WithActive runs fn against the active game, creating a default game first
// if the workspace has none. fn must not retain g.
func (w *Workspace) WithActive(fn func(g *GameSession) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	g := w.find(w.active)
	if g == nil {
		g = w.addLocked(painttouch.Game{Name: defaultGameName, Date: time.Now().Format(dateLayout)})
	}
	return fn(g)
}

func (w *Workspace) markSeen(now time.Time) {
	w.mu.Lock()
	w.lastSeen = now
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

func (w *Workspace) addLocked(game painttouch.Game) *GameSession {
	g := NewGameSession(game, w.gameOpts...)
	w.games = slices.Insert(w.games, 0, g)
	w.active = g.ID()
	return g
}

func (w *Workspace) find(id string) *GameSession {
	if id == "" {
		return nil
	}
	for _, g := range w.games {
		if g.ID() == id {
			return g
		}
	}
	return nil
}
