// Package session holds the in-memory state of one user session: the games
// being tracked and the ordered touch records of each.
package session

import (
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/warriorsbball/painttouch/internal/painttouch"
)

const (
	maxLabelLen = 64
	maxNoteLen  = 500
)

// GameSession is the authoritative ordered collection of touches for one
// game. It is owned by a Workspace and is not safe for concurrent use on its
// own; the Workspace serializes access.
type GameSession struct {
	game    painttouch.Game
	touches []painttouch.TouchRecord
	nextSeq int

	roster  []string
	catalog []string
}

// Option configures a GameSession.
type Option func(*GameSession)

// WithRoster restricts possession labels to the given values.
func WithRoster(possessions ...string) Option {
	return func(g *GameSession) { g.roster = possessions }
}

// WithCatalog restricts touch types to the given values.
func WithCatalog(types ...string) Option {
	return func(g *GameSession) { g.catalog = types }
}

// NewGameSession returns an empty session for game. A zero game ID is
// replaced by a fresh one, a zero CreatedAt by the current time.
func NewGameSession(game painttouch.Game, opts ...Option) *GameSession {
	if game.ID == "" {
		game.ID = uuid.NewString()
	}
	if game.CreatedAt.IsZero() {
		game.CreatedAt = painttouch.Now()
	}
	g := &GameSession{game: game, nextSeq: 1}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the session identifier, which is the game ID.
func (g *GameSession) ID() string { return g.game.ID }

// Game returns the game metadata.
func (g *GameSession) Game() painttouch.Game { return g.game }

// CreatedAt returns when the session was created.
func (g *GameSession) CreatedAt() time.Time { return g.game.CreatedAt }

// Len returns the number of touches logged.
func (g *GameSession) Len() int { return len(g.touches) }

// AddTouch appends a new touch. It fails only on invalid input, in which
// case nothing is changed.
func (g *GameSession) AddTouch(possession, typ, note string) (painttouch.TouchRecord, error) {
	possession = clean(possession)
	typ = clean(typ)
	note = clean(note)
	if err := g.validate(possession, typ, note); err != nil {
		return painttouch.TouchRecord{}, err
	}

	rec := painttouch.TouchRecord{
		ID:         uuid.NewString(),
		Seq:        g.nextSeq,
		Possession: possession,
		Type:       typ,
		Timestamp:  painttouch.Now(),
		Note:       note,
	}
	g.nextSeq++
	g.touches = append(g.touches, rec)
	return rec, nil
}

// UpdateTouch changes the mutable fields of the touch with the given id.
func (g *GameSession) UpdateTouch(id string, upd painttouch.TouchUpdate) (painttouch.TouchRecord, error) {
	i := g.index(id)
	if i < 0 {
		return painttouch.TouchRecord{}, &painttouch.NotFoundError{Kind: "touch", ID: id}
	}

	rec := g.touches[i]
	if upd.Possession != nil {
		rec.Possession = clean(*upd.Possession)
	}
	if upd.Type != nil {
		rec.Type = clean(*upd.Type)
	}
	if upd.Note != nil {
		rec.Note = clean(*upd.Note)
	}
	if err := g.validate(rec.Possession, rec.Type, rec.Note); err != nil {
		return painttouch.TouchRecord{}, err
	}

	g.touches[i] = rec
	return rec, nil
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// clean trims surrounding space and folds CR and CRLF line breaks into LF.
func clean(s string) string {
	return strings.TrimSpace(newlines.Replace(s))
}

// RemoveTouch deletes the touch with the given id. Other touches keep their
// identifiers and sequence numbers.
func (g *GameSession) RemoveTouch(id string) error {
	i := g.index(id)
	if i < 0 {
		return &painttouch.NotFoundError{Kind: "touch", ID: id}
	}
	g.touches = slices.Delete(g.touches, i, i+1)
	return nil
}

// ListTouches returns a copy of the touches in insertion order.
func (g *GameSession) ListTouches() []painttouch.TouchRecord {
	return slices.Clone(g.touches)
}

// Counts tallies touches by possession.
func (g *GameSession) Counts() map[string]int {
	counts := make(map[string]int)
	for _, t := range g.touches {
		counts[t.Possession]++
	}
	return counts
}

// Summarize aggregates the current touches. Possessions appear in the order
// they were first logged, outcome types in catalog order followed by any
// other types in first-seen order.
func (g *GameSession) Summarize() painttouch.Summary {
	return Summarize(g.touches)
}

// Summarize aggregates records without modifying them.
func Summarize(records []painttouch.TouchRecord) painttouch.Summary {
	s := painttouch.Summary{
		Total:        len(records),
		ByPossession: []painttouch.PossessionShare{},
		ByType:       []painttouch.TypeCount{},
		KeyOutcomes:  make([]painttouch.TypeCount, len(painttouch.KeyOutcomes)),
	}

	posIdx := make(map[string]int)
	typeCounts := make(map[string]int)
	var extraTypes []string
	for _, r := range records {
		i, ok := posIdx[r.Possession]
		if !ok {
			i = len(s.ByPossession)
			posIdx[r.Possession] = i
			s.ByPossession = append(s.ByPossession, painttouch.PossessionShare{Possession: r.Possession})
		}
		s.ByPossession[i].Count++

		if _, ok := typeCounts[r.Type]; !ok && !isCatalogOutcome(r.Type) {
			extraTypes = append(extraTypes, r.Type)
		}
		typeCounts[r.Type]++
	}

	for i := range s.ByPossession {
		s.ByPossession[i].Percent = percent(s.ByPossession[i].Count, s.Total)
	}

	for _, o := range painttouch.Outcomes {
		if n := typeCounts[o.Value]; n > 0 {
			s.ByType = append(s.ByType, painttouch.TypeCount{Type: o.Value, Label: o.Label, Count: n})
		}
	}
	for _, t := range extraTypes {
		s.ByType = append(s.ByType, painttouch.TypeCount{Type: t, Label: t, Count: typeCounts[t]})
	}

	for i, o := range painttouch.KeyOutcomes {
		s.KeyOutcomes[i] = painttouch.TypeCount{Type: o.Value, Label: o.Label, Count: typeCounts[o.Value]}
	}
	return s
}

func (g *GameSession) index(id string) int {
	return slices.IndexFunc(g.touches, func(t painttouch.TouchRecord) bool { return t.ID == id })
}

func (g *GameSession) validate(possession, typ, note string) error {
	switch {
	case possession == "":
		return &painttouch.ValidationError{Field: "possession", Reason: "is required"}
	case utf8.RuneCountInString(possession) > maxLabelLen:
		return &painttouch.ValidationError{Field: "possession", Reason: "is too long"}
	case len(g.roster) > 0 && !slices.Contains(g.roster, possession):
		return &painttouch.ValidationError{Field: "possession", Reason: "is not on the roster"}
	case typ == "":
		return &painttouch.ValidationError{Field: "type", Reason: "is required"}
	case utf8.RuneCountInString(typ) > maxLabelLen:
		return &painttouch.ValidationError{Field: "type", Reason: "is too long"}
	case len(g.catalog) > 0 && !slices.Contains(g.catalog, typ):
		return &painttouch.ValidationError{Field: "type", Reason: "is not a known outcome"}
	case utf8.RuneCountInString(note) > maxNoteLen:
		return &painttouch.ValidationError{Field: "note", Reason: "is too long"}
	}
	return nil
}

func isCatalogOutcome(typ string) bool {
	for _, o := range painttouch.Outcomes {
		if o.Value == typ {
			return true
		}
	}
	return false
}

// percent returns n/total as a percentage rounded to one decimal.
func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)*1000/float64(total)) / 10
}
