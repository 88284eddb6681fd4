// Package painttouch defines the core domain types shared by the session
// store, the export/sync gateway and the HTTP layer.
package painttouch

import "time"

// TouchRecord is one logged paint touch.
type TouchRecord struct {
	ID         string    `json:"id"`
	Seq        int       `json:"seq"`
	Possession string    `json:"possession"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	Note       string    `json:"note"`
}

// TouchUpdate carries the mutable fields of a TouchRecord. Nil fields are
// left unchanged.
type TouchUpdate struct {
	Possession *string `json:"possession,omitempty"`
	Type       *string `json:"type,omitempty"`
	Note       *string `json:"note,omitempty"`
}

// Game is the metadata of one tracked game.
type Game struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Opponent  string    `json:"opponent"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// PossessionShare is the tally of touches attributed to one possession.
type PossessionShare struct {
	Possession string  `json:"possession"`
	Count      int     `json:"count"`
	Percent    float64 `json:"percent"`
}

// TypeCount is the tally of touches with one outcome type.
type TypeCount struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary is the aggregate view over a game's touches.
type Summary struct {
	Total        int               `json:"total"`
	ByPossession []PossessionShare `json:"byPossession"`
	ByType       []TypeCount       `json:"byType"`
	KeyOutcomes  []TypeCount       `json:"keyOutcomes"`
}

// Now returns the current time in the form stored on records: UTC,
// truncated to microseconds so it survives text and database round-trips.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
