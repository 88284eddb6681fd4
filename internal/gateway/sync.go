package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/warriorsbball/painttouch/internal/database"
	"github.com/warriorsbball/painttouch/internal/migrations"
	"github.com/warriorsbball/painttouch/internal/painttouch"
)

// DatabaseURLKey is the configuration key that enables sync.
const DatabaseURLKey = "DATABASE_URL"

// SyncResult reports a completed sync.
type SyncResult struct {
	GameID  string `json:"gameId"`
	Written int    `json:"written"`
}

// Syncer pushes a game's touches to the database named by DATABASE_URL.
// Each call opens its own connection and releases it before returning.
type Syncer struct {
	url     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewSyncer returns a Syncer for url. An empty url disables sync.
func NewSyncer(logger *slog.Logger, url string, timeout time.Duration) *Syncer {
	return &Syncer{url: url, timeout: timeout, logger: logger}
}

// Enabled reports whether a database is configured.
func (s *Syncer) Enabled() bool { return s.url != "" }

// Check opens a connection and pings it.
func (s *Syncer) Check(ctx context.Context) error {
	if !s.Enabled() {
		return &painttouch.ConfigurationError{Key: DatabaseURLKey}
	}
	db, err := s.connect(ctx)
	if err != nil {
		return err
	}
	return db.Close()
}

// Sync upserts game and records keyed by (game ID, record ID). Running it
// again on an unchanged snapshot writes the same rows. Rows commit one at a
// time; a failure part way returns *SyncError carrying how many touch rows
// landed.
func (s *Syncer) Sync(ctx context.Context, game painttouch.Game, records []painttouch.TouchRecord) (SyncResult, error) {
	if !s.Enabled() {
		return SyncResult{}, &painttouch.ConfigurationError{Key: DatabaseURLKey}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	db, err := s.connect(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return SyncResult{}, s.connErr(ctx, err)
	}

	now := painttouch.Now().Format(time.RFC3339Nano)
	_, err = db.ExecContext(ctx, db.Rebind(`
		INSERT INTO games (client_id, name, opponent, game_date, created_at, synced_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (client_id) DO UPDATE SET
			name = excluded.name,
			opponent = excluded.opponent,
			game_date = excluded.game_date,
			synced_at = excluded.synced_at
	`), game.ID, game.Name, game.Opponent, game.Date, game.CreatedAt.UTC().Format(time.RFC3339Nano), now)
	if err != nil {
		return SyncResult{}, s.connErr(ctx, fmt.Errorf("upserting game: %w", err))
	}

	upsert := db.Rebind(`
		INSERT INTO touches (session_id, record_id, seq, possession, type, timestamp, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, record_id) DO UPDATE SET
			seq = excluded.seq,
			possession = excluded.possession,
			type = excluded.type,
			timestamp = excluded.timestamp,
			note = excluded.note
	`)
	for i, r := range records {
		_, err := db.ExecContext(ctx, upsert,
			game.ID, r.ID, r.Seq, r.Possession, r.Type, r.Timestamp.UTC().Format(time.RFC3339Nano), r.Note)
		if err != nil {
			s.logger.Error("sync failed", "game_id", game.ID, "written", i, "error", err)
			return SyncResult{}, &painttouch.SyncError{Written: i, Err: fmt.Errorf("upserting touch %s: %w", r.ID, err)}
		}
	}

	s.logger.Info("sync complete", "game_id", game.ID, "written", len(records), "dialect", db.Dialect)
	return SyncResult{GameID: game.ID, Written: len(records)}, nil
}

func (s *Syncer) connect(ctx context.Context) (*database.DB, error) {
	db, err := database.Open(ctx, s.url)
	if err != nil {
		s.logger.Error("database connection failed", "error", err)
		return nil, &painttouch.ConnectionError{Err: err}
	}
	return db, nil
}

// connErr classifies a failure before any row was written. Deadline and
// cancellation surface as connection errors.
func (s *Syncer) connErr(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return &painttouch.ConnectionError{Err: err}
	}
	return &painttouch.SyncError{Written: 0, Err: err}
}
