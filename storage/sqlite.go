package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const createSQLiteTableSQL = `
CREATE TABLE IF NOT EXISTS game_results (
	id             TEXT PRIMARY KEY,
	played_at      TEXT NOT NULL,
	user_id        TEXT NOT NULL DEFAULT '',
	player_name    TEXT NOT NULL,
	end_reason     TEXT NOT NULL,
	elapsed_ms     INTEGER NOT NULL,
	rounds         INTEGER NOT NULL,
	width          INTEGER NOT NULL,
	height         INTEGER NOT NULL,
	pairs_turned   INTEGER NOT NULL,
	matches        INTEGER NOT NULL,
	wasted_reveals INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_results_user_id ON game_results(user_id);
CREATE INDEX IF NOT EXISTS idx_game_results_leaderboard ON game_results(end_reason, elapsed_ms, wasted_reveals);
`

// SQLiteStore persists game results in a local SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (and creates if missing) the database at path and ensures the schema.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, createSQLiteTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	if s != nil && s.db != nil {
		s.db.Close()
	}
}

// InsertResult records a finished game. PlayedAt defaults to now.
func (s *SQLiteStore) InsertResult(ctx context.Context, r GameResult) error {
	if s == nil || s.db == nil {
		return nil
	}
	if r.ID == "" {
		return ErrMissingID
	}
	playedAt := r.PlayedAt
	if playedAt == "" {
		playedAt = formatPlayedAt(s.now())
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_results (id, played_at, user_id, player_name, end_reason, elapsed_ms, rounds, width, height, pairs_turned, matches, wasted_reveals)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, playedAt, r.UserID, r.PlayerName, r.EndReason, r.ElapsedMs, r.Rounds, r.Width, r.Height, r.PairsTurned, r.Matches, r.WastedReveals)
	return err
}

// ListByUserID returns the user's games, newest first.
func (s *SQLiteStore) ListByUserID(ctx context.Context, userID string) ([]GameResult, error) {
	if s == nil || s.db == nil {
		return []GameResult{}, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, played_at, user_id, player_name, end_reason, elapsed_ms, rounds, width, height, pairs_turned, matches, wasted_reveals
		FROM game_results
		WHERE user_id = ?
		ORDER BY played_at DESC, id ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GameResult{}
	for rows.Next() {
		var r GameResult
		if err := rows.Scan(&r.ID, &r.PlayedAt, &r.UserID, &r.PlayerName, &r.EndReason, &r.ElapsedMs, &r.Rounds, &r.Width, &r.Height, &r.PairsTurned, &r.Matches, &r.WastedReveals); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListLeaderboard returns won games ordered by elapsed time, then wasted reveals.
func (s *SQLiteStore) ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	if s == nil || s.db == nil {
		return []LeaderboardEntry{}, nil
	}
	limit, offset = clampPage(limit, offset)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, player_name, elapsed_ms, pairs_turned, wasted_reveals, played_at
		FROM game_results
		WHERE end_reason = ?
		ORDER BY elapsed_ms ASC, wasted_reveals ASC, played_at ASC
		LIMIT ? OFFSET ?`,
		EndWon, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.GameID, &e.UserID, &e.PlayerName, &e.ElapsedMs, &e.PairsTurned, &e.WastedReveals, &e.PlayedAt); err != nil {
			return nil, err
		}
		e.Rank = offset + len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}
