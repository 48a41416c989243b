package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS game_results (
	id             UUID PRIMARY KEY,
	played_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	user_id        TEXT NOT NULL DEFAULT '',
	player_name    TEXT NOT NULL,
	end_reason     TEXT NOT NULL,
	elapsed_ms     BIGINT NOT NULL,
	rounds         INT NOT NULL,
	width          INT NOT NULL,
	height         INT NOT NULL,
	pairs_turned   INT NOT NULL,
	matches        INT NOT NULL,
	wasted_reveals INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_results_user_id ON game_results(user_id);
CREATE INDEX IF NOT EXISTS idx_game_results_leaderboard ON game_results(end_reason, elapsed_ms, wasted_reveals);
`

// Store persists game results in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the game_results table exists.
// If databaseURL is empty, NewStore returns (nil, nil) and no persistence occurs.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// InsertResult records a finished game.
func (s *Store) InsertResult(ctx context.Context, r GameResult) error {
	if s == nil || s.pool == nil {
		return nil
	}
	if r.ID == "" {
		return ErrMissingID
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO game_results (id, user_id, player_name, end_reason, elapsed_ms, rounds, width, height, pairs_turned, matches, wasted_reveals)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.ID, r.UserID, r.PlayerName, r.EndReason, r.ElapsedMs, r.Rounds, r.Width, r.Height, r.PairsTurned, r.Matches, r.WastedReveals)
	return err
}

// ListByUserID returns the user's games, newest first.
func (s *Store) ListByUserID(ctx context.Context, userID string) ([]GameResult, error) {
	if s == nil || s.pool == nil {
		return []GameResult{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, played_at, user_id, player_name, end_reason, elapsed_ms, rounds, width, height, pairs_turned, matches, wasted_reveals
		FROM game_results
		WHERE user_id = $1
		ORDER BY played_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GameResult{}
	for rows.Next() {
		var r GameResult
		var playedAt time.Time
		if err := rows.Scan(&r.ID, &playedAt, &r.UserID, &r.PlayerName, &r.EndReason, &r.ElapsedMs, &r.Rounds, &r.Width, &r.Height, &r.PairsTurned, &r.Matches, &r.WastedReveals); err != nil {
			return nil, err
		}
		r.PlayedAt = formatPlayedAt(playedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListLeaderboard returns won games ordered by elapsed time, then wasted reveals.
func (s *Store) ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	if s == nil || s.pool == nil {
		return []LeaderboardEntry{}, nil
	}
	limit, offset = clampPage(limit, offset)
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, player_name, elapsed_ms, pairs_turned, wasted_reveals, played_at
		FROM game_results
		WHERE end_reason = $1
		ORDER BY elapsed_ms ASC, wasted_reveals ASC, played_at ASC
		LIMIT $2 OFFSET $3`,
		EndWon, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		var playedAt time.Time
		if err := rows.Scan(&e.GameID, &e.UserID, &e.PlayerName, &e.ElapsedMs, &e.PairsTurned, &e.WastedReveals, &playedAt); err != nil {
			return nil, err
		}
		e.PlayedAt = formatPlayedAt(playedAt)
		e.Rank = offset + len(out) + 1
		out = append(out, e)
	}
	return out, rows.Err()
}
