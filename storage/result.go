package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// End reasons stored with a result.
const (
	EndWon              = "won"
	EndAbandoned        = "abandoned"
	EndReconnectTimeout = "reconnect_timeout"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ErrMissingID is returned when a result is inserted without an ID.
var ErrMissingID = errors.New("storage: result has no id")

// GameResult is one finished game.
type GameResult struct {
	ID            string `json:"id"`
	PlayedAt      string `json:"played_at"` // ISO8601
	UserID        string `json:"user_id"`
	PlayerName    string `json:"player_name"`
	EndReason     string `json:"end_reason"`
	ElapsedMs     int64  `json:"elapsed_ms"`
	Rounds        int    `json:"rounds"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	PairsTurned   int    `json:"pairs_turned"`
	Matches       int    `json:"matches"`
	WastedReveals int    `json:"wasted_reveals"`
}

// LeaderboardEntry is a won game ranked by time, then wasted reveals.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	GameID        string `json:"game_id"`
	UserID        string `json:"user_id"`
	PlayerName    string `json:"player_name"`
	ElapsedMs     int64  `json:"elapsed_ms"`
	PairsTurned   int    `json:"pairs_turned"`
	WastedReveals int    `json:"wasted_reveals"`
	PlayedAt      string `json:"played_at"`
	IsCurrentUser bool   `json:"is_current_user,omitempty"`
}

// clampPage normalizes leaderboard paging parameters.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func formatPlayedAt(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Open returns the configured backend: Postgres when databaseURL is set, else SQLite
// when sqlitePath is set. With neither it returns (nil, nil) and no persistence occurs.
func Open(ctx context.Context, databaseURL, sqlitePath string) (ResultStore, error) {
	switch {
	case databaseURL != "":
		s, err := NewStore(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		slog.Info("connected to postgres", "tag", "storage")
		return s, nil
	case sqlitePath != "":
		s, err := NewSQLiteStore(ctx, sqlitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("opened sqlite database", "tag", "storage", "path", sqlitePath)
		return s, nil
	default:
		slog.Info("no database configured, results will not be saved", "tag", "storage")
		return nil, nil
	}
}
