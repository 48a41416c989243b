package storage

import "context"

// ResultStore abstracts persistence for finished games, history and leaderboard.
// Implementations can be swapped for testing or for a different backend.
type ResultStore interface {
	// Read
	ListByUserID(ctx context.Context, userID string) ([]GameResult, error)
	ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error)

	// Write
	InsertResult(ctx context.Context, r GameResult) error

	// Lifecycle
	Close()
}

// Ensure both backends implement ResultStore at compile time.
var (
	_ ResultStore = (*Store)(nil)
	_ ResultStore = (*SQLiteStore)(nil)
)
