package sessionerrors

import "errors"

// Session and rejoin sentinel errors. Used by both the sessions and ws packages
// to avoid circular imports.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameFinished    = errors.New("game finished")
	ErrInvalidToken    = errors.New("invalid rejoin token")
	ErrNotDisconnected = errors.New("this player is not disconnected")
	ErrNoActiveGame    = errors.New("no active game for this user")
	ErrShuttingDown    = errors.New("server is shutting down")
)
