package game

// Player is the person playing a game session.
type Player struct {
	Name   string
	UserID string      // authenticated user ID; empty for guests
	Send   chan []byte // reference to the client's send channel
}

// NewPlayer creates a new Player with the given name and send channel.
func NewPlayer(name string, send chan []byte) *Player {
	return &Player{
		Name: name,
		Send: send,
	}
}
