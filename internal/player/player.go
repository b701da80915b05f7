package player

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Player is a client connected to the room: either the person at the board or a spectator.
type Player struct {
	ID   string
	Conn Connection
}

// NewPlayer creates a new player.
func NewPlayer(id string, conn Connection) *Player {
	return &Player{ID: id, Conn: conn}
}
