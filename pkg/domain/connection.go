package domain

import "github.com/google/uuid"

// Connection is a directed edge between two bubbles.
// A reverse edge requires a second Connection.
type Connection struct {
	ID    uuid.UUID
	Start *Bubble
	End   *Bubble
}

// NewConnection links start to end. The edge is registered on start as a side
// effect of construction.
func NewConnection(start, end *Bubble) *Connection {
	c := &Connection{
		ID:    uuid.New(),
		Start: start,
		End:   end,
	}
	start.Connect(end)
	return c
}
