package server

import (
	"time"

	"github.com/tomz197/ballpit/internal/physics"
)

// WorldSnapshot is an immutable snapshot of the ball pit for rendering.
// Viewers must not modify the slices it holds.
type WorldSnapshot struct {
	Bodies   []physics.Body
	Quadtree physics.QuadtreeSnapshot
	Stats    physics.TickStats
	Tick     uint64
	Viewers  int
	Paused   bool
	World    physics.AABB  // Pit bounds in world units
	Delta    time.Duration // Wall time of the last server tick
}

// Command is a viewer request applied by the server between frames.
type Command int

const (
	CommandNone Command = iota
	CommandShake
	CommandReset
	CommandTogglePause
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandShake:
		return "shake"
	case CommandReset:
		return "reset"
	case CommandTogglePause:
		return "toggle-pause"
	default:
		return "none"
	}
}

// clientCommand is a command tagged with the viewer that sent it.
type clientCommand struct {
	ClientID int
	Command  Command
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventWorldReset
)
