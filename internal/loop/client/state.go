package client

import (
	"time"

	"github.com/tomz197/ballpit/internal/draw"
	"github.com/tomz197/ballpit/internal/input"
)

// ViewState represents the current phase of a viewer session.
type ViewState int

const (
	ViewStateWatching ViewState = iota // Watching the pit
	ViewStateHelp                      // Key bindings shown over the pit
	ViewStateShutdown                  // Server is shutting down
)

// ClientState holds per-viewer state (input, overlay toggles, timers).
// Each client has its own instance, managed by the Client.
type ClientState struct {
	Input         input.Input
	ViewState     ViewState
	prevViewState ViewState
	ShowQuadtree  bool              // Draw the quadtree node outlines
	termSizeFunc  draw.TermSizeFunc // Function to get terminal size
	Running       bool              // Client loop running
	delta         time.Duration     // Frame delta time (client-side)
	shutdownTimer float64           // Countdown before auto-disconnect on shutdown
	isInactive    bool              // Whether the client is in inactive warning state
	wasInactive   bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		ViewState:    ViewStateWatching,
		ShowQuadtree: true,
		Running:      true,
	}
}
