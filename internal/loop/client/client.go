package client

import (
	"bufio"
	"io"
	"time"

	"github.com/tomz197/ballpit/internal/draw"
	"github.com/tomz197/ballpit/internal/input"
	"github.com/tomz197/ballpit/internal/loop/config"
	"github.com/tomz197/ballpit/internal/loop/server"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.PitServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
}

// NewClient creates a new client connected to the given server.
func NewClient(ps server.PitServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	handle := ps.RegisterClient(opts.Username)
	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// The canvas maps world units onto the largest undistorted terminal area.
	world := ps.GetSnapshot().World
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitArea(termWidth, termHeight,
		config.MaxTermWidth, config.MaxTermHeight, world.Width(), world.Height())
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, world.Width(), world.Height())
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       ps,
		handle:       handle,
		state:        state,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
	}
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()

		if c.state.ViewState == ViewStateShutdown {
			c.updateShutdownState()
		}

		if err := c.drawFrame(); err != nil {
			c.server.UnregisterClient(c.handle.ID)
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input, applies local toggles and forwards commands to the server.
func (c *Client) processInput() {
	in := input.ReadInput(c.inputStream)
	c.state.Input = in

	if in.Any() {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit || c.inputStream.Closed() {
		c.state.Running = false
		return
	}
	if c.state.ViewState == ViewStateShutdown {
		return
	}

	if in.Help {
		if c.state.ViewState == ViewStateHelp {
			c.state.ViewState = ViewStateWatching
		} else {
			c.state.ViewState = ViewStateHelp
		}
	}
	if in.Overlay {
		c.state.ShowQuadtree = !c.state.ShowQuadtree
	}
	if in.Shake {
		c.server.SendCommand(c.handle.ID, server.CommandShake)
	}
	if in.Reset {
		c.server.SendCommand(c.handle.ID, server.CommandReset)
	}
	if in.Pause {
		c.server.SendCommand(c.handle.ID, server.CommandTogglePause)
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.ViewState = ViewStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			case server.EventWorldReset:
				c.canvas.ForceRedraw()
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize. On actual size changes, clears the
// terminal to remove residual pixels outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitArea(termWidth, termHeight,
		config.MaxTermWidth, config.MaxTermHeight, c.canvas.LogicalWidth(), c.canvas.LogicalHeight())

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
