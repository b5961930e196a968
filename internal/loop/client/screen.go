package client

import (
	"fmt"
	"time"

	"github.com/tomz197/ballpit/internal/draw"
	"github.com/tomz197/ballpit/internal/loop/config"
	"github.com/tomz197/ballpit/internal/loop/server"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On view state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.ViewState != c.state.prevViewState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevViewState = c.state.ViewState
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	snapshot := c.server.GetSnapshot()
	if snapshot == nil {
		return c.chunkWriter.Flush()
	}

	c.drawWorld(snapshot)

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snapshot)

	return c.chunkWriter.Flush()
}

// drawWorld rasterizes the balls and, when enabled, the quadtree node outlines.
func (c *Client) drawWorld(snapshot *server.WorldSnapshot) {
	if c.state.ShowQuadtree {
		for _, node := range snapshot.Quadtree.Nodes {
			c.canvas.DrawRect(
				draw.Point{X: node.Bounds.Min.X, Y: node.Bounds.Min.Y},
				draw.Point{X: node.Bounds.Max.X, Y: node.Bounds.Max.Y},
			)
		}
	}

	for i := range snapshot.Bodies {
		b := &snapshot.Bodies[i]
		if !b.Present() {
			continue
		}
		c.canvas.DrawCircle(draw.Point{X: b.Position.X, Y: b.Position.Y}, b.Radius, true)
	}
}

// writeText writes s at the 1-based canvas position and marks the cells so
// the canvas repaints them once the text goes away.
func (c *Client) writeText(col, row int, s string) {
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, len([]rune(s)))
}

// writeCentered writes s centered on column centerX.
func (c *Client) writeCentered(centerX, row int, s string) {
	c.writeText(centerX-len(s)/2, row, s)
}

// drawUI draws the UI overlay.
func (c *Client) drawUI(snapshot *server.WorldSnapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.ViewState == ViewStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	c.drawHUD(termWidth, termHeight, snapshot)
	if c.state.ViewState == ViewStateHelp {
		c.drawHelp(centerX, centerY)
	}
}

// drawHUD draws the counters in the four corners.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawHUD(termWidth, termHeight int, snapshot *server.WorldSnapshot) {
	tickText := fmt.Sprintf("Tick: %-9d Balls: %-5d", snapshot.Tick, len(snapshot.Bodies))
	c.writeText(2, 1, tickText)

	viewersText := fmt.Sprintf("Viewers: %-3d", snapshot.Viewers)
	c.writeText(termWidth-len(viewersText)-1, 1, viewersText)

	stats := snapshot.Stats
	statsText := fmt.Sprintf("Pairs: %-5d Checks: %-6d Nodes: %-4d Depth: %-2d",
		stats.Pairs, stats.Candidates, len(snapshot.Quadtree.Nodes), snapshot.Quadtree.MaxDepth())
	c.writeText(2, termHeight, statsText)

	status := "        "
	if snapshot.Paused {
		status = "[PAUSED]"
	}
	c.writeText(termWidth-len(status)-1, termHeight, status)
}

// drawHelp draws the key bindings.
func (c *Client) drawHelp(centerX, centerY int) {
	lines := []string{
		"        Controls        ",
		" SPACE  . . . . . Shake ",
		" R  . . . . . . . Reset ",
		" P  . . . . Pause/Resume",
		" G  . . . Quadtree view ",
		" H  . . . . Hide help   ",
		" Q  . . . . . . . Quit  ",
	}
	top := centerY - len(lines)/2
	for i, line := range lines {
		c.writeCentered(centerX, top+i, line)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"Disconnecting in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	c.writeCentered(centerX, centerY, msg)
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+1, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+3, "Press Q to disconnect now")
}
