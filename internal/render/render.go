// Package render draws ball-pit frames to raster images with gogpu/gg.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/tomz197/ballpit/internal/physics"
)

// ErrEmptyScene is returned when a scene has no drawable area.
var ErrEmptyScene = errors.New("render: empty scene bounds")

// Scene is what a frame shows: the bodies, the quadtree they were indexed in
// and the pit bounds.
type Scene struct {
	Bodies   []physics.Body
	Quadtree physics.QuadtreeSnapshot
	World    physics.AABB
}

// Options configures a rendered frame. Zero values fall back to DefaultOptions.
type Options struct {
	Width, Height int // Image size in pixels
	ShowQuadtree  bool
	Background    string  // Hex colour
	SlowColor     string  // Ball colour at rest
	FastColor     string  // Ball colour at or above FastSpeed
	TreeColor     string  // Quadtree outline colour
	FastSpeed     float64 // Speed mapped to FastColor
	LineWidth     float64 // Quadtree outline width in pixels
}

// DefaultOptions returns 600x600 frames with the quadtree overlay.
func DefaultOptions() Options {
	return Options{
		Width:        600,
		Height:       600,
		ShowQuadtree: true,
		Background:   "#101418",
		SlowColor:    "#3a7bd5",
		FastColor:    "#ff6b3d",
		TreeColor:    "#2e3a46",
		FastSpeed:    60,
		LineWidth:    1,
	}
}

// withDefaults fills unset fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.Background == "" {
		o.Background = def.Background
	}
	if o.SlowColor == "" {
		o.SlowColor = def.SlowColor
	}
	if o.FastColor == "" {
		o.FastColor = def.FastColor
	}
	if o.TreeColor == "" {
		o.TreeColor = def.TreeColor
	}
	if o.FastSpeed <= 0 {
		o.FastSpeed = def.FastSpeed
	}
	if o.LineWidth <= 0 {
		o.LineWidth = def.LineWidth
	}
	return o
}

// Frame draws scene into a new context. The caller owns the context and
// must Close it.
func Frame(scene Scene, opts Options) (*gg.Context, error) {
	if scene.World.Width() <= 0 || scene.World.Height() <= 0 {
		return nil, ErrEmptyScene
	}
	opts = opts.withDefaults()

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.ClearWithColor(gg.Hex(opts.Background))

	// World units to pixels, keeping the aspect ratio and centering the pit.
	scale := math.Min(float64(opts.Width)/scene.World.Width(), float64(opts.Height)/scene.World.Height())
	offX := (float64(opts.Width) - scene.World.Width()*scale) / 2
	offY := (float64(opts.Height) - scene.World.Height()*scale) / 2
	toPixel := func(p physics.Vec2) (float64, float64) {
		return offX + (p.X-scene.World.Min.X)*scale, offY + (p.Y-scene.World.Min.Y)*scale
	}

	if opts.ShowQuadtree {
		dc.SetHexColor(opts.TreeColor)
		dc.SetLineWidth(opts.LineWidth)
		for _, node := range scene.Quadtree.Nodes {
			x, y := toPixel(node.Bounds.Min)
			dc.DrawRectangle(x, y, node.Bounds.Width()*scale, node.Bounds.Height()*scale)
			if err := dc.Stroke(); err != nil {
				dc.Close()
				return nil, fmt.Errorf("stroking quadtree node: %w", err)
			}
		}
	}

	slow, fast := gg.Hex(opts.SlowColor), gg.Hex(opts.FastColor)
	for i := range scene.Bodies {
		b := &scene.Bodies[i]
		if !b.Present() {
			continue
		}
		t := math.Min(b.Velocity.Length()/opts.FastSpeed, 1)
		c := lerp(slow, fast, t)
		dc.SetRGBA(c.R, c.G, c.B, c.A)

		x, y := toPixel(b.Position)
		dc.DrawCircle(x, y, b.Radius*scale)
		if err := dc.Fill(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("filling body %d: %w", i, err)
		}
	}

	return dc, nil
}

// WritePNG renders scene and encodes it as PNG to w.
func WritePNG(w io.Writer, scene Scene, opts Options) error {
	dc, err := Frame(scene, opts)
	if err != nil {
		return err
	}
	defer dc.Close()

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// lerp blends a towards b by t in [0, 1].
func lerp(a, b gg.RGBA, t float64) gg.RGBA {
	return gg.RGBA2(
		a.R+(b.R-a.R)*t,
		a.G+(b.G-a.G)*t,
		a.B+(b.B-a.B)*t,
		a.A+(b.A-a.A)*t,
	)
}
