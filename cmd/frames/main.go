package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomz197/ballpit/internal/logging"
	loopconfig "github.com/tomz197/ballpit/internal/loop/config"
	"github.com/tomz197/ballpit/internal/render"
	"github.com/tomz197/ballpit/internal/sim"
)

func main() {
	out := flag.String("out", "frames", "output directory")
	frames := flag.Int("frames", 120, "number of frames to write")
	every := flag.Int("every", 1, "write every n-th frame")
	size := flag.Int("size", 600, "image width and height in pixels")
	overlay := flag.Bool("quadtree", true, "draw quadtree node outlines")
	flag.Parse()

	logger := logging.New("frames")
	logging.Install(logger)

	if *frames <= 0 || *every <= 0 || *size <= 0 {
		logger.Fatal("frames, every and size must be positive")
	}

	world, err := sim.NewWorld(loopconfig.Physics(), loopconfig.Sim())
	if err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		logger.Fatal("Failed to create output directory", "dir", *out, "err", err)
	}

	opts := render.DefaultOptions()
	opts.Width, opts.Height = *size, *size
	opts.ShowQuadtree = *overlay

	logger.Info("Rendering", "frames", *frames, "balls", world.Len(), "dir", *out)
	for i := 0; i < *frames; i++ {
		for j := 0; j < *every; j++ {
			world.Frame()
		}
		path := filepath.Join(*out, fmt.Sprintf("frame_%05d.png", i))
		if err := writeFrame(path, world, opts); err != nil {
			logger.Fatal("Failed to write frame", "path", path, "err", err)
		}
		stats := world.Stats()
		logger.Debug("Frame written", "path", path, "tick", world.Tick(), "pairs", stats.Pairs, "candidates", stats.Candidates)
	}
	logger.Info("Done", "tick", world.Tick(), "energy", world.KineticEnergy())
}

func writeFrame(path string, world *sim.World, opts render.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	scene := render.Scene{
		Bodies:   world.Bodies(),
		Quadtree: world.Quadtree(),
		World:    world.Config().Bounds(),
	}
	if err := render.WritePNG(f, scene, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
