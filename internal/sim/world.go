// Package sim drives the collision step: it owns the body store, spawns the
// balls, integrates gravity and drag, and runs fixed-timestep substeps.
package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/tomz197/ballpit/internal/physics"
)

// ErrInvalidSettings is returned (wrapped) when Settings fail validation.
var ErrInvalidSettings = errors.New("sim: invalid settings")

// Settings describes the population and integration of a ball pit.
type Settings struct {
	Bodies       int     // Number of balls to spawn
	Radius       float64 // Ball radius
	Mass         float64 // Ball mass
	SpawnMargin  float64 // Minimum gap between a spawned ball and the walls
	MaxAttempts  int     // Placement tries per ball before giving up
	InitialSpeed float64 // Upper bound of the random spawn speed
	Drag         float64 // Linear drag coefficient
	Substeps     int     // Physics steps per rendered frame
	Seed         int64   // RNG seed; 0 picks a fixed default
}

// Defaults mirror the reference ball-pit scene.
const (
	DefaultBodies       = 1000
	DefaultRadius       = 6.0
	DefaultMass         = 1.0
	DefaultSpawnMargin  = DefaultRadius
	DefaultMaxAttempts  = 5000
	DefaultInitialSpeed = 20.0
	DefaultDrag         = 0.01
	DefaultSeed         = 1
)

// DefaultSettings returns the reference settings.
func DefaultSettings() Settings {
	return Settings{
		Bodies:       DefaultBodies,
		Radius:       DefaultRadius,
		Mass:         DefaultMass,
		SpawnMargin:  DefaultSpawnMargin,
		MaxAttempts:  DefaultMaxAttempts,
		InitialSpeed: DefaultInitialSpeed,
		Drag:         DefaultDrag,
		Substeps:     physics.DefaultSubsteps,
		Seed:         DefaultSeed,
	}
}

// Validate checks the settings against the physics config they will run with.
func (s Settings) Validate(cfg physics.Config) error {
	switch {
	case s.Bodies < 0:
		return fmt.Errorf("%w: negative body count %d", ErrInvalidSettings, s.Bodies)
	case s.Radius <= 0:
		return fmt.Errorf("%w: radius %v must be positive", ErrInvalidSettings, s.Radius)
	case s.Radius > cfg.MaxRadius:
		return fmt.Errorf("%w: radius %v exceeds physics max radius %v", ErrInvalidSettings, s.Radius, cfg.MaxRadius)
	case s.Mass <= 0:
		return fmt.Errorf("%w: mass %v must be positive", ErrInvalidSettings, s.Mass)
	case s.SpawnMargin < 0:
		return fmt.Errorf("%w: negative spawn margin %v", ErrInvalidSettings, s.SpawnMargin)
	case s.MaxAttempts <= 0:
		return fmt.Errorf("%w: max attempts %d must be positive", ErrInvalidSettings, s.MaxAttempts)
	case s.InitialSpeed < 0:
		return fmt.Errorf("%w: negative initial speed %v", ErrInvalidSettings, s.InitialSpeed)
	case s.Drag < 0:
		return fmt.Errorf("%w: negative drag %v", ErrInvalidSettings, s.Drag)
	case s.Substeps <= 0:
		return fmt.Errorf("%w: substeps %d must be positive", ErrInvalidSettings, s.Substeps)
	}
	return nil
}

// World is a ball pit: the body store plus the collision step that acts on it.
// It is not safe for concurrent use.
type World struct {
	cfg       physics.Config
	settings  Settings
	rng       *rand.Rand
	bodies    []physics.Body
	collision *physics.Collision
	tick      uint64
}

// NewWorld validates cfg and settings, spawns the balls and returns the world.
func NewWorld(cfg physics.Config, settings Settings, opts ...physics.Option) (*World, error) {
	if err := settings.Validate(cfg); err != nil {
		return nil, err
	}
	collision, err := physics.NewCollision(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating collision step: %w", err)
	}

	seed := settings.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	w := &World{
		cfg:       cfg,
		settings:  settings,
		rng:       rand.New(rand.NewSource(seed)),
		collision: collision,
	}
	w.Reset()
	return w, nil
}

// NewWorldWithBodies returns a world over an explicit body list, for
// scripted scenes. The slice is owned by the world afterwards.
func NewWorldWithBodies(cfg physics.Config, settings Settings, bodies []physics.Body, opts ...physics.Option) (*World, error) {
	settings.Bodies = len(bodies)
	if err := settings.Validate(cfg); err != nil {
		return nil, err
	}
	collision, err := physics.NewCollision(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating collision step: %w", err)
	}
	return &World{
		cfg:       cfg,
		settings:  settings,
		rng:       rand.New(rand.NewSource(DefaultSeed)),
		bodies:    bodies,
		collision: collision,
	}, nil
}

// Reset respawns every ball and restarts the tick counter.
func (w *World) Reset() {
	w.bodies = SpawnBodies(w.rng, w.cfg, w.settings)
	w.tick = 0
}

// Step advances the world by one fixed timestep: gravity and drag, position
// integration, then the collision step.
func (w *World) Step() {
	w.integrate()
	w.collision.Update(w.bodies)
	w.tick++
}

// Frame runs one rendered frame worth of substeps.
func (w *World) Frame() {
	for i := 0; i < w.settings.Substeps; i++ {
		w.Step()
	}
}

// integrate applies gravity and drag then moves every body (semi-implicit Euler).
func (w *World) integrate() {
	dt := w.cfg.FixedTimeStep * w.cfg.TimeScale
	damping := 1 - w.settings.Drag*dt
	if damping < 0 {
		damping = 0
	}
	gravity := physics.V2(0, w.cfg.Gravity*dt)

	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.Present() {
			continue
		}
		b.Velocity = b.Velocity.Add(gravity).Mul(damping)
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	}
}

// Shake adds a random velocity of up to strength to every ball.
func (w *World) Shake(strength float64) {
	for i := range w.bodies {
		w.bodies[i].Velocity = w.bodies[i].Velocity.Add(randomVelocity(w.rng, strength))
	}
}

// Bodies returns a copy of the body store.
func (w *World) Bodies() []physics.Body {
	out := make([]physics.Body, len(w.bodies))
	copy(out, w.bodies)
	return out
}

// AppendBodies appends a copy of the body store to dst.
func (w *World) AppendBodies(dst []physics.Body) []physics.Body {
	return append(dst, w.bodies...)
}

// Len returns the number of bodies.
func (w *World) Len() int {
	return len(w.bodies)
}

// Quadtree returns a copy of the spatial index from the last step.
func (w *World) Quadtree() physics.QuadtreeSnapshot {
	return w.collision.Quadtree()
}

// Stats returns the collision counters of the last step.
func (w *World) Stats() physics.TickStats {
	return w.collision.Stats()
}

// Tick returns the number of steps since the last reset.
func (w *World) Tick() uint64 {
	return w.tick
}

// Config returns the physics configuration.
func (w *World) Config() physics.Config {
	return w.cfg
}

// Settings returns the world settings.
func (w *World) Settings() Settings {
	return w.settings
}

// KineticEnergy returns the total kinetic energy of all bodies.
func (w *World) KineticEnergy() float64 {
	var e float64
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.Present() {
			e += 0.5 * b.Mass * b.Velocity.LengthSq()
		}
	}
	return e
}
