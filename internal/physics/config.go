package physics

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned (wrapped) when a Config fails validation.
var ErrInvalidConfig = errors.New("physics: invalid config")

// Config holds the immutable parameters of the collision step.
// Build one with DefaultConfig, adjust fields, then pass it to NewCollision.
type Config struct {
	Width  float64 // Boundary width; the boundary spans [0, Width]
	Height float64 // Boundary height; the floor is at y = Height

	Restitution         float64 // 0 = perfectly inelastic, 1 = perfectly elastic
	FrictionCoefficient float64 // Floor friction coefficient
	Gravity             float64 // Gravity magnitude, the single source for friction
	FixedTimeStep       float64 // Seconds per physics step
	TimeScale           float64 // Simulation speed multiplier

	NodeCapacity int     // Bodies a quadtree node holds before subdividing
	MaxDepth     int     // Deepest quadtree level allowed to subdivide into
	MaxRadius    float64 // Upper bound on any body's radius, widens broad-phase queries
	FloorEpsilon float64 // Distance from the floor that still counts as resting
}

// Defaults mirror the reference ball-pit scene.
const (
	DefaultWidth               = 600.0
	DefaultHeight              = 600.0
	DefaultRestitution         = 0.8
	DefaultFrictionCoefficient = 1.0
	DefaultGravity             = 9.81
	DefaultTimeScale           = 6.0
	DefaultTargetFPS           = 60.0
	DefaultSubsteps            = 6
	DefaultFixedTimeStep       = 1.0 / (DefaultTargetFPS * DefaultSubsteps)
	DefaultNodeCapacity        = 4
	DefaultMaxDepth            = 8
	DefaultMaxRadius           = 6.0
	DefaultFloorEpsilon        = 0.5
)

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Width:               DefaultWidth,
		Height:              DefaultHeight,
		Restitution:         DefaultRestitution,
		FrictionCoefficient: DefaultFrictionCoefficient,
		Gravity:             DefaultGravity,
		FixedTimeStep:       DefaultFixedTimeStep,
		TimeScale:           DefaultTimeScale,
		NodeCapacity:        DefaultNodeCapacity,
		MaxDepth:            DefaultMaxDepth,
		MaxRadius:           DefaultMaxRadius,
		FloorEpsilon:        DefaultFloorEpsilon,
	}
}

// Bounds returns the boundary rectangle.
func (c Config) Bounds() AABB {
	return AABB{Max: Vec2{X: c.Width, Y: c.Height}}
}

// FrictionImpulse returns the horizontal speed removed per step from a body
// resting on the floor.
func (c Config) FrictionImpulse() float64 {
	return c.Gravity * c.FrictionCoefficient * c.FixedTimeStep * c.TimeScale
}

// Validate checks the configuration. Every violation wraps ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: boundary %vx%v must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.Restitution < 0 || c.Restitution > 1:
		return fmt.Errorf("%w: restitution %v outside [0, 1]", ErrInvalidConfig, c.Restitution)
	case c.FrictionCoefficient < 0:
		return fmt.Errorf("%w: negative friction coefficient %v", ErrInvalidConfig, c.FrictionCoefficient)
	case c.Gravity < 0:
		return fmt.Errorf("%w: negative gravity magnitude %v", ErrInvalidConfig, c.Gravity)
	case c.FixedTimeStep <= 0:
		return fmt.Errorf("%w: fixed timestep %v must be positive", ErrInvalidConfig, c.FixedTimeStep)
	case c.TimeScale <= 0:
		return fmt.Errorf("%w: time scale %v must be positive", ErrInvalidConfig, c.TimeScale)
	case c.NodeCapacity <= 0:
		return fmt.Errorf("%w: node capacity %d must be positive", ErrInvalidConfig, c.NodeCapacity)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: negative max depth %d", ErrInvalidConfig, c.MaxDepth)
	case c.MaxRadius <= 0:
		return fmt.Errorf("%w: max radius %v must be positive", ErrInvalidConfig, c.MaxRadius)
	case c.FloorEpsilon < 0:
		return fmt.Errorf("%w: negative floor epsilon %v", ErrInvalidConfig, c.FloorEpsilon)
	}
	return nil
}
