// Package config centralizes all tunable ball-pit parameters.
package config

import (
	"time"

	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/physics"
	"github.com/tomz197/ballpit/internal/sim"
)

// Max render resolution in terminal cells. Larger terminals get a centered,
// bordered render area.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 80
)

// Viewer input
const (
	ShakeStrength = 60.0 // Max random speed added per ball on shake
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate: one rendered frame (several physics substeps) per tick.
const (
	ServerTickRate = int(physics.DefaultTargetFPS)
	ServerTickTime = time.Second / time.Duration(ServerTickRate)
)

// Physics returns the physics configuration, with BALLPIT_* environment
// overrides applied on top of physics.DefaultConfig.
func Physics() physics.Config {
	cfg := physics.DefaultConfig()
	cfg.Width = config.GetEnvFloat("BALLPIT_WIDTH", cfg.Width)
	cfg.Height = config.GetEnvFloat("BALLPIT_HEIGHT", cfg.Height)
	cfg.Restitution = config.GetEnvFloat("BALLPIT_RESTITUTION", cfg.Restitution)
	cfg.FrictionCoefficient = config.GetEnvFloat("BALLPIT_FRICTION", cfg.FrictionCoefficient)
	cfg.Gravity = config.GetEnvFloat("BALLPIT_GRAVITY", cfg.Gravity)
	cfg.TimeScale = config.GetEnvFloat("BALLPIT_TIME_SCALE", cfg.TimeScale)
	cfg.NodeCapacity = config.GetEnvInt("BALLPIT_NODE_CAPACITY", cfg.NodeCapacity)
	cfg.MaxDepth = config.GetEnvInt("BALLPIT_MAX_DEPTH", cfg.MaxDepth)
	cfg.MaxRadius = config.GetEnvFloat("BALLPIT_RADIUS", cfg.MaxRadius)

	substeps := config.GetEnvInt("BALLPIT_SUBSTEPS", physics.DefaultSubsteps)
	if substeps > 0 {
		cfg.FixedTimeStep = 1.0 / (physics.DefaultTargetFPS * float64(substeps))
	}
	return cfg
}

// Sim returns the world settings, with BALLPIT_* environment overrides
// applied on top of sim.DefaultSettings.
func Sim() sim.Settings {
	s := sim.DefaultSettings()
	s.Bodies = config.GetEnvInt("BALLPIT_BALLS", s.Bodies)
	s.Radius = config.GetEnvFloat("BALLPIT_RADIUS", s.Radius)
	s.SpawnMargin = s.Radius
	s.Mass = config.GetEnvFloat("BALLPIT_MASS", s.Mass)
	s.MaxAttempts = config.GetEnvInt("BALLPIT_MAX_ATTEMPTS", s.MaxAttempts)
	s.InitialSpeed = config.GetEnvFloat("BALLPIT_INITIAL_SPEED", s.InitialSpeed)
	s.Drag = config.GetEnvFloat("BALLPIT_DRAG", s.Drag)
	s.Substeps = config.GetEnvInt("BALLPIT_SUBSTEPS", s.Substeps)
	s.Seed = int64(config.GetEnvInt("BALLPIT_SEED", int(s.Seed)))
	return s
}
