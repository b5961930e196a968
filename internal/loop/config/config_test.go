package config

import (
	"testing"

	"github.com/tomz197/ballpit/internal/physics"
)

func TestPhysics_Defaults(t *testing.T) {
	cfg := Physics()
	if cfg != physics.DefaultConfig() {
		t.Errorf("Physics() = %+v, want defaults %+v", cfg, physics.DefaultConfig())
	}
	if err := Sim().Validate(cfg); err != nil {
		t.Errorf("default settings invalid: %v", err)
	}
}

func TestPhysics_EnvOverrides(t *testing.T) {
	t.Setenv("BALLPIT_WIDTH", "800")
	t.Setenv("BALLPIT_RESTITUTION", "0.5")
	t.Setenv("BALLPIT_NODE_CAPACITY", "8")
	t.Setenv("BALLPIT_SUBSTEPS", "4")
	t.Setenv("BALLPIT_RADIUS", "4")
	t.Setenv("BALLPIT_BALLS", "10")

	cfg := Physics()
	if cfg.Width != 800 || cfg.Restitution != 0.5 || cfg.NodeCapacity != 8 {
		t.Errorf("Physics() = %+v, overrides not applied", cfg)
	}
	if want := 1.0 / (physics.DefaultTargetFPS * 4); cfg.FixedTimeStep != want {
		t.Errorf("FixedTimeStep = %v, want %v", cfg.FixedTimeStep, want)
	}
	if cfg.MaxRadius != 4 {
		t.Errorf("MaxRadius = %v, want 4", cfg.MaxRadius)
	}

	s := Sim()
	if s.Bodies != 10 || s.Substeps != 4 || s.Radius != 4 || s.SpawnMargin != 4 {
		t.Errorf("Sim() = %+v, overrides not applied", s)
	}
	if err := s.Validate(cfg); err != nil {
		t.Errorf("overridden settings invalid: %v", err)
	}
}
