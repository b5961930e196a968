package sim

import (
	"math"
	"math/rand"

	"github.com/tomz197/ballpit/internal/physics"
)

// SpawnBodies places up to s.Bodies non-overlapping balls inside the boundary,
// keeping s.SpawnMargin away from every wall. Each ball gets s.MaxAttempts
// random tries; balls that cannot be placed are dropped, so the result may be
// shorter than requested when the pit is crowded.
func SpawnBodies(rng *rand.Rand, cfg physics.Config, s Settings) []physics.Body {
	minX := s.SpawnMargin + s.Radius
	minY := s.SpawnMargin + s.Radius
	spanX := cfg.Width - 2*minX
	spanY := cfg.Height - 2*minY
	if spanX < 0 || spanY < 0 {
		return nil
	}

	placed := physics.NewQuadtree(cfg.Bounds(), cfg.NodeCapacity, cfg.MaxDepth)
	bodies := make([]physics.Body, 0, s.Bodies)
	var nearby []int

	for len(bodies) < s.Bodies {
		ok := false
		for attempt := 0; attempt < s.MaxAttempts; attempt++ {
			p := physics.V2(minX+rng.Float64()*spanX, minY+rng.Float64()*spanY)

			nearby = placed.Query(physics.BoxAround(p, 2*s.Radius), nearby[:0])
			free := true
			for _, j := range nearby {
				if physics.CirclesOverlap(p, s.Radius, bodies[j].Position, bodies[j].Radius) {
					free = false
					break
				}
			}
			if !free {
				continue
			}

			b := physics.NewBody(p, s.Mass, s.Radius)
			b.Velocity = randomVelocity(rng, s.InitialSpeed)
			placed.Insert(len(bodies), b.Bounds())
			bodies = append(bodies, b)
			ok = true
			break
		}
		if !ok {
			physics.Logger().Warn("spawn gave up, pit is full",
				"placed", len(bodies), "requested", s.Bodies, "attempts", s.MaxAttempts)
			break
		}
	}
	return bodies
}

// randomVelocity returns a velocity in a random direction with a magnitude
// up to maxSpeed.
func randomVelocity(rng *rand.Rand, maxSpeed float64) physics.Vec2 {
	if maxSpeed <= 0 {
		return physics.Vec2{}
	}
	angle := rng.Float64() * 2 * math.Pi
	speed := rng.Float64() * maxSpeed
	return physics.V2(math.Cos(angle)*speed, math.Sin(angle)*speed)
}
