package physics

import (
	"log/slog"
	"math"
)

// Positional correction split between the two bodies of a pair. The shares
// sum to one, so a resolved pair ends exactly tangent.
const (
	correctionShareA = 0.501
	correctionShareB = 0.499
)

// fallbackNormal separates bodies whose centres coincide.
var fallbackNormal = Vec2{X: 1, Y: 0}

// TickStats counts what the last Update did.
type TickStats struct {
	Bodies     int // Bodies inserted into the spatial index
	Outside    int // Bodies skipped because their centre was outside the boundary
	Candidates int // Broad-phase candidates examined (self excluded)
	Pairs      int // Overlapping pairs resolved
	BorderHits int // Bodies that touched or crossed the boundary
	Friction   int // Bodies slowed by floor friction
}

// Option configures a Collision.
type Option func(*Collision)

// WithPairObserver registers fn to be called after each resolved pair with
// the two body indices, lower index first.
func WithPairObserver(fn func(a, b int)) Option {
	return func(c *Collision) {
		c.onPair = fn
	}
}

// Collision runs the per-tick collision step over a body slice.
// It is not safe for concurrent use.
type Collision struct {
	cfg    Config
	tree   *Quadtree
	nearby []int // Reused query buffer
	stats  TickStats
	onPair func(a, b int)
}

// NewCollision validates cfg and returns a collision step for it.
func NewCollision(cfg Config, opts ...Option) (*Collision, error) {
	if err := cfg.Validate(); err != nil {
		Logger().Warn("rejected collision config", slog.Any("err", err))
		return nil, err
	}
	c := &Collision{
		cfg:    cfg,
		tree:   NewQuadtree(cfg.Bounds(), cfg.NodeCapacity, cfg.MaxDepth),
		nearby: make([]int, 0, 64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the configuration the step was built with.
func (c *Collision) Config() Config {
	return c.cfg
}

// Stats returns the counters of the last Update.
func (c *Collision) Stats() TickStats {
	return c.stats
}

// Quadtree returns a copy of the spatial index built by the last Update.
func (c *Collision) Quadtree() QuadtreeSnapshot {
	return c.tree.Snapshot()
}

// Update rebuilds the spatial index from bodies, resolves every overlapping
// pair once, then resolves boundary contact and floor friction per body.
// Bodies are processed in slice order and each resolution sees the results of
// the previous ones.
func (c *Collision) Update(bodies []Body) {
	c.stats = TickStats{}

	c.tree.Clear()
	for i := range bodies {
		b := &bodies[i]
		if !b.Present() {
			continue
		}
		if c.tree.Insert(i, b.Bounds()) {
			c.stats.Bodies++
		} else {
			c.stats.Outside++
			Logger().Debug("body outside boundary skipped by broad phase",
				slog.Int("index", i),
				slog.Float64("x", b.Position.X),
				slog.Float64("y", b.Position.Y))
		}
	}

	for i := range bodies {
		a := &bodies[i]
		if !a.Present() {
			continue
		}

		rng := BoxAround(a.Position, a.Radius+c.cfg.MaxRadius)
		c.nearby = c.tree.Query(rng, c.nearby[:0])

		for _, j := range c.nearby {
			if j <= i || j >= len(bodies) {
				continue // Skip self and pairs owned by the lower index
			}
			b := &bodies[j]
			if !b.Present() {
				continue
			}
			c.stats.Candidates++
			if CirclesOverlap(a.Position, a.Radius, b.Position, b.Radius) {
				c.resolvePair(a, b)
				c.stats.Pairs++
				if c.onPair != nil {
					c.onPair(i, j)
				}
			}
		}

		if c.TouchesBorder(a) {
			c.ResolveBorder(a)
			c.stats.BorderHits++
		}

		if c.ApplyFloorFriction(a) {
			c.stats.Friction++
		}
	}
}

// resolvePair separates two overlapping circles along the contact normal and
// exchanges momentum along it according to the restitution coefficient.
// Tangential velocity is left untouched.
func (c *Collision) resolvePair(a, b *Body) {
	delta := b.Position.Sub(a.Position)
	dist := delta.Length()

	normal := fallbackNormal
	if dist > 0 {
		normal = delta.Mul(1 / dist)
	}

	penetration := a.Radius + b.Radius - dist
	a.Position = a.Position.Sub(normal.Mul(penetration * correctionShareA))
	b.Position = b.Position.Add(normal.Mul(penetration * correctionShareB))

	m1, m2 := a.Mass, b.Mass
	total := m1 + m2
	if total <= 0 {
		return
	}
	e := c.cfg.Restitution

	v1n := a.Velocity.Dot(normal)
	v2n := b.Velocity.Dot(normal)

	v1nAfter := (v1n*(m1-e*m2) + v2n*(1+e)*m2) / total
	v2nAfter := (v2n*(m2-e*m1) + v1n*(1+e)*m1) / total

	a.Velocity = a.Velocity.Sub(normal.Mul(v1n)).Add(normal.Mul(v1nAfter))
	b.Velocity = b.Velocity.Sub(normal.Mul(v2n)).Add(normal.Mul(v2nAfter))
}

// TouchesBorder reports whether the body touches or crosses any boundary edge.
func (c *Collision) TouchesBorder(b *Body) bool {
	return b.Position.X+b.Radius >= c.cfg.Width ||
		b.Position.Y+b.Radius >= c.cfg.Height ||
		b.Position.X-b.Radius <= 0 ||
		b.Position.Y-b.Radius <= 0
}

// ResolveBorder pushes a body back inside the boundary and reflects the
// velocity component heading into each crossed edge, scaled by restitution.
// Edges are handled independently so a corner corrects both axes.
// A body already tangent to the boundary is left unchanged.
func (c *Collision) ResolveBorder(b *Body) {
	e := c.cfg.Restitution

	// right
	if b.Position.X+b.Radius > c.cfg.Width {
		b.Position.X = c.cfg.Width - b.Radius
		if b.Velocity.X > 0 {
			b.Velocity.X *= -e
		}
	}
	// bottom
	if b.Position.Y+b.Radius > c.cfg.Height {
		b.Position.Y = c.cfg.Height - b.Radius
		if b.Velocity.Y > 0 {
			b.Velocity.Y *= -e
		}
	}
	// left
	if b.Position.X-b.Radius < 0 {
		b.Position.X = b.Radius
		if b.Velocity.X < 0 {
			b.Velocity.X *= -e
		}
	}
	// top
	if b.Position.Y-b.Radius < 0 {
		b.Position.Y = b.Radius
		if b.Velocity.Y < 0 {
			b.Velocity.Y *= -e
		}
	}
}

// ApplyFloorFriction slows the horizontal motion of a body resting on the
// floor. The velocity stops at zero rather than reversing.
// Returns true if friction was applied.
func (c *Collision) ApplyFloorFriction(b *Body) bool {
	bottom := b.Position.Y + b.Radius
	if math.Abs(bottom-c.cfg.Height) >= c.cfg.FloorEpsilon {
		return false
	}
	if b.Velocity.X == 0 {
		return false
	}

	direction := -1.0
	if b.Velocity.X < 0 {
		direction = 1.0
	}
	b.Velocity.X += direction * c.cfg.FrictionImpulse()
	if b.Velocity.X*direction > 0 {
		b.Velocity.X = 0
	}
	return true
}
