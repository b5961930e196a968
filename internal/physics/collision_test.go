package physics

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func newTestCollision(t *testing.T, cfg Config, opts ...Option) *Collision {
	t.Helper()
	c, err := NewCollision(cfg, opts...)
	if err != nil {
		t.Fatalf("NewCollision() error = %v", err)
	}
	return c
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestUpdate_SeparatedBodiesKeepVelocity(t *testing.T) {
	c := newTestCollision(t, DefaultConfig())
	bodies := []Body{
		{Position: V2(100, 100), Velocity: V2(1, 2), Mass: 1, Radius: 6},
		{Position: V2(200, 100), Velocity: V2(-3, 0), Mass: 2, Radius: 6},
		{Position: V2(112.5, 100), Velocity: V2(0, -1), Mass: 1, Radius: 6},
	}
	want := append([]Body(nil), bodies...)

	c.Update(bodies)

	for i := range bodies {
		if bodies[i] != want[i] {
			t.Errorf("body %d = %+v, want unchanged %+v", i, bodies[i], want[i])
		}
	}
	if got := c.Stats().Pairs; got != 0 {
		t.Errorf("Stats().Pairs = %d, want 0", got)
	}
}

func TestUpdate_ElasticEqualMassExchange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Restitution = 1
	cfg.MaxRadius = 10

	tests := []struct {
		name   string
		a, b   Body
		wantVA Vec2
		wantVB Vec2
	}{
		{
			name:   "head on",
			a:      Body{Position: V2(100, 300), Velocity: V2(5, 1), Mass: 1, Radius: 10},
			b:      Body{Position: V2(115, 300), Velocity: V2(-3, 2), Mass: 1, Radius: 10},
			wantVA: V2(-3, 1),
			wantVB: V2(5, 2),
		},
		{
			name:   "diagonal",
			a:      Body{Position: V2(200, 200), Velocity: V2(4, 4), Mass: 3, Radius: 10},
			b:      Body{Position: V2(210, 210), Velocity: V2(0, 0), Mass: 3, Radius: 10},
			wantVA: V2(0, 0),
			wantVB: V2(4, 4),
		},
		{
			name:   "coincident centres",
			a:      Body{Position: V2(300, 300), Velocity: V2(2, 0), Mass: 1, Radius: 10},
			b:      Body{Position: V2(300, 300), Velocity: V2(-2, 0), Mass: 1, Radius: 10},
			wantVA: V2(-2, 0),
			wantVB: V2(2, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCollision(t, cfg)
			bodies := []Body{tt.a, tt.b}

			c.Update(bodies)

			if !bodies[0].Velocity.Approx(tt.wantVA, 1e-9) {
				t.Errorf("velocity A = %v, want %v", bodies[0].Velocity, tt.wantVA)
			}
			if !bodies[1].Velocity.Approx(tt.wantVB, 1e-9) {
				t.Errorf("velocity B = %v, want %v", bodies[1].Velocity, tt.wantVB)
			}
			dist := Distance(bodies[0].Position, bodies[1].Position)
			if !approx(dist, 20, 1e-9) {
				t.Errorf("distance after resolution = %v, want 20", dist)
			}
			if got := c.Stats().Pairs; got != 1 {
				t.Errorf("Stats().Pairs = %d, want 1", got)
			}
		})
	}
}

func TestUpdate_CoincidentCentresUseFallbackNormal(t *testing.T) {
	c := newTestCollision(t, DefaultConfig())
	bodies := []Body{
		{Position: V2(300, 300), Mass: 1, Radius: 6},
		{Position: V2(300, 300), Mass: 1, Radius: 6},
	}

	c.Update(bodies)

	for i, b := range bodies {
		if math.IsNaN(b.Position.X) || math.IsNaN(b.Position.Y) || math.IsNaN(b.Velocity.X) || math.IsNaN(b.Velocity.Y) {
			t.Fatalf("body %d has NaN state: %+v", i, b)
		}
	}
	if !approx(bodies[0].Position.X, 300-12*correctionShareA, eps) {
		t.Errorf("A.x = %v, want %v", bodies[0].Position.X, 300-12*correctionShareA)
	}
	if !approx(bodies[1].Position.X, 300+12*correctionShareB, eps) {
		t.Errorf("B.x = %v, want %v", bodies[1].Position.X, 300+12*correctionShareB)
	}
	if bodies[0].Position.Y != 300 || bodies[1].Position.Y != 300 {
		t.Errorf("y changed: %v, %v", bodies[0].Position.Y, bodies[1].Position.Y)
	}
}

func TestUpdate_InelasticKeepsTangent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Restitution = 0
	c := newTestCollision(t, cfg)
	bodies := []Body{
		{Position: V2(100, 100), Velocity: V2(4, 3), Mass: 1, Radius: 6},
		{Position: V2(110, 100), Velocity: V2(0, -2), Mass: 1, Radius: 6},
	}

	c.Update(bodies)

	// Perfectly inelastic: both share the mean normal velocity.
	if !approx(bodies[0].Velocity.X, 2, eps) || !approx(bodies[1].Velocity.X, 2, eps) {
		t.Errorf("normal velocities = %v, %v, want 2, 2", bodies[0].Velocity.X, bodies[1].Velocity.X)
	}
	if bodies[0].Velocity.Y != 3 || bodies[1].Velocity.Y != -2 {
		t.Errorf("tangential velocities = %v, %v, want 3, -2", bodies[0].Velocity.Y, bodies[1].Velocity.Y)
	}
}

func TestUpdate_UnequalMassMomentum(t *testing.T) {
	cfg := DefaultConfig()
	c := newTestCollision(t, cfg)
	bodies := []Body{
		{Position: V2(100, 100), Velocity: V2(6, 0), Mass: 3, Radius: 6},
		{Position: V2(111, 100), Velocity: V2(-2, 0), Mass: 1, Radius: 6},
	}
	before := bodies[0].Velocity.Mul(bodies[0].Mass).Add(bodies[1].Velocity.Mul(bodies[1].Mass))

	c.Update(bodies)

	after := bodies[0].Velocity.Mul(bodies[0].Mass).Add(bodies[1].Velocity.Mul(bodies[1].Mass))
	if !before.Approx(after, 1e-9) {
		t.Errorf("momentum = %v, want %v", after, before)
	}
	// Separation speed equals restitution times approach speed.
	approach := 6.0 - (-2.0)
	separation := bodies[1].Velocity.X - bodies[0].Velocity.X
	if !approx(separation, cfg.Restitution*approach, 1e-9) {
		t.Errorf("separation speed = %v, want %v", separation, cfg.Restitution*approach)
	}
}

func TestUpdate_RightBoundary(t *testing.T) {
	cfg := DefaultConfig()
	c := newTestCollision(t, cfg)
	bodies := []Body{
		{Position: V2(598, 300), Velocity: V2(10, 3), Mass: 1, Radius: 6},
	}

	c.Update(bodies)

	b := bodies[0]
	if b.Position.X != cfg.Width-b.Radius {
		t.Errorf("x = %v, want %v", b.Position.X, cfg.Width-b.Radius)
	}
	if !approx(b.Velocity.X, -10*cfg.Restitution, eps) {
		t.Errorf("vx = %v, want %v", b.Velocity.X, -10*cfg.Restitution)
	}
	if b.Velocity.Y != 3 {
		t.Errorf("vy = %v, want 3", b.Velocity.Y)
	}
	if got := c.Stats().BorderHits; got != 1 {
		t.Errorf("Stats().BorderHits = %d, want 1", got)
	}
}

func TestResolveBorder_Edges(t *testing.T) {
	cfg := DefaultConfig()
	c := newTestCollision(t, cfg)

	tests := []struct {
		name    string
		in      Body
		wantPos Vec2
		wantVel Vec2
	}{
		{"right", Body{Position: V2(605, 300), Velocity: V2(5, 0), Mass: 1, Radius: 6}, V2(594, 300), V2(-4, 0)},
		{"bottom", Body{Position: V2(300, 599), Velocity: V2(1, 10), Mass: 1, Radius: 6}, V2(300, 594), V2(1, -8)},
		{"left", Body{Position: V2(2, 300), Velocity: V2(-5, 1), Mass: 1, Radius: 6}, V2(6, 300), V2(4, 1)},
		{"top", Body{Position: V2(300, -3), Velocity: V2(0, -10), Mass: 1, Radius: 6}, V2(300, 6), V2(0, 8)},
		{"corner", Body{Position: V2(603, 601), Velocity: V2(5, 10), Mass: 1, Radius: 6}, V2(594, 594), V2(-4, -8)},
		{"moving away", Body{Position: V2(597, 300), Velocity: V2(-5, 0), Mass: 1, Radius: 6}, V2(594, 300), V2(-5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.in
			c.ResolveBorder(&b)
			if !b.Position.Approx(tt.wantPos, eps) {
				t.Errorf("position = %v, want %v", b.Position, tt.wantPos)
			}
			if !b.Velocity.Approx(tt.wantVel, eps) {
				t.Errorf("velocity = %v, want %v", b.Velocity, tt.wantVel)
			}
		})
	}
}

func TestResolveBorder_Idempotent(t *testing.T) {
	c := newTestCollision(t, DefaultConfig())
	bodies := []Body{
		{Position: V2(610, 300), Velocity: V2(7, 2), Mass: 1, Radius: 6},
		{Position: V2(-4, -4), Velocity: V2(-1, -1), Mass: 1, Radius: 6},
		{Position: V2(300, 600), Velocity: V2(3, 9), Mass: 1, Radius: 6},
		{Position: V2(594, 594), Velocity: V2(2, 2), Mass: 1, Radius: 6},
	}

	for i := range bodies {
		b := bodies[i]
		c.ResolveBorder(&b)
		once := b
		c.ResolveBorder(&b)
		if b != once {
			t.Errorf("body %d: second ResolveBorder changed %+v to %+v", i, once, b)
		}
	}
}

func TestUpdate_TopLeftCorner(t *testing.T) {
	cfg := DefaultConfig()
	c := newTestCollision(t, cfg)
	bodies := []Body{
		{Position: V2(0, 0), Velocity: V2(0, 0), Mass: 1, Radius: 6},
	}

	c.Update(bodies)

	b := bodies[0]
	if b.Position.X < b.Radius || b.Position.Y < b.Radius {
		t.Errorf("position = %v, want both axes >= radius %v", b.Position, b.Radius)
	}
	if b.Position != V2(6, 6) {
		t.Errorf("position = %v, want (6, 6)", b.Position)
	}
	if b.Velocity != (Vec2{}) {
		t.Errorf("velocity = %v, want zero", b.Velocity)
	}
}

func TestApplyFloorFriction(t *testing.T) {
	cfg := DefaultConfig()
	impulse := cfg.FrictionImpulse()

	tests := []struct {
		name    string
		pos     Vec2
		vx      float64
		wantVX  float64
		applied bool
	}{
		{"slows rightward", V2(300, 594), 5, 5 - impulse, true},
		{"slows leftward", V2(300, 594), -5, -5 + impulse, true},
		{"clamps at zero", V2(300, 594), impulse / 2, 0, true},
		{"clamps negative at zero", V2(300, 594), -impulse / 2, 0, true},
		{"within epsilon", V2(300, 593.7), 5, 5 - impulse, true},
		{"airborne", V2(300, 500), 5, 5, false},
		{"at rest", V2(300, 594), 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCollision(t, cfg)
			b := Body{Position: tt.pos, Velocity: V2(tt.vx, 0), Mass: 1, Radius: 6}
			applied := c.ApplyFloorFriction(&b)
			if applied != tt.applied {
				t.Errorf("applied = %v, want %v", applied, tt.applied)
			}
			if !approx(b.Velocity.X, tt.wantVX, eps) {
				t.Errorf("vx = %v, want %v", b.Velocity.X, tt.wantVX)
			}
		})
	}
}

func TestUpdate_FloorFrictionNeverReverses(t *testing.T) {
	cfg := DefaultConfig()
	c := newTestCollision(t, cfg)
	bodies := []Body{
		{Position: V2(300, 594), Velocity: V2(5, 0), Mass: 1, Radius: 6},
	}

	for tick := 0; tick < 100; tick++ {
		prev := bodies[0].Velocity.X
		c.Update(bodies)
		vx := bodies[0].Velocity.X
		if vx < 0 {
			t.Fatalf("tick %d: vx = %v crossed zero", tick, vx)
		}
		if vx > prev {
			t.Fatalf("tick %d: vx grew from %v to %v", tick, prev, vx)
		}
	}
	if bodies[0].Velocity.X != 0 {
		t.Errorf("vx after 100 ticks = %v, want 0", bodies[0].Velocity.X)
	}
}

func TestUpdate_FrictionUsesConfiguredGravity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gravity = 20
	c := newTestCollision(t, cfg)
	bodies := []Body{
		{Position: V2(300, 594), Velocity: V2(5, 0), Mass: 1, Radius: 6},
	}

	c.Update(bodies)

	want := 5 - 20*cfg.FrictionCoefficient*cfg.FixedTimeStep*cfg.TimeScale
	if !approx(bodies[0].Velocity.X, want, eps) {
		t.Errorf("vx = %v, want %v", bodies[0].Velocity.X, want)
	}
}

func permutations(n int) [][]int {
	if n == 1 {
		return [][]int{{0}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for pos := 0; pos <= len(p); pos++ {
			q := make([]int, 0, n)
			q = append(q, p[:pos]...)
			q = append(q, n-1)
			q = append(q, p[pos:]...)
			out = append(out, q)
		}
	}
	return out
}

func TestUpdate_EachPairResolvedOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRadius = 10
	base := []Body{
		{Position: V2(300, 300), Velocity: V2(1, 0), Mass: 1, Radius: 10},
		{Position: V2(300.1, 300.05), Velocity: V2(0, 1), Mass: 2, Radius: 10},
		{Position: V2(299.95, 300.1), Velocity: V2(-1, 0), Mass: 3, Radius: 10},
	}

	for _, perm := range permutations(len(base)) {
		bodies := make([]Body, len(base))
		for slot, id := range perm {
			bodies[slot] = base[id]
		}

		counts := make(map[[2]int]int)
		c := newTestCollision(t, cfg, WithPairObserver(func(a, b int) {
			if a >= b {
				t.Errorf("perm %v: observer got unordered pair (%d, %d)", perm, a, b)
			}
			ia, ib := perm[a], perm[b]
			if ia > ib {
				ia, ib = ib, ia
			}
			counts[[2]int{ia, ib}]++
		}))

		c.Update(bodies)

		for _, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
			if counts[pair] != 1 {
				t.Errorf("perm %v: pair %v resolved %d times, want 1", perm, pair, counts[pair])
			}
		}
		if got := c.Stats().Pairs; got != 3 {
			t.Errorf("perm %v: Stats().Pairs = %d, want 3", perm, got)
		}
	}
}

func TestUpdate_SkipsAbsentBodies(t *testing.T) {
	c := newTestCollision(t, DefaultConfig())
	bodies := []Body{
		{Position: V2(300, 300), Velocity: V2(1, 1), Mass: 1, Radius: 6},
		{Position: V2(300, 300), Velocity: V2(9, 9), Mass: 1, Radius: 0},
		{Position: V2(302, 300), Velocity: V2(2, 2), Mass: 0, Radius: 6},
	}
	want := append([]Body(nil), bodies...)

	c.Update(bodies)

	for i := range bodies {
		if bodies[i] != want[i] {
			t.Errorf("body %d = %+v, want unchanged %+v", i, bodies[i], want[i])
		}
	}
	if got := c.Stats().Bodies; got != 1 {
		t.Errorf("Stats().Bodies = %d, want 1", got)
	}
}

func TestUpdate_OutsideBodyStillBounces(t *testing.T) {
	c := newTestCollision(t, DefaultConfig())
	bodies := []Body{
		{Position: V2(-50, 300), Velocity: V2(-4, 0), Mass: 1, Radius: 6},
	}

	c.Update(bodies)

	stats := c.Stats()
	if stats.Outside != 1 || stats.Bodies != 0 {
		t.Errorf("Stats() = %+v, want Outside 1, Bodies 0", stats)
	}
	if bodies[0].Position.X != 6 {
		t.Errorf("x = %v, want 6", bodies[0].Position.X)
	}
}

func TestUpdate_RebuildsIndexEachTick(t *testing.T) {
	c := newTestCollision(t, DefaultConfig())
	bodies := make([]Body, 0, 40)
	for i := 0; i < 40; i++ {
		bodies = append(bodies, Body{Position: V2(20+float64(i%8)*70, 20+float64(i/8)*70), Mass: 1, Radius: 6})
	}

	c.Update(bodies)
	first := c.Quadtree()
	c.Update(bodies[:5])
	second := c.Quadtree()

	if first.Bodies != 40 {
		t.Errorf("first snapshot bodies = %d, want 40", first.Bodies)
	}
	if second.Bodies != 5 {
		t.Errorf("second snapshot bodies = %d, want 5", second.Bodies)
	}
	if len(first.Nodes) <= len(second.Nodes) {
		t.Errorf("first snapshot has %d nodes, second %d; want first larger", len(first.Nodes), len(second.Nodes))
	}
}

func TestNewCollision_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -1 }},
		{"restitution above one", func(c *Config) { c.Restitution = 1.5 }},
		{"negative restitution", func(c *Config) { c.Restitution = -0.1 }},
		{"negative friction", func(c *Config) { c.FrictionCoefficient = -1 }},
		{"negative gravity", func(c *Config) { c.Gravity = -9.81 }},
		{"zero timestep", func(c *Config) { c.FixedTimeStep = 0 }},
		{"zero time scale", func(c *Config) { c.TimeScale = 0 }},
		{"zero capacity", func(c *Config) { c.NodeCapacity = 0 }},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }},
		{"zero max radius", func(c *Config) { c.MaxRadius = 0 }},
		{"negative floor epsilon", func(c *Config) { c.FloorEpsilon = -0.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			c, err := NewCollision(cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewCollision() error = %v, want ErrInvalidConfig", err)
			}
			if c != nil {
				t.Error("NewCollision() returned a collision for an invalid config")
			}
		})
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if got := cfg.Bounds(); got.Max != V2(600, 600) || got.Min != (Vec2{}) {
		t.Errorf("Bounds() = %+v", got)
	}
}

func TestSetLogger_NilRestoresSilentDefault(t *testing.T) {
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() = nil")
	}
	if Logger().Enabled(t.Context(), 0) {
		t.Error("default logger should be disabled")
	}
}
