package physics

// Body is a movable rigid circle.
// Bodies are stored by value in a slice owned by the caller; the collision
// step refers to them by slice index and mutates Position and Velocity in place.
type Body struct {
	Position Vec2
	Velocity Vec2
	Mass     float64
	Radius   float64
}

// NewBody returns a body at rest at the given position.
func NewBody(position Vec2, mass, radius float64) Body {
	return Body{
		Position: position,
		Mass:     mass,
		Radius:   radius,
	}
}

// Present reports whether the body takes part in the simulation.
// Bodies with non-positive radius or mass are treated as empty slots.
func (b *Body) Present() bool {
	return b.Radius > 0 && b.Mass > 0
}

// Bounds returns the bounding box of the circle.
func (b *Body) Bounds() AABB {
	return BoxAround(b.Position, b.Radius)
}
