package physics

// AABB is an axis-aligned bounding box given by its min and max corners.
type AABB struct {
	Min, Max Vec2
}

// BoxAround returns the square box of half-size reach centred on p.
func BoxAround(p Vec2, reach float64) AABB {
	return AABB{
		Min: Vec2{X: p.X - reach, Y: p.Y - reach},
		Max: Vec2{X: p.X + reach, Y: p.Y + reach},
	}
}

// Width returns the horizontal extent of the box.
func (b AABB) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent of the box.
func (b AABB) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Center returns the centre point of the box.
func (b AABB) Center() Vec2 {
	return Vec2{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// ContainsPoint reports whether p lies inside the box (edges included).
func (b AABB) ContainsPoint(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Contains reports whether other lies entirely inside b.
func (b AABB) Contains(other AABB) bool {
	return other.Min.X >= b.Min.X && other.Max.X <= b.Max.X &&
		other.Min.Y >= b.Min.Y && other.Max.Y <= b.Max.Y
}

// Intersects reports whether the two boxes overlap. Touching edges count.
func (b AABB) Intersects(other AABB) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y
}

// quadrants splits b into its four equal quadrants: NW, NE, SW, SE.
func (b AABB) quadrants() [4]AABB {
	mid := b.Center()
	return [4]AABB{
		{Min: b.Min, Max: mid},
		{Min: Vec2{X: mid.X, Y: b.Min.Y}, Max: Vec2{X: b.Max.X, Y: mid.Y}},
		{Min: Vec2{X: b.Min.X, Y: mid.Y}, Max: Vec2{X: mid.X, Y: b.Max.Y}},
		{Min: mid, Max: b.Max},
	}
}
