// Package physics implements the circle collision step: a quadtree broad
// phase, circle-circle narrow phase with impulse response, boundary
// reflection and floor friction.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// CirclesOverlap checks if two circles overlap or touch.
func CirclesOverlap(p1 Vec2, r1 float64, p2 Vec2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(p1, p2) <= minDist*minDist
}
