package draw

import "math"

// Circle outline resolution limits.
const (
	minCircleSegments = 6
	maxCircleSegments = 32
)

// CircleSegments returns how many polygon vertices approximate a circle whose
// radius spans pixelRadius terminal pixels.
func CircleSegments(pixelRadius float64) int {
	n := int(math.Ceil(2 * math.Pi * pixelRadius))
	if n < minCircleSegments {
		return minCircleSegments
	}
	if n > maxCircleSegments {
		return maxCircleSegments
	}
	return n
}

// CirclePoints fills dst with n vertices on the circle of the given centre and
// radius, starting at angle zero and turning clockwise in screen space.
func CirclePoints(dst []Point, center Point, radius float64) []Point {
	n := len(dst)
	for i := range dst {
		angle := 2 * math.Pi * float64(i) / float64(n)
		dst[i] = Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return dst
}

// RectPoints returns the four corners of the axis-aligned rectangle spanning
// min to max, in drawing order.
func RectPoints(min, max Point) [4]Point {
	return [4]Point{
		{X: min.X, Y: min.Y},
		{X: max.X, Y: min.Y},
		{X: max.X, Y: max.Y},
		{X: min.X, Y: max.Y},
	}
}
