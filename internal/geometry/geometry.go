// Package geometry provides 2D box and quadrilateral helpers used to
// associate recognized text with detected shelf regions.
package geometry

import "math"

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned rectangle described by two corners.
type Box struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Quad is a four-point polygon, typically the corners of a recognized
// text's bounding shape in reading order.
type Quad [4]Point

// Normalize returns the box with X1 <= X2 and Y1 <= Y2.
func (b Box) Normalize() Box {
	if b.X1 > b.X2 {
		b.X1, b.X2 = b.X2, b.X1
	}
	if b.Y1 > b.Y2 {
		b.Y1, b.Y2 = b.Y2, b.Y1
	}
	return b
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 {
	return math.Abs(b.X2 - b.X1)
}

// Height returns the vertical extent of the box.
func (b Box) Height() float64 {
	return math.Abs(b.Y2 - b.Y1)
}

// Area returns the area of the box.
func (b Box) Area() float64 {
	return b.Width() * b.Height()
}

// Center returns the centroid of the box.
func (b Box) Center() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2}
}

// Contains reports whether the point lies inside the box (inclusive).
func (b Box) Contains(p Point) bool {
	b = b.Normalize()
	return p.X >= b.X1 && p.X <= b.X2 && p.Y >= b.Y1 && p.Y <= b.Y2
}

// Intersect returns the intersection of two boxes. The zero Box is
// returned when they do not overlap.
func (b Box) Intersect(other Box) Box {
	b = b.Normalize()
	other = other.Normalize()

	x1 := math.Max(b.X1, other.X1)
	y1 := math.Max(b.Y1, other.Y1)
	x2 := math.Min(b.X2, other.X2)
	y2 := math.Min(b.Y2, other.Y2)
	if x1 >= x2 || y1 >= y2 {
		return Box{}
	}
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// IoU computes the intersection-over-union of two boxes.
func IoU(a, b Box) float64 {
	inter := a.Intersect(b).Area()
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// OverlapRatio returns the fraction of b's own area covered by the
// region box. Used to decide whether text is substantially contained
// in a detected region.
func (b Box) OverlapRatio(region Box) float64 {
	area := b.Area()
	if area <= 0 {
		// Degenerate boxes fall back to centroid containment.
		if region.Contains(b.Center()) {
			return 1
		}
		return 0
	}
	return b.Intersect(region).Area() / area
}

// Scale maps a box in normalized [0,1] coordinates onto an image of the
// given pixel dimensions.
func (b Box) Scale(width, height float64) Box {
	return Box{
		X1: b.X1 * width,
		Y1: b.Y1 * height,
		X2: b.X2 * width,
		Y2: b.Y2 * height,
	}
}

// Clamp restricts the box to [0,w] x [0,h].
func (b Box) Clamp(width, height float64) Box {
	b = b.Normalize()
	b.X1 = math.Min(math.Max(b.X1, 0), width)
	b.X2 = math.Min(math.Max(b.X2, 0), width)
	b.Y1 = math.Min(math.Max(b.Y1, 0), height)
	b.Y2 = math.Min(math.Max(b.Y2, 0), height)
	return b
}

// BoundingBox returns the smallest axis-aligned box covering the quad.
func (q Quad) BoundingBox() Box {
	minX, minY := q[0].X, q[0].Y
	maxX, maxY := q[0].X, q[0].Y
	for _, p := range q[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Box{X1: minX, Y1: minY, X2: maxX, Y2: maxY}
}

// Center returns the average of the quad's corners.
func (q Quad) Center() Point {
	var c Point
	for _, p := range q {
		c.X += p.X
		c.Y += p.Y
	}
	c.X /= 4
	c.Y /= 4
	return c
}

// Area returns the area of the quad's bounding box.
func (q Quad) Area() float64 {
	return q.BoundingBox().Area()
}
