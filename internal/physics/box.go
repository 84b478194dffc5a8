package physics

// Box is an axis-aligned bounding box. X, Y is the top-left corner.
type Box struct {
	X, Y float64
	W, H float64
}

// BoxAt returns a box of size w x h centered on c.
func BoxAt(c Vec, w, h float64) Box {
	return Box{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Left returns the x-coordinate of the left edge.
func (b Box) Left() float64 { return b.X }

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.W }

// Top returns the y-coordinate of the top edge.
func (b Box) Top() float64 { return b.Y }

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.H }

// Center returns the center point of the box.
func (b Box) Center() Vec {
	return Vec{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Overlaps reports whether the two boxes share any interior area.
// Boxes that only touch along an edge do not overlap.
func (b Box) Overlaps(o Box) bool {
	if b.X >= o.Right() || o.X >= b.Right() {
		return false
	}
	if b.Y >= o.Bottom() || o.Y >= b.Bottom() {
		return false
	}
	return true
}

// Outside reports whether b lies entirely outside o on any side.
func (b Box) Outside(o Box) bool {
	return b.Right() < o.Left() || b.Left() > o.Right() ||
		b.Bottom() < o.Top() || b.Top() > o.Bottom()
}
