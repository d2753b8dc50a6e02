package game

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Intersects reports whether the ball touches r. The ball's hit box uses its
// effective radius, and both boxes are grown by CollisionBuffer.
func Intersects(b *Ball, r Rect) bool {
	er := b.effectiveRadius()
	return b.X+er+CollisionBuffer > r.X &&
		b.X-er-CollisionBuffer < r.X+r.W &&
		b.Y+er+CollisionBuffer > r.Y &&
		b.Y-er-CollisionBuffer < r.Y+r.H
}

func clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
