package game

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// scriptedRand replays vals in a loop; with no values it always returns 0.5,
// which zeroes every jitter term and picks the negative sign.
type scriptedRand struct {
	vals []float64
	i    int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.vals) == 0 {
		return 0.5
	}
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

// newRunningSession returns a started session on a manual clock.
func newRunningSession(t *testing.T, m Mode, d Difficulty) (*Session, *ManualClock) {
	t.Helper()
	clock := NewManualClock(t0)
	s := NewSession(DefaultConfig(), clock, &scriptedRand{})
	if !s.SetMode(m) {
		t.Fatalf("SetMode(%s) rejected", m)
	}
	if !s.SetDifficulty(d) {
		t.Fatalf("SetDifficulty(%s) rejected", d)
	}
	if !s.Start() {
		t.Fatal("Start rejected")
	}
	return s, clock
}

// placeAtLeftPaddle puts ball i where the next tick carries it into the
// left paddle at the paddle's centre line.
func placeAtLeftPaddle(s *Session, i int) {
	b := &s.balls[i]
	b.X = s.left.X + s.left.Width + 6
	b.Y = s.left.CenterY()
	b.VX = -5
	b.VY = 0
}

func approxEqual(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	return d < eps && d > -eps
}
