package game

import "testing"

func TestIntersects(t *testing.T) {
	paddle := Rect{X: 0, Y: 150, W: 10, H: 100}

	// Radius 40 gives an effective radius of 24, so with the 5-unit buffer
	// the ball touches the paddle's right edge while X < 10+24+5 = 39.
	testCases := []struct {
		name string
		x, y float64
		want bool
	}{
		{"centre overlap", 20, 200, true},
		{"inside buffer", 38.9, 200, true},
		{"just outside buffer", 39.1, 200, false},
		{"visual radius overlaps but hit radius does not", 45, 200, false},
		{"above paddle within buffer", 20, 150 - 24 - 4.9, true},
		{"above paddle outside buffer", 20, 150 - 24 - 5.1, false},
		{"below paddle within buffer", 20, 250 + 24 + 4.9, true},
		{"far away", 400, 200, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := Ball{X: tc.x, Y: tc.y, Radius: 40}
			if got := Intersects(&b, paddle); got != tc.want {
				t.Errorf("Intersects(ball at %.1f,%.1f) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestIntersectsShrunkBall(t *testing.T) {
	paddle := Rect{X: 0, Y: 150, W: 10, H: 100}
	b := Ball{X: 35, Y: 200, Radius: 40}
	if !Intersects(&b, paddle) {
		t.Fatal("full-size ball should touch the paddle")
	}
	b.Radius = 20 // effective radius 12: reach ends at 35-12-5 = 18
	if Intersects(&b, paddle) {
		t.Error("shrunk ball should no longer touch the paddle")
	}
}
