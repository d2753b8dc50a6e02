package game

import "math"

// DefaultTag is drawn for a ball that never got a tag of its own.
const DefaultTag = "😀"

var ballTags = []string{
	"😀", "😎", "🚀", "🔥", "⚽", "🏀", "🎾", "🌍",
	"🍎", "🍕", "🎮", "🎈", "⭐", "💡", "🦄", "🐱",
	"🐶", "🐢", "🦋", "🍄", "🌈", "💎", "🥳", "🤖",
}

func NewBall(cfg Config, tag string) Ball {
	return Ball{
		X:      cfg.FieldWidth / 2,
		Y:      cfg.FieldHeight / 2,
		Radius: cfg.BallRadius,
		Tag:    tag,
	}
}

// pickTags returns n tags, distinct while the tag set allows it.
func pickTags(r Rand, n int) []string {
	tags := make([]string, 0, n)
	used := make(map[string]bool, n)
	for len(tags) < n {
		i := randomIndex(r, len(ballTags))
		for used[ballTags[i]] && len(used) < len(ballTags) {
			i = (i + 1) % len(ballTags)
		}
		used[ballTags[i]] = true
		tags = append(tags, ballTags[i])
	}
	return tags
}

func (b *Ball) effectiveRadius() float64 {
	return b.Radius * EffectiveRadiusRatio
}

// serve recenters the ball and sends it off at speed in a random horizontal
// direction. Radius, hit count and tag survive.
func (b *Ball) serve(cfg Config, speed float64, r Rand) {
	b.X = cfg.FieldWidth / 2
	b.Y = cfg.FieldHeight / 2
	b.Speed = speed
	b.VX = randomSign(r) * speed * MinHorizontalRatio
	b.VY = uniform(r, speed*0.3)
	b.Trail = b.Trail[:0]
	if b.Tag == "" {
		b.Tag = ballTags[randomIndex(r, len(ballTags))]
	}
}

// shrink records a hit, taking one unit off the radius until MaxHits.
func (b *Ball) shrink(cfg Config) bool {
	if b.HitCount >= cfg.MaxHits {
		return false
	}
	b.HitCount++
	b.Radius = cfg.BallRadius - float64(b.HitCount)
	return true
}

// accelerate raises the ball's speed and rescales its velocity to match,
// keeping the direction. A resting ball only gets the new speed.
func (b *Ball) accelerate(inc float64) {
	b.Speed += inc
	mag := math.Hypot(b.VX, b.VY)
	if mag == 0 {
		return
	}
	ratio := b.Speed / mag
	b.VX *= ratio
	b.VY *= ratio
}

func (b *Ball) boost(mult float64) {
	b.Speed *= mult
	b.VX *= mult
	b.VY *= mult
}

// updateTrail records the current position once the ball has moved far
// enough from the last point, then ages the trail.
func (b *Ball) updateTrail() {
	n := len(b.Trail)
	spacing := b.Radius * TrailSpacingRatio
	if n == 0 || math.Abs(b.X-b.Trail[n-1].X) > spacing || math.Abs(b.Y-b.Trail[n-1].Y) > spacing {
		b.Trail = append(b.Trail, TrailPoint{X: b.X, Y: b.Y, Age: TrailAge})
		if len(b.Trail) > TrailLength {
			b.Trail = append(b.Trail[:0], b.Trail[1:]...)
		}
	}

	kept := b.Trail[:0]
	for _, p := range b.Trail {
		p.Age--
		if p.Age > 0 {
			kept = append(kept, p)
		}
	}
	b.Trail = kept
}
