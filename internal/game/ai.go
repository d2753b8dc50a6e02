package game

import (
	"math"
	"time"
)

// maxReflections bounds the mirrored-bounce prediction.
const maxReflections = 16

// Opponent steers the right paddle. It decides at most once per reaction
// time and makes mistakes in proportion to its inaccuracy.
type Opponent struct {
	difficulty   Difficulty
	profile      AIProfile
	lastDecision time.Time
}

func NewOpponent(d Difficulty) *Opponent {
	o := &Opponent{}
	o.SetDifficulty(d)
	return o
}

func (o *Opponent) Difficulty() Difficulty {
	return o.difficulty
}

func (o *Opponent) Profile() AIProfile {
	return o.profile
}

func (o *Opponent) SetDifficulty(d Difficulty) {
	if !d.valid() {
		d = Easy
	}
	o.difficulty = d
	o.profile = AIProfileFor(d)
}

func (o *Opponent) reset() {
	o.lastDecision = time.Time{}
}

// Update moves p toward where it expects the most urgent ball to arrive.
// It returns false when the reaction delay has not yet elapsed.
func (o *Opponent) Update(p *Paddle, balls []Ball, fieldHeight float64, now time.Time, r Rand) bool {
	if !o.lastDecision.IsZero() && now.Sub(o.lastDecision) < o.profile.ReactionTime {
		return false
	}
	o.lastDecision = now

	target := o.pickBall(p, balls)
	if target == nil {
		o.drift(p, fieldHeight)
		return true
	}

	predicted := o.predictY(p, target, fieldHeight, r)
	center := o.aim(predicted, p.Height, fieldHeight, r)
	p.approach(center-p.Height/2, p.Speed*o.profile.SpeedMultiplier, fieldHeight)
	return true
}

// pickBall returns the ball with the smallest weighted distance to the
// paddle. Balls moving away count three times as far; balls behind the
// paddle are ignored.
func (o *Opponent) pickBall(p *Paddle, balls []Ball) *Ball {
	var chosen *Ball
	shortest := math.Inf(1)
	for i := range balls {
		b := &balls[i]
		d := p.X - b.X
		if b.VX <= 0 {
			d *= 3
		}
		if d > 0 && d < shortest {
			shortest = d
			chosen = b
		}
	}
	return chosen
}

// drift nudges an idle paddle back to the middle of the field.
func (o *Opponent) drift(p *Paddle, fieldHeight float64) {
	mid := fieldHeight / 2
	switch c := p.CenterY(); {
	case c < mid-p.Speed:
		p.Y += p.Speed
	case c > mid+p.Speed:
		p.Y -= p.Speed
	}
	p.clamp(fieldHeight)
}

func (o *Opponent) predictY(p *Paddle, b *Ball, fieldHeight float64, r Rand) float64 {
	if b.VX <= 0 {
		return b.Y
	}
	y := b.Y + b.VY*(p.X-b.X)/b.VX
	if y >= 0 && y <= fieldHeight {
		return y
	}
	if !o.profile.ReflectBounces {
		return b.Y + uniform(r, o.profile.PredictionNoise)
	}
	for i := 0; (y < 0 || y > fieldHeight) && i < maxReflections; i++ {
		if y < 0 {
			y = -y
		} else {
			y = 2*fieldHeight - y
		}
		y += uniform(r, ReflectionError)
	}
	return clamp(y, 0, fieldHeight)
}

// aim turns a prediction into the paddle centre the opponent will head for.
func (o *Opponent) aim(predicted, paddleHeight, fieldHeight float64, r Rand) float64 {
	acc := o.profile.Accuracy
	center := predicted + uniform(r, 0.5)*paddleHeight*(1.2-acc)
	if randomFloat(r) > acc {
		center = predicted + uniform(r, 1)*paddleHeight
	}
	if randomFloat(r) > acc+0.2 {
		center = fieldHeight / 2
	}
	return center
}
