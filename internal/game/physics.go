package game

import (
	"log"
	"math"
	"time"
)

// update advances a running session by one tick.
func (s *Session) update(in Input, now time.Time) {
	s.movePaddles(in, now)
	s.rampSpeed(now)

	for i := range s.balls {
		s.stepBall(&s.balls[i])
		if s.phase != PhaseRunning {
			return
		}
	}
}

// movePaddles applies held keys. When nobody plays the right paddle the
// right-hand keys steer the left paddle as well.
func (s *Session) movePaddles(in Input, now time.Time) {
	h := s.cfg.FieldHeight
	s.left.Move(in.Left, h)

	switch {
	case s.mode == ModeOnePlayer:
		s.left.Move(in.Right, h)
	case s.aiEnabled:
		s.ai.Update(&s.right, s.balls, h, now, s.rng)
		s.left.Move(in.Right, h)
	default:
		s.right.Move(in.Right, h)
	}
}

// rampSpeed speeds every ball up once per ramp interval.
func (s *Session) rampSpeed(now time.Time) {
	if now.Sub(s.lastRamp) < s.cfg.SpeedRampInterval {
		return
	}
	inc := speedRampIncrement(s.mode, s.difficulty)
	for i := range s.balls {
		s.balls[i].accelerate(inc)
	}
	s.lastRamp = now
	s.emit(Event{Kind: EventSpeedRamp})
}

func (s *Session) stepBall(b *Ball) {
	b.updateTrail()

	b.X += b.VX
	b.Y += b.VY

	s.bounceTopBottom(b)

	if Intersects(b, s.left.Rect()) {
		s.hitLeftPaddle(b)
		if s.phase != PhaseRunning {
			return
		}
	}

	if s.mode == ModeOnePlayer {
		s.resolveWall(b)
	} else {
		s.resolveRightPaddle(b)
	}
}

func (s *Session) bounceTopBottom(b *Ball) {
	h := s.cfg.FieldHeight
	switch {
	case b.Y-b.Radius < 0:
		b.Y = b.Radius + 1
	case b.Y+b.Radius > h:
		b.Y = h - b.Radius - 1
	default:
		return
	}

	b.VY = -b.VY
	b.VX += uniform(s.rng, EdgeJitter)

	// Never let the ball settle into a vertical shuttle.
	minVX := b.Speed * MinHorizontalRatio
	if math.Abs(b.VX) < minVX {
		if b.VX < 0 {
			b.VX = -minVX
		} else {
			b.VX = minVX
		}
	}
}

// bounceVelocity is the velocity a paddle returns a ball with before jitter.
// offset is the distance from the paddle centre; dir is +1 for the left
// paddle and -1 for the right one.
func bounceVelocity(offset, paddleHeight, speed, dir float64) (vx, vy float64) {
	norm := clamp(offset/(paddleHeight/2), -1, 1)
	angle := norm * MaxBounceAngle
	vx = math.Max(speed*MinHorizontalRatio, speed*math.Cos(angle))
	return dir * vx, speed * math.Sin(angle)
}

// ensureVertical gives the ball a visible vertical component.
func (s *Session) ensureVertical(b *Ball) {
	if math.Abs(b.VY) < MinVerticalSpeed {
		b.VY = randomSign(s.rng) * MinVerticalSpeed
	}
}

func (s *Session) paddleBounce(b *Ball, p *Paddle, dir float64) {
	b.VX, b.VY = bounceVelocity(b.Y-p.CenterY(), p.Height, b.Speed, dir)
	b.VY += uniform(s.rng, EdgeJitter)
	s.ensureVertical(b)
}

func (s *Session) hitLeftPaddle(b *Ball) {
	b.X = s.left.X + s.left.Width + b.Radius + 1
	s.paddleBounce(b, &s.left, 1)

	if s.mode != ModeOnePlayer {
		return
	}

	// Against the wall every return is a point.
	s.left.Score++
	s.emit(Event{Kind: EventScored, Side: SideLeft, Points: 1})

	if s.difficulty == Easy {
		s.streak++
		if s.streak >= BoostStreak && !s.boosted {
			for i := range s.balls {
				s.balls[i].boost(BoostMult)
			}
			s.boosted = true
			s.emit(Event{Kind: EventSpeedBoost, Side: SideLeft})
			log.Printf("SPEED BOOST: %d consecutive returns", s.streak)
		}
	}

	s.checkWin()
	b.shrink(s.cfg)
}

func (s *Session) resolveWall(b *Ball) {
	w := &s.wall
	if b.X+b.effectiveRadius() > w.X {
		b.X = w.X - b.Radius - 1
		b.VX = -math.Abs(b.VX) * WallBounceMult
		b.VY += uniform(s.rng, WallJitter)
		s.ensureVertical(b)
	}

	if b.X-b.effectiveRadius() < 0 {
		w.Score += s.cfg.WallPointValue
		s.emit(Event{Kind: EventScored, Side: SideRight, Points: s.cfg.WallPointValue})
		s.checkWin()
		s.resetBall(b)
		if s.difficulty == Easy {
			// The boost latch stays closed once tripped.
			s.streak = 0
		}
	}
}

func (s *Session) resolveRightPaddle(b *Ball) {
	p := &s.right
	if Intersects(b, p.Rect()) {
		b.X = p.X - b.Radius - 1
		s.paddleBounce(b, p, -1)
	}

	switch {
	case b.X-b.effectiveRadius() < 0:
		p.Score++
		s.emit(Event{Kind: EventScored, Side: SideRight, Points: 1})
		s.checkWin()
		s.resetBall(b)
	case b.X+b.effectiveRadius() > s.cfg.FieldWidth:
		s.left.Score++
		s.emit(Event{Kind: EventScored, Side: SideLeft, Points: 1})
		s.checkWin()
		s.resetBall(b)
		b.shrink(s.cfg)
	}
}

func (s *Session) resetBall(b *Ball) {
	b.serve(s.cfg, s.cfg.BaseSpeed(s.mode, s.difficulty), s.rng)
}

// checkWin ends the game once either side reaches the win score.
func (s *Session) checkWin() {
	if s.phase != PhaseRunning {
		return
	}
	left, right := s.left.Score, s.rightScore()
	switch {
	case left >= s.cfg.WinScore:
		s.winner = int8(SideLeft)
		s.message = "PLAYER 1 WINS"
		if s.mode == ModeOnePlayer {
			s.message = "YOU WIN"
		}
	case right >= s.cfg.WinScore:
		s.winner = int8(SideRight)
		s.message = "PLAYER 2 WINS"
		if s.mode == ModeOnePlayer {
			s.message = "YOU LOSE"
		}
	default:
		return
	}
	s.phase = PhaseOver
	s.emit(Event{Kind: EventGameOver, Side: Side(s.winner), Message: s.message})
	log.Printf("GAME OVER: %s (%d:%d)", s.message, left, right)
}
