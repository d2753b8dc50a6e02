package game

import "math"

func NewPaddle(x float64, cfg Config) Paddle {
	return Paddle{
		X:      x,
		Y:      (cfg.FieldHeight - cfg.PaddleHeight) / 2,
		Width:  cfg.PaddleWidth,
		Height: cfg.PaddleHeight,
		Speed:  cfg.PaddleSpeed,
	}
}

func NewWall(cfg Config) Wall {
	return Wall{
		X:      cfg.FieldWidth - cfg.PaddleWidth,
		Width:  cfg.PaddleWidth,
		Height: cfg.FieldHeight,
	}
}

func (p *Paddle) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

func (w *Wall) Rect() Rect {
	return Rect{X: w.X, Y: w.Y, W: w.Width, H: w.Height}
}

func (p *Paddle) CenterY() float64 {
	return p.Y + p.Height/2
}

// Move applies held keys, one step of the paddle's speed per key.
func (p *Paddle) Move(in PaddleInput, fieldHeight float64) {
	if in.Up {
		p.Y = math.Max(0, p.Y-p.Speed)
	}
	if in.Down {
		p.Y = math.Min(fieldHeight-p.Height, p.Y+p.Speed)
	}
}

// approach moves the paddle's top edge toward y by at most step, without
// overshooting.
func (p *Paddle) approach(y, step, fieldHeight float64) {
	d := y - p.Y
	if math.Abs(d) > step {
		p.Y += math.Copysign(step, d)
	} else {
		p.Y = y
	}
	p.clamp(fieldHeight)
}

func (p *Paddle) clamp(fieldHeight float64) {
	p.Y = clamp(p.Y, 0, fieldHeight-p.Height)
}

func (p *Paddle) center(fieldHeight float64) {
	p.Y = (fieldHeight - p.Height) / 2
}
