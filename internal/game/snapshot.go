package game

type EventKind uint8

const (
	EventScored EventKind = iota
	EventSpeedBoost
	EventSpeedRamp
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventScored:
		return "scored"
	case EventSpeedBoost:
		return "speed-boost"
	case EventSpeedRamp:
		return "speed-ramp"
	case EventGameOver:
		return "game-over"
	}
	return "unknown"
}

// Event is something that happened during a tick.
type Event struct {
	Kind    EventKind `json:"kind"`
	Side    Side      `json:"side"`
	Points  int       `json:"points,omitempty"`
	Message string    `json:"message,omitempty"`
}

type BallView struct {
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	VX     float64      `json:"vx"`
	VY     float64      `json:"vy"`
	Radius float64      `json:"radius"`
	Speed  float64      `json:"speed"`
	Hits   int          `json:"hits"`
	Tag    string       `json:"tag"`
	Trail  []TrailPoint `json:"trail"`
}

type PaddleView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Frame is the read-only state a renderer needs after a tick.
type Frame struct {
	Tick         uint32      `json:"tick"`
	Phase        Phase       `json:"phase"`
	Mode         Mode        `json:"mode"`
	Difficulty   Difficulty  `json:"difficulty"`
	AIEnabled    bool        `json:"aiEnabled"`
	AIDifficulty Difficulty  `json:"aiDifficulty"`
	Balls        []BallView  `json:"balls"`
	Left         PaddleView  `json:"left"`
	Right        *PaddleView `json:"right,omitempty"` // two-player only
	Wall         *PaddleView `json:"wall,omitempty"`  // one-player only
	Score        [2]int      `json:"score"`
	Winner       int8        `json:"winner"`            // -1 until over, then 0=left 1=right
	Message      string      `json:"message,omitempty"` // set once the game is over
	Notice       string      `json:"notice,omitempty"`
	Events       []Event     `json:"events,omitempty"`
}

func paddleView(r Rect) PaddleView {
	return PaddleView{X: r.X, Y: r.Y, Width: r.W, Height: r.H}
}

func (s *Session) snapshot() Frame {
	f := Frame{
		Tick:         s.tick,
		Phase:        s.phase,
		Mode:         s.mode,
		Difficulty:   s.difficulty,
		AIEnabled:    s.aiEnabled,
		AIDifficulty: s.ai.Difficulty(),
		Balls:        make([]BallView, len(s.balls)),
		Left:         paddleView(s.left.Rect()),
		Score:        [2]int{s.left.Score, s.rightScore()},
		Winner:       s.winner,
		Message:      s.message,
		Notice:       s.notice,
	}
	for i := range s.balls {
		b := &s.balls[i]
		tag := b.Tag
		if tag == "" {
			tag = DefaultTag
		}
		f.Balls[i] = BallView{
			X:      b.X,
			Y:      b.Y,
			VX:     b.VX,
			VY:     b.VY,
			Radius: b.Radius,
			Speed:  b.Speed,
			Hits:   b.HitCount,
			Tag:    tag,
			Trail:  append([]TrailPoint(nil), b.Trail...),
		}
	}
	if s.mode == ModeOnePlayer {
		w := paddleView(s.wall.Rect())
		f.Wall = &w
	} else {
		r := paddleView(s.right.Rect())
		f.Right = &r
	}
	if len(s.events) > 0 {
		f.Events = append([]Event(nil), s.events...)
	}
	return f
}
