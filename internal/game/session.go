package game

import (
	"log"
	"time"
)

// ExitNotice is shown after the player leaves a game until the next start.
const ExitNotice = "GAME EXITED"

// Session owns one game: its balls, paddles, wall and opponent. It is not
// safe for concurrent use; drive it from a single goroutine.
type Session struct {
	cfg   Config
	clock Clock
	rng   Rand

	mode       Mode
	difficulty Difficulty
	aiEnabled  bool
	ai         *Opponent

	phase Phase
	tick  uint32
	balls []Ball
	left  Paddle
	right Paddle
	wall  Wall

	streak   int  // consecutive returns, Easy one-player only
	boosted  bool // streak boost already applied
	lastRamp time.Time

	winner  int8
	message string
	notice  string
	events  []Event
}

// NewSession creates an idle one-player Easy session. A nil clock reads the
// system clock; a nil rng uses the global math/rand source.
func NewSession(cfg Config, clock Clock, rng Rand) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	s := &Session{
		cfg:   cfg.normalized(),
		clock: clock,
		rng:   rng,
		ai:    NewOpponent(Easy),
	}
	s.resetEntities()
	return s
}

func (s *Session) Config() Config         { return s.cfg }
func (s *Session) Phase() Phase           { return s.phase }
func (s *Session) Mode() Mode             { return s.mode }
func (s *Session) Difficulty() Difficulty { return s.difficulty }
func (s *Session) AIEnabled() bool        { return s.aiEnabled }
func (s *Session) AIDifficulty() Difficulty {
	return s.ai.Difficulty()
}

// Running reports whether the tick loop is live, paused or not.
func (s *Session) Running() bool {
	return s.phase == PhaseRunning || s.phase == PhasePaused
}

// Tick advances the game by one frame when it is running and returns what
// a renderer needs to draw it.
func (s *Session) Tick(in Input) Frame {
	s.events = s.events[:0]
	s.tick++
	if s.phase == PhaseRunning {
		s.update(in, s.clock.Now())
	}
	return s.snapshot()
}

// Frame returns the current state without advancing it.
func (s *Session) Frame() Frame {
	return s.snapshot()
}

func (s *Session) emit(ev Event) {
	s.events = append(s.events, ev)
}

func (s *Session) rightScore() int {
	if s.mode == ModeOnePlayer {
		return s.wall.Score
	}
	return s.right.Score
}

// resetEntities zeroes scores, centres the paddles, re-serves a fresh set of
// balls and clears every latch.
func (s *Session) resetEntities() {
	cfg := s.cfg
	s.left = NewPaddle(0, cfg)
	s.right = NewPaddle(cfg.FieldWidth-cfg.PaddleWidth, cfg)
	s.wall = NewWall(cfg)

	tags := pickTags(s.rng, s.difficulty.BallCount())
	s.balls = make([]Ball, len(tags))
	for i, tag := range tags {
		s.balls[i] = NewBall(cfg, tag)
		s.resetBall(&s.balls[i])
	}

	s.streak = 0
	s.boosted = false
	s.lastRamp = s.clock.Now()
	s.winner = -1
	s.message = ""
	s.ai.reset()
}

// Start begins a game from Idle, or a fresh one after game over.
func (s *Session) Start() bool {
	if s.Running() {
		return false
	}
	s.resetEntities()
	s.notice = ""
	s.phase = PhaseRunning
	log.Printf("START: mode=%s difficulty=%s ai=%v", s.mode, s.difficulty, s.aiEnabled)
	return true
}

// Restart throws away the current game and immediately plays a new one.
func (s *Session) Restart() bool {
	if !s.Running() {
		return s.Start()
	}
	s.resetEntities()
	s.phase = PhaseRunning
	return true
}

// PauseToggle freezes or resumes a running game. The speed ramp starts a
// new interval on resume.
func (s *Session) PauseToggle() bool {
	switch s.phase {
	case PhaseRunning:
		s.phase = PhasePaused
	case PhasePaused:
		s.phase = PhaseRunning
		s.lastRamp = s.clock.Now()
	default:
		return false
	}
	return true
}

// Reset returns to Idle with a fresh board.
func (s *Session) Reset() bool {
	s.resetEntities()
	s.notice = ""
	s.phase = PhaseIdle
	return true
}

// Exit leaves the current game, like Reset, and shows ExitNotice.
func (s *Session) Exit() bool {
	wasRunning := s.Running()
	s.Reset()
	s.notice = ExitNotice
	if wasRunning {
		log.Printf("EXIT: game abandoned")
	}
	return true
}

// SetMode switches between one- and two-player play and turns the opponent
// off. Ignored while a game is running.
func (s *Session) SetMode(m Mode) bool {
	if s.Running() || !m.valid() {
		return false
	}
	s.mode = m
	s.aiEnabled = false
	return s.Reset()
}

// SetDifficulty changes ball count and speed. Ignored while a game is running.
func (s *Session) SetDifficulty(d Difficulty) bool {
	if s.Running() || !d.valid() {
		return false
	}
	s.difficulty = d
	return s.Reset()
}

// SetAIEnabled hands the right paddle to the computer, forcing two-player
// mode, or back to a human. Ignored while a game is running.
func (s *Session) SetAIEnabled(on bool) bool {
	if s.Running() {
		return false
	}
	s.aiEnabled = on
	if on {
		s.mode = ModeTwoPlayer
	}
	return s.Reset()
}

// SetAIDifficulty tunes the opponent and enables it if it was off.
// Ignored while a game is running.
func (s *Session) SetAIDifficulty(d Difficulty) bool {
	if s.Running() || !d.valid() {
		return false
	}
	s.ai.SetDifficulty(d)
	s.aiEnabled = true
	s.mode = ModeTwoPlayer
	return s.Reset()
}
