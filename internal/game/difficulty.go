package game

import (
	"fmt"
	"strings"
	"time"
)

func (m Mode) String() string {
	switch m {
	case ModeOnePlayer:
		return "one-player"
	case ModeTwoPlayer:
		return "two-player"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

func (m Mode) valid() bool {
	return m <= ModeTwoPlayer
}

// ParseMode accepts "1", "one", "one-player", "2", "two" and "two-player".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "one", "one-player", "oneplayer":
		return ModeOnePlayer, nil
	case "2", "two", "two-player", "twoplayer":
		return ModeTwoPlayer, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("Difficulty(%d)", uint8(d))
}

func (d Difficulty) valid() bool {
	return d <= Hard
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "easy":
		return Easy, nil
	case "2", "medium":
		return Medium, nil
	case "3", "hard":
		return Hard, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// BallCount is the number of live balls a session plays with.
func (d Difficulty) BallCount() int {
	if d == Easy {
		return 1
	}
	return 2
}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseOver:
		return "over"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// AIProfile tunes the computer opponent.
type AIProfile struct {
	ReactionTime    time.Duration
	Accuracy        float64 // 0..1
	SpeedMultiplier float64 // applied to the paddle's own speed

	// PredictionNoise replaces an out-of-field prediction with the ball's
	// current y ± PredictionNoise. Ignored when ReflectBounces is set.
	PredictionNoise float64
	ReflectBounces  bool
}

// ReflectionError is the maximum error added per mirrored bounce when the
// opponent predicts reflections.
const ReflectionError = 12.5

var aiProfiles = [...]AIProfile{
	Easy:   {ReactionTime: 180 * time.Millisecond, Accuracy: 0.5, SpeedMultiplier: 0.6, PredictionNoise: 40},
	Medium: {ReactionTime: 80 * time.Millisecond, Accuracy: 0.75, SpeedMultiplier: 1.0, PredictionNoise: 20},
	Hard:   {ReactionTime: 40 * time.Millisecond, Accuracy: 0.9, SpeedMultiplier: 1.5, ReflectBounces: true},
}

// AIProfileFor returns the opponent tuning for a difficulty, falling back to Easy.
func AIProfileFor(d Difficulty) AIProfile {
	if !d.valid() {
		d = Easy
	}
	return aiProfiles[d]
}

// speedRampIncrement is added to every ball's speed at each ramp.
func speedRampIncrement(m Mode, d Difficulty) float64 {
	inc := 2.0
	if m == ModeOnePlayer {
		inc = 5.0
	}
	if d == Hard {
		inc *= HardSpeedMult
	}
	return inc
}
