package term

import (
	"time"

	"github.com/vladimirvolkov/emojipong/internal/game"
)

// HoldTimeout is how long a paddle key counts as held after its last press
// or autorepeat event. Terminals never report key releases.
const HoldTimeout = 180 * time.Millisecond

type paddleKey uint8

// Paired so that k^1 is the opposite direction on the same paddle.
const (
	leftUp paddleKey = iota
	leftDown
	rightUp
	rightDown
	numPaddleKeys
)

// KeyState turns key presses into the level-triggered input a session
// expects.
type KeyState struct {
	clock   game.Clock
	timeout time.Duration
	pressed [numPaddleKeys]time.Time
}

func NewKeyState(clock game.Clock, timeout time.Duration) *KeyState {
	if clock == nil {
		clock = game.SystemClock{}
	}
	if timeout <= 0 {
		timeout = HoldTimeout
	}
	return &KeyState{clock: clock, timeout: timeout}
}

func (k *KeyState) press(key paddleKey) {
	k.pressed[key] = k.clock.Now()
	k.pressed[key^1] = time.Time{}
}

func (k *KeyState) held(key paddleKey, now time.Time) bool {
	t := k.pressed[key]
	return !t.IsZero() && now.Sub(t) < k.timeout
}

// Release lets go of every key.
func (k *KeyState) Release() {
	k.pressed = [numPaddleKeys]time.Time{}
}

func (k *KeyState) Input() game.Input {
	now := k.clock.Now()
	return game.Input{
		Left:  game.PaddleInput{Up: k.held(leftUp, now), Down: k.held(leftDown, now)},
		Right: game.PaddleInput{Up: k.held(rightUp, now), Down: k.held(rightDown, now)},
	}
}
