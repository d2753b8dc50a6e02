package game

import (
	"math"
	"time"
)

// Physics & field constants
const (
	TickRate = 60

	FieldWidth  = 800.0
	FieldHeight = 400.0

	PaddleWidth  = 10.0
	PaddleHeight = 100.0
	PaddleSpeed  = 8.0

	BallRadius = 40.0
	MaxHits    = 20 // radius shrinks by one unit per hit, so final radius is BallRadius-MaxHits

	SpeedOnePlayer = 7.0
	SpeedTwoPlayer = 4.0
	HardSpeedMult  = 1.5

	// Collision tuning
	EffectiveRadiusRatio = 0.6 // hit radius vs. drawn radius
	CollisionBuffer      = 5.0
	MaxBounceAngle       = math.Pi / 4.5 // 40 degrees
	MinHorizontalRatio   = 0.7
	MinVerticalSpeed     = 2.0
	EdgeJitter           = 1.5 // top/bottom and paddle bounces
	WallJitter           = 2.0
	WallBounceMult       = 1.1

	// Trail
	TrailLength       = 8
	TrailAge          = 10
	TrailSpacingRatio = 0.3

	// Scoring
	WinScore              = 20
	DefaultWallPointValue = 3

	// Easy-mode streak boost
	BoostStreak = 5
	BoostMult   = 1.5

	SpeedRampInterval = 3 * time.Second
)

type Mode uint8

const (
	ModeOnePlayer Mode = iota
	ModeTwoPlayer
)

type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
)

type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseOver
)

type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

// TrailPoint is a past ball position; Age counts down once per tick.
type TrailPoint struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Age int     `json:"age"`
}

type Ball struct {
	X        float64
	Y        float64
	VX       float64
	VY       float64
	Radius   float64
	Speed    float64
	HitCount int
	Trail    []TrailPoint
	Tag      string
}

type Paddle struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Speed  float64
	Score  int
}

// Wall replaces the right paddle in one-player mode.
type Wall struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
	Score  int
}

type PaddleInput struct {
	Up   bool `json:"up"`
	Down bool `json:"down"`
}

// Input is the set of directional keys held during a tick.
type Input struct {
	Left  PaddleInput `json:"left"`
	Right PaddleInput `json:"right"`
}
