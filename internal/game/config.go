package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config captures the tunables of a session. Zero fields take the package
// defaults.
type Config struct {
	FieldWidth  float64 `json:"fieldWidth" toml:"field_width"`
	FieldHeight float64 `json:"fieldHeight" toml:"field_height"`

	PaddleWidth  float64 `json:"paddleWidth" toml:"paddle_width"`
	PaddleHeight float64 `json:"paddleHeight" toml:"paddle_height"`
	PaddleSpeed  float64 `json:"paddleSpeed" toml:"paddle_speed"`

	BallRadius float64 `json:"ballRadius" toml:"ball_radius"`
	MaxHits    int     `json:"maxHits" toml:"max_hits"`

	SpeedOnePlayer float64 `json:"speedOnePlayer" toml:"speed_one_player"`
	SpeedTwoPlayer float64 `json:"speedTwoPlayer" toml:"speed_two_player"`

	// WallPointValue is what the wall earns each time the player misses.
	WallPointValue int `json:"wallPointValue" toml:"wall_point_value"`
	WinScore       int `json:"winScore" toml:"win_score"`

	SpeedRampInterval time.Duration `json:"speedRampInterval" toml:"speed_ramp_interval"`
}

func DefaultConfig() Config {
	return Config{
		FieldWidth:        FieldWidth,
		FieldHeight:       FieldHeight,
		PaddleWidth:       PaddleWidth,
		PaddleHeight:      PaddleHeight,
		PaddleSpeed:       PaddleSpeed,
		BallRadius:        BallRadius,
		MaxHits:           MaxHits,
		SpeedOnePlayer:    SpeedOnePlayer,
		SpeedTwoPlayer:    SpeedTwoPlayer,
		WallPointValue:    DefaultWallPointValue,
		WinScore:          WinScore,
		SpeedRampInterval: SpeedRampInterval,
	}
}

// LoadConfig reads a TOML file over the defaults. Durations are strings
// such as "3s"; unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load config: unknown keys %s", strings.Join(keys, ", "))
	}
	return cfg.normalized(), nil
}

// normalized returns a config with defaults applied.
func (cfg Config) normalized() Config {
	def := DefaultConfig()
	n := cfg
	if n.FieldWidth <= 0 {
		n.FieldWidth = def.FieldWidth
	}
	if n.FieldHeight <= 0 {
		n.FieldHeight = def.FieldHeight
	}
	if n.PaddleWidth <= 0 {
		n.PaddleWidth = def.PaddleWidth
	}
	if n.PaddleHeight <= 0 || n.PaddleHeight > n.FieldHeight {
		n.PaddleHeight = min(def.PaddleHeight, n.FieldHeight)
	}
	if n.PaddleSpeed <= 0 {
		n.PaddleSpeed = def.PaddleSpeed
	}
	if n.BallRadius <= 0 {
		n.BallRadius = def.BallRadius
	}
	if n.MaxHits <= 0 {
		n.MaxHits = def.MaxHits
	}
	if float64(n.MaxHits) >= n.BallRadius {
		n.MaxHits = int(n.BallRadius) - 1
	}
	if n.SpeedOnePlayer <= 0 {
		n.SpeedOnePlayer = def.SpeedOnePlayer
	}
	if n.SpeedTwoPlayer <= 0 {
		n.SpeedTwoPlayer = def.SpeedTwoPlayer
	}
	if n.WallPointValue <= 0 {
		n.WallPointValue = def.WallPointValue
	}
	if n.WinScore <= 0 {
		n.WinScore = def.WinScore
	}
	if n.SpeedRampInterval <= 0 {
		n.SpeedRampInterval = def.SpeedRampInterval
	}
	return n
}

// FinalRadius is the smallest radius a ball can shrink to.
func (cfg Config) FinalRadius() float64 {
	return cfg.BallRadius - float64(cfg.MaxHits)
}

// BaseSpeed is the serve speed of a ball for the given mode and difficulty.
func (cfg Config) BaseSpeed(m Mode, d Difficulty) float64 {
	speed := cfg.SpeedTwoPlayer
	if m == ModeOnePlayer {
		speed = cfg.SpeedOnePlayer
	}
	if d == Hard {
		speed *= HardSpeedMult
	}
	return speed
}
