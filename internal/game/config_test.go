package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pong.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
win_score = 5
wall_point_value = 2
speed_ramp_interval = "1500ms"
paddle_height = 0
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.WinScore != 5 || cfg.WallPointValue != 2 {
		t.Errorf("win=%d wall=%d", cfg.WinScore, cfg.WallPointValue)
	}
	if cfg.SpeedRampInterval != 1500*time.Millisecond {
		t.Errorf("ramp = %v", cfg.SpeedRampInterval)
	}
	if cfg.PaddleHeight != PaddleHeight || cfg.FieldWidth != FieldWidth {
		t.Errorf("defaults not kept: paddle=%.0f field=%.0f", cfg.PaddleHeight, cfg.FieldWidth)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "win_score = 5\nwinscore_typo = 7\n"))
	if err == nil || !strings.Contains(err.Error(), "winscore_typo") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := LoadConfig(writeConfig(t, "win_score = \"many\"\n")); err == nil {
		t.Error("wrong type accepted")
	}
}
