package game

import (
	"fmt"
	"strings"
)

type CommandKind uint8

const (
	CmdStart CommandKind = iota
	CmdPauseToggle
	CmdReset
	CmdExit
	CmdRestart
	CmdSetMode
	CmdSetDifficulty
	CmdSetAIEnabled
	CmdSetAIDifficulty
)

var commandNames = [...]string{
	CmdStart:           "start",
	CmdPauseToggle:     "pause",
	CmdReset:           "reset",
	CmdExit:            "exit",
	CmdRestart:         "restart",
	CmdSetMode:         "mode",
	CmdSetDifficulty:   "difficulty",
	CmdSetAIEnabled:    "ai",
	CmdSetAIDifficulty: "ai-difficulty",
}

func (k CommandKind) String() string {
	if int(k) < len(commandNames) {
		return commandNames[k]
	}
	return fmt.Sprintf("CommandKind(%d)", uint8(k))
}

func ParseCommandKind(s string) (CommandKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range commandNames {
		if name == s {
			return CommandKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", s)
}

// Command is a discrete request from a front end. Only the argument that
// matches Kind is read.
type Command struct {
	Kind       CommandKind
	Mode       Mode
	Difficulty Difficulty
	Enabled    bool
}

// Apply runs cmd and reports whether the session accepted it.
func (s *Session) Apply(cmd Command) bool {
	switch cmd.Kind {
	case CmdStart:
		return s.Start()
	case CmdPauseToggle:
		return s.PauseToggle()
	case CmdReset:
		return s.Reset()
	case CmdExit:
		return s.Exit()
	case CmdRestart:
		return s.Restart()
	case CmdSetMode:
		return s.SetMode(cmd.Mode)
	case CmdSetDifficulty:
		return s.SetDifficulty(cmd.Difficulty)
	case CmdSetAIEnabled:
		return s.SetAIEnabled(cmd.Enabled)
	case CmdSetAIDifficulty:
		return s.SetAIDifficulty(cmd.Difficulty)
	}
	return false
}

// ParseSwitch accepts on/off, true/false, yes/no and 1/0.
func ParseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

// Settings are textual presets for an idle session, as they arrive on a
// command line or query string. Empty fields are left alone.
type Settings struct {
	Mode       string
	Difficulty string
	// AI is "on", "off" or the opponent's difficulty.
	AI string
}

// Configure validates every field of st before applying any of them.
func (s *Session) Configure(st Settings) error {
	var cmds []Command
	if st.Mode != "" {
		m, err := ParseMode(st.Mode)
		if err != nil {
			return err
		}
		cmds = append(cmds, Command{Kind: CmdSetMode, Mode: m})
	}
	if st.Difficulty != "" {
		d, err := ParseDifficulty(st.Difficulty)
		if err != nil {
			return err
		}
		cmds = append(cmds, Command{Kind: CmdSetDifficulty, Difficulty: d})
	}
	if st.AI != "" {
		if on, err := ParseSwitch(st.AI); err == nil {
			cmds = append(cmds, Command{Kind: CmdSetAIEnabled, Enabled: on})
		} else {
			d, err := ParseDifficulty(st.AI)
			if err != nil {
				return fmt.Errorf("ai: %w", err)
			}
			cmds = append(cmds, Command{Kind: CmdSetAIDifficulty, Difficulty: d})
		}
	}
	for _, cmd := range cmds {
		if !s.Apply(cmd) {
			return fmt.Errorf("%s rejected while %s", cmd.Kind, s.phase)
		}
	}
	return nil
}
