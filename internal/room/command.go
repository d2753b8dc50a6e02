package room

import (
	"fmt"
	"net/url"

	"github.com/vladimirvolkov/emojipong/internal/game"
	"github.com/vladimirvolkov/emojipong/internal/ws"
)

// ParseCommand turns a wire command into a session command.
func ParseCommand(p ws.CommandPayload) (game.Command, error) {
	kind, err := game.ParseCommandKind(p.Name)
	if err != nil {
		return game.Command{}, err
	}
	cmd := game.Command{Kind: kind}
	switch kind {
	case game.CmdSetMode:
		cmd.Mode, err = game.ParseMode(p.Value)
	case game.CmdSetDifficulty, game.CmdSetAIDifficulty:
		cmd.Difficulty, err = game.ParseDifficulty(p.Value)
	case game.CmdSetAIEnabled:
		cmd.Enabled, err = game.ParseSwitch(p.Value)
	}
	if err != nil {
		return game.Command{}, fmt.Errorf("%s: %w", kind, err)
	}
	return cmd, nil
}

// Configure presets an idle session from connection parameters: mode,
// difficulty and ai ("on", "off" or an opponent difficulty).
func Configure(s *game.Session, params url.Values) error {
	return s.Configure(game.Settings{
		Mode:       params.Get("mode"),
		Difficulty: params.Get("difficulty"),
		AI:         params.Get("ai"),
	})
}
