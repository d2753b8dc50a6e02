package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/vladimirvolkov/emojipong/internal/game"
	"github.com/vladimirvolkov/emojipong/internal/term"
)

var (
	seedFlag       = flag.Int64("seed", 0, "random seed (0 picks one from the clock)")
	modeFlag       = flag.String("mode", "one", "game mode: one or two")
	difficultyFlag = flag.String("difficulty", "easy", "difficulty: easy, medium or hard")
	aiFlag         = flag.String("ai", "off", "computer opponent: off, on, easy, medium or hard")
	wallFlag       = flag.Int("wall-points", game.DefaultWallPointValue, "points the wall earns per miss")
	configFlag     = flag.String("config", "", "TOML file with game tunables")
	logFlag        = flag.String("log", "", "write the game log to this file")
)

func main() {
	flag.Parse()

	// The screen owns the terminal, so the log goes to a file or nowhere.
	log.SetOutput(io.Discard)
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg := game.DefaultConfig()
	if *configFlag != "" {
		loaded, err := game.LoadConfig(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(2)
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "wall-points" {
			cfg.WallPointValue = *wallFlag
		}
	})

	clock := game.SystemClock{}
	session := game.NewSession(cfg, clock, game.NewRand(seed))
	if err := session.Configure(game.Settings{Mode: *modeFlag, Difficulty: *difficultyFlag, AI: *aiFlag}); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid settings: %v\n", err)
		os.Exit(2)
	}
	log.Printf("seed %d", seed)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}

	// Restore the terminal before reporting a crash.
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "EMOJI PONG CRASHED: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	app := term.NewApp(screen, session, clock)
	err = app.Run(ctx)
	screen.Fini()

	f := app.Frame()
	fmt.Printf("Final score: %d : %d\n", f.Score[0], f.Score[1])
	if f.Message != "" {
		fmt.Println(f.Message)
	}
	if err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
