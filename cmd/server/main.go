package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/vladimirvolkov/emojipong/internal/game"
	"github.com/vladimirvolkov/emojipong/internal/middleware"
	"github.com/vladimirvolkov/emojipong/internal/room"
	"github.com/vladimirvolkov/emojipong/internal/ws"
)

// securityHeaders wraps a handler with common security response headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; connect-src 'self' ws: wss:; img-src 'self' data:")
		next.ServeHTTP(w, r)
	})
}

// GameManager gives every connection its own session.
type GameManager struct {
	ctx    context.Context
	hub    *ws.Hub
	cfg    game.Config
	seed   int64
	seeded bool
}

func (gm *GameManager) CreateRoom(c *ws.Conn) {
	seed := time.Now().UnixNano()
	if gm.seeded {
		seed = gm.seed
	}
	s := game.NewSession(gm.cfg, game.SystemClock{}, game.NewRand(seed))
	if err := room.Configure(s, c.Params); err != nil {
		log.Printf("conn %s: ignoring settings: %v", c.ID, err)
	}

	rm := room.New(c.ID, c, s)
	rm.Start(gm.ctx)
	go func() {
		<-rm.Done()
		gm.hub.RoomEnded()
	}()
}

func envInt(name string) (int64, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Fatalf("invalid %s=%q: %v", name, v, err)
	}
	return n, true
}

func main() {
	// Logs go to stdout; stderr is read as errors by the host
	log.SetOutput(os.Stdout)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web"
	}

	var originPatterns []string
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		originPatterns = strings.Split(origins, ",")
	}

	cfg := game.DefaultConfig()
	if path := os.Getenv("PONG_CONFIG"); path != "" {
		loaded, err := game.LoadConfig(path)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
		cfg = loaded
	}
	if n, ok := envInt("PONG_WALL_POINTS"); ok {
		cfg.WallPointValue = int(n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := &GameManager{ctx: ctx, cfg: cfg}
	manager.seed, manager.seeded = envInt("PONG_SEED")

	// Max 4 conns/IP; a client sends one key snapshot per frame plus commands
	limiter := middleware.NewIPRateLimiter(4, 2*game.TickRate, time.Second)
	defer limiter.Stop()

	hub := ws.NewHub(manager, limiter, originPatterns)
	manager.hub = hub

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWS)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(hub.Stats())
	})

	// Static files with no-cache headers (prevents stale JS in browser)
	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		fs.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           securityHeaders(mux),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		cancel()
		server.Close()
	}()

	log.Printf("Emoji Pong server starting on :%s (wall worth %d)", port, cfg.WallPointValue)
	log.Printf("serving static files from %s", staticDir)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
	log.Println("server stopped")
}
