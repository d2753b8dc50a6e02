package room

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vladimirvolkov/emojipong/internal/game"
	"github.com/vladimirvolkov/emojipong/internal/ws"
)

// commandBuffer bounds commands queued between two ticks.
const commandBuffer = 16

// Transport is the client side of a room. *ws.Conn satisfies it.
type Transport interface {
	Send(msg ws.Message)
	ReadLoop(ctx context.Context) <-chan ws.Message
	Codec() ws.Codec
	Close()
}

// Room drives one session for one connection at game.TickRate. The session
// is only touched by the game loop goroutine.
type Room struct {
	id       string
	conn     Transport
	session  *game.Session
	input    game.Input
	inputMu  sync.Mutex
	commands chan game.Command
	lastTick atomic.Uint32
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(id string, conn Transport, session *game.Session) *Room {
	return &Room{
		id:       id,
		conn:     conn,
		session:  session,
		commands: make(chan game.Command, commandBuffer),
		interval: time.Second / game.TickRate,
	}
}

func (r *Room) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	r.sendWelcome()

	go r.readLoop(ctx)

	go func() {
		r.gameLoop(ctx)
		r.conn.Close()
		close(r.done)
	}()
}

// Done returns a channel that closes when the room's game loop exits.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// Stop ends the room and closes the connection.
func (r *Room) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *Room) sendWelcome() {
	cfg := r.session.Config()
	r.send(ws.MsgWelcome, 0, ws.WelcomePayload{
		FieldWidth:   cfg.FieldWidth,
		FieldHeight:  cfg.FieldHeight,
		PaddleWidth:  cfg.PaddleWidth,
		PaddleHeight: cfg.PaddleHeight,
		BallRadius:   cfg.BallRadius,
		WinScore:     cfg.WinScore,
		TickRate:     game.TickRate,
		Codec:        r.conn.Codec().Name(),
	})
}

func (r *Room) readLoop(ctx context.Context) {
	msgs := r.conn.ReadLoop(ctx)
	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				log.Printf("room %s: client disconnected", r.id)
				r.cancel()
				return
			}
			r.handleMessage(msg)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Room) handleMessage(msg ws.Message) {
	codec := r.conn.Codec()
	switch msg.Type {
	case ws.MsgInput:
		var p ws.InputPayload
		if err := codec.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("room %s: bad input: %v", r.id, err)
			return
		}
		r.inputMu.Lock()
		r.input = game.Input{
			Left:  game.PaddleInput{Up: p.Left.Up, Down: p.Left.Down},
			Right: game.PaddleInput{Up: p.Right.Up, Down: p.Right.Down},
		}
		r.inputMu.Unlock()

	case ws.MsgCommand:
		var p ws.CommandPayload
		if err := codec.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("room %s: bad command: %v", r.id, err)
			return
		}
		cmd, err := ParseCommand(p)
		if err != nil {
			log.Printf("room %s: %v", r.id, err)
			return
		}
		select {
		case r.commands <- cmd:
		default:
			log.Printf("room %s: command queue full, dropping %s", r.id, cmd.Kind)
		}

	case ws.MsgPing:
		var ping ws.PingPayload
		if err := codec.Unmarshal(msg.Payload, &ping); err != nil {
			return
		}
		r.send(ws.MsgPong, r.lastTick.Load(), ws.PongPayload{
			ClientTime: ping.ClientTime,
			ServerTime: uint64(time.Now().UnixMilli()),
		})
	}
}

func (r *Room) gameLoop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tick()
		case <-ctx.Done():
			return
		}
	}
}

func (r *Room) tick() {
	r.applyCommands()

	r.inputMu.Lock()
	in := r.input
	r.inputMu.Unlock()

	f := r.session.Tick(in)
	r.lastTick.Store(f.Tick)

	r.send(ws.MsgFrame, f.Tick, f)

	for _, ev := range f.Events {
		switch ev.Kind {
		case game.EventScored:
			log.Printf("SCORED: room %s %s +%d (%d:%d)", r.id, ev.Side, ev.Points, f.Score[0], f.Score[1])
			r.send(ws.MsgScored, f.Tick, ws.ScoredPayload{
				Side:   uint8(ev.Side),
				Points: ev.Points,
				Score:  f.Score,
			})
		case game.EventGameOver:
			r.send(ws.MsgGameOver, f.Tick, ws.GameOverPayload{
				Winner:  f.Winner,
				Score:   f.Score,
				Message: f.Message,
			})
		}
	}
}

// applyCommands runs every queued command before the tick so a command and
// the frame that reflects it go out together.
func (r *Room) applyCommands() {
	for {
		select {
		case cmd := <-r.commands:
			if !r.session.Apply(cmd) {
				log.Printf("room %s: %s ignored while %s", r.id, cmd.Kind, r.session.Phase())
			}
		default:
			return
		}
	}
}

func (r *Room) send(typ uint8, tick uint32, payload any) {
	msg, err := ws.NewMessage(r.conn.Codec(), typ, tick, payload)
	if err != nil {
		log.Printf("room %s: failed to encode %#x: %v", r.id, typ, err)
		return
	}
	r.conn.Send(msg)
}
