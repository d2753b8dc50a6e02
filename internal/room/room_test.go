package room

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/vladimirvolkov/emojipong/internal/game"
	"github.com/vladimirvolkov/emojipong/internal/ws"
)

type fakeTransport struct {
	codec ws.Codec
	in    chan ws.Message

	mu     sync.Mutex
	sent   []ws.Message
	closed bool
}

func newFakeTransport(c ws.Codec) *fakeTransport {
	return &fakeTransport{codec: c, in: make(chan ws.Message, 8)}
}

func (f *fakeTransport) Send(msg ws.Message) {
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
}

func (f *fakeTransport) ReadLoop(ctx context.Context) <-chan ws.Message { return f.in }
func (f *fakeTransport) Codec() ws.Codec                                { return f.codec }

func (f *fakeTransport) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

// take returns and clears everything sent so far.
func (f *fakeTransport) take() []ws.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sent
	f.sent = nil
	return out
}

func newTestRoom(t *testing.T, c ws.Codec, cfg game.Config) (*Room, *fakeTransport) {
	t.Helper()
	clock := game.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s := game.NewSession(cfg, clock, game.NewRand(1))
	conn := newFakeTransport(c)
	return New("test", conn, s), conn
}

func encode(t *testing.T, c ws.Codec, typ uint8, payload any) ws.Message {
	t.Helper()
	msg, err := ws.NewMessage(c, typ, 0, payload)
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func lastFrame(t *testing.T, c ws.Codec, msgs []ws.Message) game.Frame {
	t.Helper()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type != ws.MsgFrame {
			continue
		}
		var f game.Frame
		if err := c.Unmarshal(msgs[i].Payload, &f); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		return f
	}
	t.Fatal("no frame sent")
	return game.Frame{}
}

func TestWelcomeDescribesField(t *testing.T) {
	r, conn := newTestRoom(t, ws.MsgPack, game.Config{FieldWidth: 640})
	r.sendWelcome()

	msgs := conn.take()
	if len(msgs) != 1 || msgs[0].Type != ws.MsgWelcome {
		t.Fatalf("sent %v", msgs)
	}
	var w ws.WelcomePayload
	if err := ws.MsgPack.Unmarshal(msgs[0].Payload, &w); err != nil {
		t.Fatal(err)
	}
	if w.FieldWidth != 640 || w.FieldHeight != game.FieldHeight || w.TickRate != game.TickRate || w.Codec != "msgpack" {
		t.Errorf("welcome = %+v", w)
	}
}

func TestCommandAppliedBeforeTick(t *testing.T) {
	for _, c := range []ws.Codec{ws.JSON, ws.MsgPack} {
		t.Run(c.Name(), func(t *testing.T) {
			r, conn := newTestRoom(t, c, game.DefaultConfig())

			r.handleMessage(encode(t, c, ws.MsgCommand, ws.CommandPayload{Name: "difficulty", Value: "hard"}))
			r.handleMessage(encode(t, c, ws.MsgCommand, ws.CommandPayload{Name: "start"}))
			r.tick()

			f := lastFrame(t, c, conn.take())
			if f.Phase != game.PhaseRunning || f.Difficulty != game.Hard || len(f.Balls) != 2 {
				t.Errorf("frame phase=%s difficulty=%s balls=%d", f.Phase, f.Difficulty, len(f.Balls))
			}
			if f.Tick != 1 {
				t.Errorf("tick = %d, want 1", f.Tick)
			}
		})
	}
}

func TestInputHeldAcrossTicks(t *testing.T) {
	r, conn := newTestRoom(t, ws.JSON, game.DefaultConfig())
	r.session.Start()

	r.handleMessage(encode(t, ws.JSON, ws.MsgInput, ws.InputPayload{Left: ws.PaddleKeys{Down: true}}))
	r.tick()
	r.tick()

	f := lastFrame(t, ws.JSON, conn.take())
	want := (game.FieldHeight-game.PaddleHeight)/2 + 2*game.PaddleSpeed
	if f.Left.Y != want {
		t.Errorf("left Y = %.1f, want %.1f", f.Left.Y, want)
	}
}

func TestMalformedMessagesIgnored(t *testing.T) {
	r, conn := newTestRoom(t, ws.JSON, game.DefaultConfig())

	r.handleMessage(ws.Message{Type: ws.MsgInput, Payload: []byte("[")})
	r.handleMessage(encode(t, ws.JSON, ws.MsgCommand, ws.CommandPayload{Name: "jump"}))
	r.handleMessage(encode(t, ws.JSON, ws.MsgCommand, ws.CommandPayload{Name: "mode", Value: "three"}))
	r.handleMessage(ws.Message{Type: 0x7f})

	if len(r.commands) != 0 {
		t.Errorf("%d commands queued", len(r.commands))
	}
	if msgs := conn.take(); len(msgs) != 0 {
		t.Errorf("sent %d messages in reply to garbage", len(msgs))
	}
}

func TestCommandQueueBounded(t *testing.T) {
	r, _ := newTestRoom(t, ws.JSON, game.DefaultConfig())
	msg := encode(t, ws.JSON, ws.MsgCommand, ws.CommandPayload{Name: "pause"})
	for i := 0; i < commandBuffer+5; i++ {
		r.handleMessage(msg)
	}
	if len(r.commands) != commandBuffer {
		t.Errorf("queued %d commands, want %d", len(r.commands), commandBuffer)
	}
}

func TestPingGetsPong(t *testing.T) {
	r, conn := newTestRoom(t, ws.JSON, game.DefaultConfig())
	r.tick()
	conn.take()

	r.handleMessage(encode(t, ws.JSON, ws.MsgPing, ws.PingPayload{ClientTime: 99}))

	msgs := conn.take()
	if len(msgs) != 1 || msgs[0].Type != ws.MsgPong || msgs[0].Tick != 1 {
		t.Fatalf("sent %+v", msgs)
	}
	var p ws.PongPayload
	if err := ws.JSON.Unmarshal(msgs[0].Payload, &p); err != nil {
		t.Fatal(err)
	}
	if p.ClientTime != 99 || p.ServerTime == 0 {
		t.Errorf("pong = %+v", p)
	}
}

func TestScoredAndGameOverMessages(t *testing.T) {
	r, conn := newTestRoom(t, ws.JSON, game.Config{WinScore: 1})
	r.session.Start()

	var msgs []ws.Message
	for i := 0; i < 5000 && r.session.Phase() == game.PhaseRunning; i++ {
		r.tick()
		msgs = append(msgs, conn.take()...)
	}
	if r.session.Phase() != game.PhaseOver {
		t.Fatalf("game never ended, phase %s", r.session.Phase())
	}

	var scored, over int
	var result ws.GameOverPayload
	for _, m := range msgs {
		switch m.Type {
		case ws.MsgScored:
			scored++
		case ws.MsgGameOver:
			over++
			if scored == 0 {
				t.Error("game over sent before any score")
			}
			if err := ws.JSON.Unmarshal(m.Payload, &result); err != nil {
				t.Fatal(err)
			}
		}
	}
	if scored != 1 || over != 1 {
		t.Fatalf("scored=%d over=%d, want 1 and 1", scored, over)
	}
	f := r.session.Frame()
	if result.Winner != f.Winner || result.Message != f.Message || result.Score != f.Score {
		t.Errorf("game over payload %+v does not match frame %+v", result, f)
	}
}

func TestRoomStopsWhenClientLeaves(t *testing.T) {
	r, conn := newTestRoom(t, ws.JSON, game.DefaultConfig())
	r.Start(context.Background())
	close(conn.in)

	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("room kept running after the client left")
	}
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if !conn.closed {
		t.Error("transport not closed")
	}
	if len(conn.sent) == 0 || conn.sent[0].Type != ws.MsgWelcome {
		t.Error("welcome not sent first")
	}
}

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		in   ws.CommandPayload
		want game.Command
		ok   bool
	}{
		{ws.CommandPayload{Name: "start"}, game.Command{Kind: game.CmdStart}, true},
		{ws.CommandPayload{Name: "mode", Value: "two"}, game.Command{Kind: game.CmdSetMode, Mode: game.ModeTwoPlayer}, true},
		{ws.CommandPayload{Name: "ai-difficulty", Value: "3"}, game.Command{Kind: game.CmdSetAIDifficulty, Difficulty: game.Hard}, true},
		{ws.CommandPayload{Name: "ai", Value: "ON"}, game.Command{Kind: game.CmdSetAIEnabled, Enabled: true}, true},
		{ws.CommandPayload{Name: "ai", Value: "maybe"}, game.Command{}, false},
		{ws.CommandPayload{Name: "difficulty"}, game.Command{}, false},
		{ws.CommandPayload{Name: "fly"}, game.Command{}, false},
	}
	for _, tc := range testCases {
		got, err := ParseCommand(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ParseCommand(%+v) err = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCommand(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestConfigure(t *testing.T) {
	testCases := []struct {
		name   string
		params url.Values
		mode   game.Mode
		diff   game.Difficulty
		ai     bool
		aiDiff game.Difficulty
		ok     bool
	}{
		{"empty", url.Values{}, game.ModeOnePlayer, game.Easy, false, game.Easy, true},
		{"two player hard", url.Values{"mode": {"two"}, "difficulty": {"hard"}}, game.ModeTwoPlayer, game.Hard, false, game.Easy, true},
		{"ai on", url.Values{"ai": {"on"}}, game.ModeTwoPlayer, game.Easy, true, game.Easy, true},
		{"ai level", url.Values{"mode": {"one"}, "ai": {"medium"}}, game.ModeTwoPlayer, game.Easy, true, game.Medium, true},
		{"bad mode", url.Values{"mode": {"four"}}, game.ModeOnePlayer, game.Easy, false, game.Easy, false},
		{"bad ai", url.Values{"ai": {"genius"}}, game.ModeOnePlayer, game.Easy, false, game.Easy, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := game.NewSession(game.DefaultConfig(), game.NewManualClock(time.Time{}), game.NewRand(1))
			err := Configure(s, tc.params)
			if (err == nil) != tc.ok {
				t.Fatalf("err = %v", err)
			}
			if s.Mode() != tc.mode || s.Difficulty() != tc.diff || s.AIEnabled() != tc.ai || s.AIDifficulty() != tc.aiDiff {
				t.Errorf("got %s %s ai=%v/%s", s.Mode(), s.Difficulty(), s.AIEnabled(), s.AIDifficulty())
			}
			if s.Phase() != game.PhaseIdle {
				t.Errorf("phase = %s", s.Phase())
			}
		})
	}
}
