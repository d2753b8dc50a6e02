package middleware

import (
	"net/http/httptest"
	"testing"
	"time"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func TestConnectAllowedCapsPerIP(t *testing.T) {
	rl := newLimiter(2, 10, time.Second, time.Now)

	if !rl.ConnectAllowed("1.2.3.4") || !rl.ConnectAllowed("1.2.3.4") {
		t.Fatal("first two connections rejected")
	}
	if rl.ConnectAllowed("1.2.3.4") {
		t.Error("third connection allowed")
	}
	if !rl.ConnectAllowed("5.6.7.8") {
		t.Error("other IP rejected")
	}

	rl.Disconnect("1.2.3.4")
	if !rl.ConnectAllowed("1.2.3.4") {
		t.Error("connection rejected after a disconnect")
	}
}

func TestDisconnectNeverGoesNegative(t *testing.T) {
	rl := newLimiter(1, 10, time.Second, time.Now)
	rl.Disconnect("unknown")
	rl.ConnectAllowed("a")
	rl.Disconnect("a")
	rl.Disconnect("a")
	if !rl.ConnectAllowed("a") || rl.ConnectAllowed("a") {
		t.Error("extra disconnects raised the cap")
	}
}

func TestMessageAllowedTokenBucket(t *testing.T) {
	clock := &fakeNow{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	rl := newLimiter(4, 3, time.Second, clock.now)

	for i := 0; i < 3; i++ {
		if !rl.MessageAllowed("ip") {
			t.Fatalf("message %d rejected", i+1)
		}
	}
	if rl.MessageAllowed("ip") {
		t.Error("fourth message in the window allowed")
	}

	clock.t = clock.t.Add(999 * time.Millisecond)
	if rl.MessageAllowed("ip") {
		t.Error("bucket refilled before the window ended")
	}

	// Several idle windows never overfill the bucket.
	clock.t = clock.t.Add(5 * time.Second)
	allowed := 0
	for i := 0; i < 10; i++ {
		if rl.MessageAllowed("ip") {
			allowed++
		}
	}
	if allowed != 3 {
		t.Errorf("allowed %d messages after refill, want 3", allowed)
	}
}

func TestSweepKeepsConnectedVisitors(t *testing.T) {
	rl := newLimiter(4, 3, time.Second, time.Now)
	rl.ConnectAllowed("live")
	rl.MessageAllowed("idle")

	rl.sweep()

	if _, ok := rl.visitors["live"]; !ok {
		t.Error("connected visitor swept")
	}
	if _, ok := rl.visitors["idle"]; ok {
		t.Error("idle visitor kept")
	}
}

func TestRealIP(t *testing.T) {
	testCases := []struct {
		name   string
		xff    string
		remote string
		want   string
	}{
		{"remote addr", "", "10.0.0.1:5555", "10.0.0.1"},
		{"single forwarded", "203.0.113.7", "10.0.0.1:5555", "203.0.113.7"},
		{"forwarded chain", " 203.0.113.7 , 10.0.0.2", "10.0.0.1:5555", "203.0.113.7"},
		{"empty first hop", ", 10.0.0.2", "10.0.0.1:5555", "10.0.0.1"},
		{"no port", "", "10.0.0.1", "10.0.0.1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			r.RemoteAddr = tc.remote
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if got := RealIP(r); got != tc.want {
				t.Errorf("RealIP = %q, want %q", got, tc.want)
			}
		})
	}
}
