package ws

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/coder/websocket"
	"github.com/vladimirvolkov/emojipong/internal/middleware"
)

const maxActiveRooms = 100

// sessionParams are the query parameters a client may preset its session
// with. Everything else in the query is dropped.
var sessionParams = []string{"mode", "difficulty", "ai"}

const maxParamLen = 16

// sanitizeParams keeps the first value of each known parameter, lower-cased
// and cut to maxParamLen runes.
func sanitizeParams(q url.Values) url.Values {
	out := url.Values{}
	for _, key := range sessionParams {
		v := q.Get(key)
		if v == "" || !utf8.ValidString(v) {
			continue
		}
		runes := []rune(strings.ToLower(strings.TrimSpace(v)))
		if len(runes) > maxParamLen {
			runes = runes[:maxParamLen]
		}
		out.Set(key, string(runes))
	}
	return out
}

// RoomCreator starts a game for a freshly accepted connection.
type RoomCreator interface {
	CreateRoom(c *Conn)
}

// HubStats holds live server metrics.
type HubStats struct {
	ActiveRooms      int64  `json:"activeRooms"`
	TotalConnections uint64 `json:"totalConnections"`
}

type Hub struct {
	creator RoomCreator
	nextID  atomic.Uint64

	activeRooms      atomic.Int64
	totalConnections atomic.Uint64

	limiter        *middleware.IPRateLimiter
	originPatterns []string
}

func NewHub(creator RoomCreator, limiter *middleware.IPRateLimiter, originPatterns []string) *Hub {
	return &Hub{
		creator:        creator,
		limiter:        limiter,
		originPatterns: originPatterns,
	}
}

// Stats returns a snapshot of current server metrics.
func (h *Hub) Stats() HubStats {
	return HubStats{
		ActiveRooms:      h.activeRooms.Load(),
		TotalConnections: h.totalConnections.Load(),
	}
}

// RoomEnded decrements the active room counter. Call when a room goroutine exits.
func (h *Hub) RoomEnded() {
	h.activeRooms.Add(-1)
}

func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	codec, err := CodecByName(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ip := middleware.RealIP(r)
	if h.limiter != nil && !h.limiter.ConnectAllowed(ip) {
		http.Error(w, "too many connections", http.StatusTooManyRequests)
		return
	}

	acceptOpts := &websocket.AcceptOptions{}
	if len(h.originPatterns) > 0 {
		acceptOpts.OriginPatterns = h.originPatterns
	}

	ws, err := websocket.Accept(w, r, acceptOpts)
	if err != nil {
		if h.limiter != nil {
			h.limiter.Disconnect(ip)
		}
		log.Printf("ws accept error: %v", err)
		return
	}

	// Inputs and commands are a few dozen bytes.
	ws.SetReadLimit(1024)

	h.totalConnections.Add(1)
	id := fmt.Sprintf("player-%d", h.nextID.Add(1))
	conn := NewConn(ws, codec, id, ip, h.limiter)
	conn.Params = sanitizeParams(r.URL.Query())
	log.Printf("new connection: %s (%s) from %s (total: %d)", id, codec.Name(), ip, h.totalConnections.Load())

	// The connection outlives the request context.
	go conn.WriteLoop(context.Background())

	go func() {
		<-conn.Done()
		if h.limiter != nil {
			h.limiter.Disconnect(ip)
		}
	}()

	h.startRoom(conn)

	// Returning would tear down the hijacked connection.
	<-conn.Done()
	log.Printf("connection closed: %s", id)
}

func (h *Hub) startRoom(conn *Conn) {
	if h.activeRooms.Add(1) > maxActiveRooms {
		h.activeRooms.Add(-1)
		log.Printf("max rooms reached, rejecting %s", conn.ID)
		conn.once.Do(func() {
			close(conn.done)
			conn.ws.Close(websocket.StatusTryAgainLater, "server full")
		})
		return
	}
	log.Printf("room opened for %s (rooms: %d)", conn.ID, h.activeRooms.Load())
	h.creator.CreateRoom(conn)
}
