// Package stream exposes the simulation state to external renderers over
// WebSocket and feeds their spawn requests back into the tick loop.
//
// The engine stays single-threaded: Broadcast and DrainSpawns are called
// from the goroutine that owns the engine, while each client connection
// reads on its own goroutine and communicates only through a channel.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/signalsfoundry/orbital-simulator/core"
	"github.com/signalsfoundry/orbital-simulator/internal/logging"
	"github.com/signalsfoundry/orbital-simulator/model"
)

const writeTimeout = 2 * time.Second

// Frame is the per-tick snapshot sent to clients.
type Frame struct {
	Tick      int          `json:"tick"`
	DT        float64      `json:"dt"`
	Bodies    []FrameBody  `json:"bodies"`
	Predicted [][2]float64 `json:"predicted,omitempty"`
}

// FrameBody is one body within a frame.
type FrameBody struct {
	ID    string       `json:"id"`
	X     float64      `json:"x"`
	Y     float64      `json:"y"`
	Trail [][2]float64 `json:"trail,omitempty"`
}

// clientMessage is what clients may send upstream.
type clientMessage struct {
	Type string  `json:"type"` // currently only "spawn"
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Server upgrades HTTP connections to WebSocket, broadcasts frames, and
// queues spawn requests for the simulation loop to drain.
type Server struct {
	log      logging.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}

	spawnCh    chan model.Vec2
	spawnRate  rate.Limit
	spawnBurst int
}

// NewServer constructs a stream server. Spawn requests are rate-limited
// per connection so a misbehaving client cannot flood the simulation.
func NewServer(log logging.Logger) *Server {
	if log == nil {
		log = logging.Noop()
	}
	return &Server{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns:      make(map[*websocket.Conn]struct{}),
		spawnCh:    make(chan model.Vec2, 64),
		spawnRate:  rate.Limit(4),
		spawnBurst: 8,
	}
}

// ServeHTTP upgrades the request and starts the client's read loop.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn(r.Context(), "websocket upgrade failed", logging.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	s.conns[conn] = struct{}{}
	n := len(s.conns)
	s.mu.Unlock()

	s.log.Info(r.Context(), "stream client connected",
		logging.String("remote", conn.RemoteAddr().String()),
		logging.Int("clients", n),
	)
	go s.readLoop(conn)
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// DrainSpawns returns the spawn positions received since the last call.
// The simulation loop calls it once per tick before advancing the engine.
func (s *Server) DrainSpawns() []model.Vec2 {
	var out []model.Vec2
	for {
		select {
		case p := <-s.spawnCh:
			out = append(out, p)
		default:
			return out
		}
	}
}

// Broadcast sends the tick's frame to every connected client. Clients
// whose writes fail are dropped.
func (s *Server) Broadcast(res core.TickResult, predicted []model.Vec2) {
	payload, err := json.Marshal(buildFrame(res, predicted))
	if err != nil {
		s.log.Error(context.Background(), "frame marshal failed", logging.String("error", err.Error()))
		return
	}

	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.drop(c)
		}
	}
}

func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.drop(conn)

	limiter := rate.NewLimiter(s.spawnRate, s.spawnBurst)
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type != "spawn" {
			continue
		}
		if !limiter.Allow() {
			s.log.Debug(context.Background(), "spawn request rate-limited",
				logging.String("remote", conn.RemoteAddr().String()))
			continue
		}
		select {
		case s.spawnCh <- model.Vec2{X: msg.X, Y: msg.Y}:
		default:
			// Queue full; the request is dropped and the client can retry.
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	_, present := s.conns[conn]
	delete(s.conns, conn)
	s.mu.Unlock()

	if present {
		_ = conn.Close()
	}
}

func buildFrame(res core.TickResult, predicted []model.Vec2) Frame {
	frame := Frame{
		Tick:      res.Tick,
		DT:        res.DT,
		Bodies:    make([]FrameBody, 0, len(res.Bodies)),
		Predicted: toPairs(predicted),
	}
	for _, b := range res.Bodies {
		frame.Bodies = append(frame.Bodies, FrameBody{
			ID:    b.ID,
			X:     b.Position.X,
			Y:     b.Position.Y,
			Trail: toPairs(b.Trail),
		})
	}
	return frame
}

func toPairs(pts []model.Vec2) [][2]float64 {
	if len(pts) == 0 {
		return nil
	}
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}
