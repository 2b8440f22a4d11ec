package tests

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/signalsfoundry/orbital-simulator/core"
	"github.com/signalsfoundry/orbital-simulator/internal/logging"
	"github.com/signalsfoundry/orbital-simulator/internal/stream"
	"github.com/signalsfoundry/orbital-simulator/model"
	"github.com/signalsfoundry/orbital-simulator/timectrl"
)

type wsFrame struct {
	Tick   int     `json:"tick"`
	DT     float64 `json:"dt"`
	Bodies []struct {
		ID string  `json:"id"`
		X  float64 `json:"x"`
		Y  float64 `json:"y"`
	} `json:"bodies"`
	Predicted [][2]float64 `json:"predicted"`
}

type streamTestEnv struct {
	ctx    context.Context
	cancel context.CancelFunc
	engine *core.Engine
	server *stream.Server
	http   *httptest.Server
	done   <-chan struct{}
}

// newStreamTestEnv wires the engine, websocket server, and a real-time
// driver the same way cmd/simulator does, bounded to simDuration. Real-time
// mode keeps frames flowing while the client reads; context cancellation in
// Cleanup stops the driver early.
func newStreamTestEnv(t *testing.T, simDuration time.Duration) *streamTestEnv {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	params := model.DefaultParams()
	engine := core.NewEngine(params, logging.Noop())
	if _, ok := engine.Spawn(ctx, model.Vec2{X: 350, Y: 0}); !ok {
		cancel()
		t.Fatalf("starter spawn rejected")
	}

	server := stream.NewServer(logging.Noop())
	httpSrv := httptest.NewServer(server)

	driver := timectrl.NewDriver(10*time.Millisecond, timectrl.RealTime)
	driver.AddListener(func(dt float64) {
		for _, pos := range server.DrainSpawns() {
			engine.Spawn(ctx, pos)
		}
		res := engine.Tick(ctx, dt)
		server.Broadcast(res, engine.PredictedPath())
	})
	done := driver.Start(ctx, simDuration)

	env := &streamTestEnv{
		ctx:    ctx,
		cancel: cancel,
		engine: engine,
		server: server,
		http:   httpSrv,
		done:   done,
	}
	t.Cleanup(func() {
		cancel()
		<-done
		httpSrv.Close()
	})
	return env
}

func (env *streamTestEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(env.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("SetReadDeadline: %v", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var f wsFrame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func TestEndToEndStreamDeliversFrames(t *testing.T) {
	env := newStreamTestEnv(t, 5*time.Second)
	conn := env.dial(t)

	first := readFrame(t, conn)
	if len(first.Bodies) != 1 {
		t.Fatalf("expected 1 body in first frame, got %d", len(first.Bodies))
	}
	if first.Bodies[0].ID == "" {
		t.Fatalf("body ID missing in frame")
	}
	if len(first.Predicted) == 0 {
		t.Fatalf("expected a predicted path in the frame")
	}

	second := readFrame(t, conn)
	if second.Tick <= first.Tick {
		t.Fatalf("tick did not advance: %d then %d", first.Tick, second.Tick)
	}
	if second.Bodies[0].X == first.Bodies[0].X && second.Bodies[0].Y == first.Bodies[0].Y {
		t.Fatalf("satellite did not move between frames")
	}
}

func TestEndToEndClientSpawnAppearsInFrames(t *testing.T) {
	env := newStreamTestEnv(t, 5*time.Second)
	conn := env.dial(t)

	msg := map[string]any{"type": "spawn", "x": 650.0, "y": 300.0}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		f := readFrame(t, conn)
		if len(f.Bodies) == 2 {
			return
		}
	}
	t.Fatalf("spawned satellite never showed up in the stream")
}

func TestEndToEndSpawnInsideClearanceIsRejected(t *testing.T) {
	env := newStreamTestEnv(t, 3*time.Second)
	conn := env.dial(t)

	// Dead center of the planet; the engine must refuse it.
	msg := map[string]any{"type": "spawn", "x": 0.0, "y": 0.0}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	for i := 0; i < 20; i++ {
		f := readFrame(t, conn)
		if len(f.Bodies) != 1 {
			t.Fatalf("rejected spawn leaked into the stream: %d bodies", len(f.Bodies))
		}
	}
}
