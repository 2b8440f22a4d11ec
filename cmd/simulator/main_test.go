package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/signalsfoundry/orbital-simulator/internal/logging"
)

func TestRun_AcceleratedHeadless(t *testing.T) {
	opts := options{
		duration:    500 * time.Millisecond,
		tick:        10 * time.Millisecond,
		accelerated: true,
		listenAddr:  "", // no sockets in tests
	}

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), logging.Noop(), opts) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("accelerated run did not finish")
	}
}

func TestBuildEngine_FromScenarioFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.json")
	doc := `{
		"name": "test",
		"params": {"orbit_speed_scale": 1},
		"bodies": [{"id": "a", "position": [350, 0]}]
	}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	engine, err := buildEngine(context.Background(), logging.Noop(), nil, path)
	if err != nil {
		t.Fatalf("buildEngine: %v", err)
	}
	if engine.ActiveBodies() != 1 {
		t.Errorf("active bodies = %d, want 1", engine.ActiveBodies())
	}
	if engine.Params().OrbitSpeedScale != 1 {
		t.Errorf("scenario params not applied")
	}
}

func TestBuildEngine_MissingScenario(t *testing.T) {
	if _, err := buildEngine(context.Background(), logging.Noop(), nil, "does-not-exist.json"); err == nil {
		t.Error("missing scenario file did not error")
	}
}
