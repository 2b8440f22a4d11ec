package core

import (
	"context"
	"math"
	"testing"

	"github.com/signalsfoundry/orbital-simulator/internal/logging"
	"github.com/signalsfoundry/orbital-simulator/model"
)

// A body spawned on a circular orbit at radius r0 with speed scale 1 must
// start at the analytic circular-orbit energy -G*M/(2*r0).
func TestSpecificEnergy_CircularSpawn(t *testing.T) {
	params := model.DefaultParams()
	params.OrbitSpeedScale = 1

	e := NewEngine(params, logging.Noop())
	b, ok := e.Spawn(context.Background(), model.Vec2{X: 350, Y: 0})
	if !ok {
		t.Fatal("spawn at r=350 unexpectedly rejected")
	}

	got := SpecificEnergy(params, b.Position, b.Velocity)
	want := -params.Gravity * params.CentralMass / (2 * 350)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("circular-orbit energy = %v, want %v", got, want)
	}
}

func TestEnergySampler_Cadence(t *testing.T) {
	params := model.DefaultParams()
	params.EnergyEvery = 3
	s := NewEnergySampler(params, logging.Noop())

	b := &model.Body{ID: "sat-1", Position: model.Vec2{X: 350}, Velocity: model.Vec2{Y: 1.5}, Alive: true}

	emitted := 0
	for tick := 1; tick <= 9; tick++ {
		if _, ok := s.Sample(context.Background(), tick, b); ok {
			emitted++
		}
	}
	if emitted != 3 {
		t.Errorf("emitted %d samples over 9 ticks at cadence 3, want 3", emitted)
	}
}

func TestEnergySampler_DisabledCadence(t *testing.T) {
	params := model.DefaultParams()
	params.EnergyEvery = 0
	s := NewEnergySampler(params, logging.Noop())

	b := &model.Body{ID: "sat-1", Position: model.Vec2{X: 350}, Alive: true}
	if _, ok := s.Sample(context.Background(), 200, b); ok {
		t.Error("cadence 0 should never emit")
	}
}
