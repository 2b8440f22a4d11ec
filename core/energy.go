package core

import (
	"context"
	"math"

	"github.com/signalsfoundry/orbital-simulator/internal/logging"
	"github.com/signalsfoundry/orbital-simulator/model"
)

// SpecificEnergy returns the total specific mechanical energy of a body:
// kinetic plus potential per unit mass. For a circular orbit of radius r it
// evaluates to -G*M/(2r), which makes it a useful orbit-stability
// diagnostic.
func SpecificEnergy(params model.Params, pos, vel model.Vec2) float64 {
	r := math.Max(pos.DistanceTo(params.Center), params.MinDist)
	kinetic := 0.5 * (vel.X*vel.X + vel.Y*vel.Y)
	potential := -params.Gravity * params.CentralMass / r
	return kinetic + potential
}

// EnergySampler emits the primary body's specific energy on a fixed tick
// cadence. The cadence comes from Params and the tick counter is passed in
// explicitly; the sampler itself holds no mutable state and never feeds
// back into the simulation.
type EnergySampler struct {
	params model.Params
	log    logging.Logger
}

// NewEnergySampler constructs a sampler logging through log.
func NewEnergySampler(params model.Params, log logging.Logger) *EnergySampler {
	if log == nil {
		log = logging.Noop()
	}
	return &EnergySampler{params: params, log: log}
}

// Sample computes and logs the energy when tick falls on the cadence. It
// returns the value and whether it was emitted.
func (s *EnergySampler) Sample(ctx context.Context, tick int, b *model.Body) (float64, bool) {
	if s.params.EnergyEvery <= 0 || tick%s.params.EnergyEvery != 0 {
		return 0, false
	}
	e := SpecificEnergy(s.params, b.Position, b.Velocity)
	s.log.Info(ctx, "energy sample",
		logging.String("body", b.ID),
		logging.Int("tick", tick),
		logging.Float64("energy", e),
	)
	return e, true
}
