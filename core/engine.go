package core

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/signalsfoundry/orbital-simulator/internal/logging"
	"github.com/signalsfoundry/orbital-simulator/model"
)

// MetricsRecorder receives engine-level measurements. The observability
// package satisfies it; a nil recorder disables recording.
type MetricsRecorder interface {
	ObserveTick(seconds float64, activeBodies int)
	AddCollisions(n int)
	IncSpawns(accepted bool)
	SetEnergy(e float64)
}

// BodySnapshot is the per-body view handed to external consumers
// (renderers, stream clients) after a tick.
type BodySnapshot struct {
	ID       string
	Position model.Vec2
	Velocity model.Vec2
	Alive    bool
	Trail    []model.Vec2
}

// TickResult summarizes one simulation step.
type TickResult struct {
	Tick   int
	DT     float64
	Bodies []BodySnapshot
}

// Engine owns the active body collection and advances it one step per Tick
// call. It is single-threaded by design: exactly one goroutine may call its
// methods, and nothing inside a tick blocks or yields.
type Engine struct {
	params    model.Params
	force     ForceModel
	predictor *OrbitPredictor
	sampler   *EnergySampler
	log       logging.Logger
	metrics   MetricsRecorder

	bodies    []*model.Body
	tickCount int
	nextID    int

	tickListeners []func(int)
}

// NewEngine constructs an engine with the given parameter set.
func NewEngine(params model.Params, log logging.Logger) *Engine {
	if log == nil {
		log = logging.Noop()
	}
	force := NewGravityModel(params)
	return &Engine{
		params:    params,
		force:     force,
		predictor: NewOrbitPredictor(params, force),
		sampler:   NewEnergySampler(params, log),
		log:       log,
	}
}

// SetMetricsRecorder wires a metrics sink. Safe to leave unset.
func (e *Engine) SetMetricsRecorder(m MetricsRecorder) { e.metrics = m }

// RegisterTickListener registers a callback invoked with the tick counter
// at the end of every tick.
func (e *Engine) RegisterTickListener(fn func(int)) {
	e.tickListeners = append(e.tickListeners, fn)
}

// Params returns the engine's immutable parameter set.
func (e *Engine) Params() model.Params { return e.params }

// ActiveBodies returns the number of live bodies.
func (e *Engine) ActiveBodies() int { return len(e.bodies) }

// Spawn creates a body on a locally-circular orbit at pos. The derived
// speed is sqrt(G*M/r) scaled by OrbitSpeedScale, directed along the
// tangent of the radius at that point. Requests closer to the center than
// CentralRadius+SpawnMargin are rejected; rejection is an expected outcome,
// not an error.
func (e *Engine) Spawn(ctx context.Context, pos model.Vec2) (*model.Body, bool) {
	return e.SpawnWithID(ctx, "", pos)
}

// SpawnWithID is Spawn with a caller-chosen ID, used when seeding
// scenarios. An empty id gets an auto-assigned one.
func (e *Engine) SpawnWithID(ctx context.Context, id string, pos model.Vec2) (*model.Body, bool) {
	r := pos.DistanceTo(e.params.Center)
	if r <= e.params.CentralRadius+e.params.SpawnMargin {
		e.log.Debug(ctx, "spawn rejected, too close to central body",
			logging.Float64("distance", r))
		if e.metrics != nil {
			e.metrics.IncSpawns(false)
		}
		return nil, false
	}

	dir := pos.Sub(e.params.Center).Normalized(e.params.MinDist)
	speed := math.Sqrt(e.params.Gravity*e.params.CentralMass/math.Max(r, e.params.MinDist)) *
		e.params.OrbitSpeedScale

	return e.insert(ctx, id, pos, dir.Tangent().Scale(speed)), true
}

// AddBody inserts a body with an explicit initial velocity, bypassing the
// circular-orbit derivation but not the spawn clearance rule. An empty id
// gets an auto-assigned one.
func (e *Engine) AddBody(ctx context.Context, id string, pos, vel model.Vec2) (*model.Body, bool) {
	if pos.DistanceTo(e.params.Center) <= e.params.CentralRadius+e.params.SpawnMargin {
		if e.metrics != nil {
			e.metrics.IncSpawns(false)
		}
		return nil, false
	}
	return e.insert(ctx, id, pos, vel), true
}

func (e *Engine) insert(ctx context.Context, id string, pos, vel model.Vec2) *model.Body {
	if id == "" {
		e.nextID++
		id = fmt.Sprintf("sat-%d", e.nextID)
	}
	b := &model.Body{
		ID:       id,
		Position: pos,
		Velocity: vel,
		Alive:    true,
	}
	e.bodies = append(e.bodies, b)
	e.log.Info(ctx, "body spawned",
		logging.String("body", b.ID),
		logging.Float64("x", pos.X),
		logging.Float64("y", pos.Y),
	)
	if e.metrics != nil {
		e.metrics.IncSpawns(true)
	}
	return b
}

// Tick advances the simulation one step. dtRaw is the unclamped wall-clock
// delta; a zero or negative value falls back to FallbackDT and the result
// is clamped into [MinDist, MaxDT] so a stalled clock can never destabilize
// the integration.
func (e *Engine) Tick(ctx context.Context, dtRaw float64) TickResult {
	start := time.Now()
	dt := e.clampDT(dtRaw)
	e.tickCount++

	// Mark phase: integrate, then collision-test. Bodies are only flagged
	// here; the compact phase below filters the slice, so iteration never
	// deletes under its own feet.
	collided := 0
	for _, b := range e.bodies {
		k := Kinematics{Pos: b.Position, Vel: b.Velocity}
		Step(e.force, &k, dt)
		b.Position, b.Velocity = k.Pos, k.Vel

		if HitsCenter(b.Position, e.params) {
			b.Alive = false
			collided++
		}
	}

	// Compact phase: retain live bodies in place.
	if collided > 0 {
		live := e.bodies[:0]
		for _, b := range e.bodies {
			if b.Alive {
				live = append(live, b)
			} else {
				e.log.Info(ctx, "body collided with central body",
					logging.String("body", b.ID),
					logging.Int("tick", e.tickCount),
				)
			}
		}
		for i := len(live); i < len(e.bodies); i++ {
			e.bodies[i] = nil
		}
		e.bodies = live
		if e.metrics != nil {
			e.metrics.AddCollisions(collided)
		}
	}

	// Trails record survivors only.
	for _, b := range e.bodies {
		b.Trail.Append(b.Position, e.params.TrailCap, e.params.TrailEvictMin)
	}

	// Diagnostic energy sample for the primary body, on cadence.
	if len(e.bodies) > 0 {
		if en, ok := e.sampler.Sample(ctx, e.tickCount, e.bodies[0]); ok && e.metrics != nil {
			e.metrics.SetEnergy(en)
		}
	}

	if e.metrics != nil {
		e.metrics.ObserveTick(time.Since(start).Seconds(), len(e.bodies))
	}
	for _, fn := range e.tickListeners {
		fn(e.tickCount)
	}

	return TickResult{Tick: e.tickCount, DT: dt, Bodies: e.snapshots()}
}

// PredictedPath returns the predicted polyline for the primary body (index
// 0), recomputed from its current state on every call. Nil when no bodies
// are active.
func (e *Engine) PredictedPath() []model.Vec2 {
	if len(e.bodies) == 0 {
		return nil
	}
	b := e.bodies[0]
	return e.predictor.Predict(b.Position, b.Velocity)
}

func (e *Engine) clampDT(dtRaw float64) float64 {
	dt := dtRaw
	if dt <= 0 {
		dt = e.params.FallbackDT
	}
	if dt < e.params.MinDist {
		dt = e.params.MinDist
	}
	if dt > e.params.MaxDT {
		dt = e.params.MaxDT
	}
	return dt
}

func (e *Engine) snapshots() []BodySnapshot {
	out := make([]BodySnapshot, 0, len(e.bodies))
	for _, b := range e.bodies {
		out = append(out, BodySnapshot{
			ID:       b.ID,
			Position: b.Position,
			Velocity: b.Velocity,
			Alive:    b.Alive,
			Trail:    b.Trail.Points(),
		})
	}
	return out
}
