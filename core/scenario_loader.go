package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/signalsfoundry/orbital-simulator/model"
)

// Scenario is the result of loading a scenario file: a resolved parameter
// set and the initial bodies to seed.
type Scenario struct {
	Name   string
	Params model.Params
	Bodies []SpawnSpec
}

// SpawnSpec describes one initial body. A nil Velocity means "derive the
// circular-orbit velocity at spawn".
type SpawnSpec struct {
	ID       string
	Position model.Vec2
	Velocity *model.Vec2
}

// internal JSON shapes – kept unexported so we're free to evolve them.
type scenarioJSON struct {
	Name   string      `json:"name"`
	Epoch  string      `json:"epoch"` // RFC3339; used for TLE-seeded bodies
	Params *paramsJSON `json:"params"`
	Bodies []bodyJSON  `json:"bodies"`
}

type paramsJSON struct {
	Gravity         *float64 `json:"gravity"`
	CentralMass     *float64 `json:"central_mass"`
	CentralRadius   *float64 `json:"central_radius"`
	PerturbStrength *float64 `json:"perturb_strength"`
	OrbitSpeedScale *float64 `json:"orbit_speed_scale"`
	SpawnMargin     *float64 `json:"spawn_margin"`
	MaxDT           *float64 `json:"max_dt"`
	TrailCap        *int     `json:"trail_cap"`
	PredictDT       *float64 `json:"predict_dt"`
	PredictSteps    *int     `json:"predict_steps"`
	EnergyEvery     *int     `json:"energy_every"`
}

type bodyJSON struct {
	ID       string      `json:"id"`
	Position *[2]float64 `json:"position"`
	Velocity *[2]float64 `json:"velocity"` // optional; omitted means auto-orbit
	TLE      []string    `json:"tle"`      // optional; two lines, position derived via SGP4
}

// LoadScenario reads a JSON scenario from r. It fails only on JSON or
// structural errors; physically questionable bodies (too close to the
// center) are left for the engine's spawn rule to reject at seed time.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	params := model.DefaultParams()
	applyParamOverrides(&params, payload.Params)

	epoch := time.Now().UTC()
	if payload.Epoch != "" {
		t, err := time.Parse(time.RFC3339, payload.Epoch)
		if err != nil {
			return nil, fmt.Errorf("LoadScenario: bad epoch %q: %w", payload.Epoch, err)
		}
		epoch = t
	}

	sc := &Scenario{
		Name:   payload.Name,
		Params: params,
		Bodies: make([]SpawnSpec, 0, len(payload.Bodies)),
	}

	for i, jb := range payload.Bodies {
		spec := SpawnSpec{ID: jb.ID}

		switch {
		case len(jb.TLE) == 2:
			pos, err := PositionFromTLE(params, jb.TLE[0], jb.TLE[1], epoch)
			if err != nil {
				return nil, fmt.Errorf("LoadScenario: body %d: %w", i, err)
			}
			spec.Position = pos
		case jb.Position != nil:
			spec.Position = model.Vec2{X: jb.Position[0], Y: jb.Position[1]}
		default:
			return nil, fmt.Errorf("LoadScenario: body %d has neither position nor tle", i)
		}

		if jb.Velocity != nil {
			v := model.Vec2{X: jb.Velocity[0], Y: jb.Velocity[1]}
			spec.Velocity = &v
		}
		sc.Bodies = append(sc.Bodies, spec)
	}

	return sc, nil
}

// Seed inserts the scenario's bodies into the engine and returns how many
// were accepted. Bodies rejected by the spawn clearance rule are skipped,
// matching the interactive spawn behaviour.
func (sc *Scenario) Seed(ctx context.Context, e *Engine) int {
	accepted := 0
	for _, spec := range sc.Bodies {
		var ok bool
		if spec.Velocity != nil {
			_, ok = e.AddBody(ctx, spec.ID, spec.Position, *spec.Velocity)
		} else {
			_, ok = e.SpawnWithID(ctx, spec.ID, spec.Position)
		}
		if ok {
			accepted++
		}
	}
	return accepted
}

func applyParamOverrides(p *model.Params, o *paramsJSON) {
	if o == nil {
		return
	}
	if o.Gravity != nil {
		p.Gravity = *o.Gravity
	}
	if o.CentralMass != nil {
		p.CentralMass = *o.CentralMass
	}
	if o.CentralRadius != nil {
		p.CentralRadius = *o.CentralRadius
	}
	if o.PerturbStrength != nil {
		p.PerturbStrength = *o.PerturbStrength
	}
	if o.OrbitSpeedScale != nil {
		p.OrbitSpeedScale = *o.OrbitSpeedScale
	}
	if o.SpawnMargin != nil {
		p.SpawnMargin = *o.SpawnMargin
	}
	if o.MaxDT != nil {
		p.MaxDT = *o.MaxDT
	}
	if o.TrailCap != nil {
		p.TrailCap = *o.TrailCap
	}
	if o.PredictDT != nil {
		p.PredictDT = *o.PredictDT
	}
	if o.PredictSteps != nil {
		p.PredictSteps = *o.PredictSteps
	}
	if o.EnergyEvery != nil {
		p.EnergyEvery = *o.EnergyEvery
	}
}
