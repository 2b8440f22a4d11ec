package core

import "github.com/signalsfoundry/orbital-simulator/model"

// OrbitPredictor runs a detached copy of a body's state forward at a fixed
// step, producing the polyline a renderer draws as the expected orbit. The
// prediction step is configuration, not wall time, so two calls with the
// same inputs yield the same path.
type OrbitPredictor struct {
	params model.Params
	force  ForceModel
}

// NewOrbitPredictor constructs a predictor sharing the engine's force model.
func NewOrbitPredictor(params model.Params, force ForceModel) *OrbitPredictor {
	return &OrbitPredictor{params: params, force: force}
}

// Predict integrates up to PredictSteps steps of PredictDT from the given
// state. The collision test runs before each step, so the path stops short
// of the central body; a state already inside it yields an empty path.
func (op *OrbitPredictor) Predict(pos, vel model.Vec2) []model.Vec2 {
	k := Kinematics{Pos: pos, Vel: vel}
	path := make([]model.Vec2, 0, op.params.PredictSteps)

	for i := 0; i < op.params.PredictSteps; i++ {
		if HitsCenter(k.Pos, op.params) {
			break
		}
		Step(op.force, &k, op.params.PredictDT)
		path = append(path, k.Pos)
	}
	return path
}
