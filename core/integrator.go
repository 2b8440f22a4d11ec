package core

import "github.com/signalsfoundry/orbital-simulator/model"

// Kinematics is the integrable state of one body. Prediction runs on a
// value copy of it, so the live body is never aliased.
type Kinematics struct {
	Pos model.Vec2
	Vel model.Vec2
}

// Step advances k by dt using semi-implicit Euler: the velocity picks up
// the acceleration first, and the position then moves with the updated
// velocity. dt is assumed clamped by the caller.
func Step(f ForceModel, k *Kinematics, dt float64) {
	a := f.Accel(k.Pos)
	k.Vel = k.Vel.Add(a.Scale(dt))
	k.Pos = k.Pos.Add(k.Vel.Scale(dt))
}
