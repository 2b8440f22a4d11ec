package core

import "github.com/signalsfoundry/orbital-simulator/model"

// ForceModel computes the acceleration acting on a body at a given
// position.
type ForceModel interface {
	Accel(p model.Vec2) model.Vec2
}

// GravityModel is the inverse-square pull of the fixed central body plus a
// small tangential drift term.
type GravityModel struct {
	params model.Params
}

// NewGravityModel constructs a force model for the given parameter set.
func NewGravityModel(params model.Params) *GravityModel {
	return &GravityModel{params: params}
}

// Accel returns the acceleration at p. The radial magnitude is
// G*M/(r^2 + eps), directed at the center; when the position coincides with
// the center the normalize guard zeroes the radial term instead of blowing
// up. The drift term is a fixed 90-degree rotation of the radial direction
// scaled by r, a stylized J2-like effect applied the same way regardless of
// orbit direction.
func (g *GravityModel) Accel(p model.Vec2) model.Vec2 {
	toCenter := g.params.Center.Sub(p)
	dist := toCenter.Norm()
	dir := toCenter.Normalized(g.params.MinDist)

	radial := g.params.Gravity * g.params.CentralMass / (dist*dist + g.params.MinDist)
	a := dir.Scale(radial)

	tangent := dir.Tangent()
	return a.Add(tangent.Scale(g.params.PerturbStrength * dist))
}
