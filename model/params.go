package model

// Params holds every tunable constant of the simulation. It is built once
// at startup and passed explicitly into the force model, integrator,
// predictor, and trail handling so tests can run alternate parameter sets
// without touching process-wide state.
type Params struct {
	// Gravity is the gravitational constant G.
	Gravity float64
	// CentralMass is the mass of the fixed central body.
	CentralMass float64
	// CentralRadius is the collision radius of the central body.
	CentralRadius float64
	// Center is the fixed position of the central body.
	Center Vec2

	// PerturbStrength scales the stylized tangential drift term added to
	// the inverse-square pull. Not physical; kept as a visible
	// oblateness-like effect.
	PerturbStrength float64

	// MinDist is the epsilon guarding divisions and normalizations.
	MinDist float64

	// MaxDT bounds a single integration step regardless of frame time.
	MaxDT float64
	// FallbackDT substitutes a zero or negative wall-clock delta.
	FallbackDT float64

	// OrbitSpeedScale multiplies the derived circular-orbit speed at
	// spawn. 1.0 gives an exactly circular orbit before the perturbation
	// accumulates.
	OrbitSpeedScale float64
	// SpawnMargin is the minimum clearance above the central radius
	// required for a spawn position to be accepted.
	SpawnMargin float64

	// TrailCap caps the number of retained trail points per body.
	TrailCap int
	// TrailEvictMin is the minimum block size removed from the front of
	// a trail once it exceeds TrailCap.
	TrailEvictMin int

	// PredictDT is the fixed step used for forward prediction,
	// independent of the real frame delta.
	PredictDT float64
	// PredictSteps is the iteration budget for forward prediction.
	PredictSteps int

	// EnergyEvery is the tick cadence of the diagnostic energy sample.
	EnergyEvery int
}

// DefaultParams returns the parameter set the simulator ships with.
func DefaultParams() Params {
	return Params{
		Gravity:         0.2,
		CentralMass:     5000,
		CentralRadius:   90,
		Center:          Vec2{},
		PerturbStrength: 0.00005,
		MinDist:         1e-3,
		MaxDT:           0.05,
		FallbackDT:      1.0 / 60.0,
		OrbitSpeedScale: 4.0,
		SpawnMargin:     5,
		TrailCap:        3000,
		TrailEvictMin:   16,
		PredictDT:       0.02,
		PredictSteps:    400,
		EnergyEvery:     200,
	}
}
