package core

import (
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/orbital-simulator/model"
)

// earthRadiusKm maps real orbital altitudes into world units: a body whose
// TLE puts it at radius r km ends up at world radius
// CentralRadius * r / earthRadiusKm.
const earthRadiusKm = 6371.0

// PositionFromTLE propagates a two-line element set to the given time via
// SGP4 and projects the result into the simulation plane: the world
// position lies along the equatorial projection of the propagated ECI
// vector, at the scaled orbit radius. The projection is deliberately
// stylized; it seeds plausible spawn radii, nothing more.
func PositionFromTLE(params model.Params, line1, line2 string, at time.Time) (model.Vec2, error) {
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)

	year, month, day := at.Date()
	hour, min, sec := at.Clock()
	posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)

	rKm := math.Sqrt(posECI.X*posECI.X + posECI.Y*posECI.Y + posECI.Z*posECI.Z)
	if rKm <= earthRadiusKm {
		return model.Vec2{}, fmt.Errorf("TLE propagation at %s gave radius %.1f km, inside the Earth", at.Format(time.RFC3339), rKm)
	}

	dir := model.Vec2{X: posECI.X, Y: posECI.Y}.Normalized(params.MinDist)
	if dir == (model.Vec2{}) {
		// Orbit crosses directly over a pole at this instant; pick an
		// arbitrary equatorial direction.
		dir = model.Vec2{X: 1}
	}

	worldR := params.CentralRadius * rKm / earthRadiusKm
	return params.Center.Add(dir.Scale(worldR)), nil
}
