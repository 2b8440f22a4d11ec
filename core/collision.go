package core

import "github.com/signalsfoundry/orbital-simulator/model"

// HitsCenter reports whether a body at pos has reached the central body.
// The same test culls live bodies and truncates predicted paths.
func HitsCenter(pos model.Vec2, params model.Params) bool {
	return pos.DistanceTo(params.Center) <= params.CentralRadius
}
