package model

// Body is a point-mass satellite orbiting the fixed central body. Bodies do
// not attract each other; only the central field acts on them.
type Body struct {
	ID       string
	Position Vec2
	Velocity Vec2
	Trail    Trail

	// Alive flips to false exactly once, on the tick the body's distance
	// to the center first drops to the central radius. Dead bodies are
	// purged before the next physics pass.
	Alive bool
}

// Trail is the bounded history of a body's past positions, oldest first.
// It exists for visualization and diagnostics, not for physics.
type Trail struct {
	pts []Vec2
}

// Append pushes the newest point. Once the trail exceeds capacity, a block
// of at least minBlock oldest points is dropped in one go; evicting in
// blocks keeps the amortized cost of the front removal away from the
// per-frame path.
func (t *Trail) Append(p Vec2, capacity, minBlock int) {
	t.pts = append(t.pts, p)
	if len(t.pts) > capacity {
		remove := len(t.pts) - capacity
		if remove < minBlock {
			remove = minBlock
		}
		if remove > len(t.pts) {
			remove = len(t.pts)
		}
		t.pts = t.pts[remove:]
	}
}

// Len returns the number of retained points.
func (t *Trail) Len() int { return len(t.pts) }

// Points returns a copy of the retained points, oldest first.
func (t *Trail) Points() []Vec2 {
	out := make([]Vec2, len(t.pts))
	copy(out, t.pts)
	return out
}
