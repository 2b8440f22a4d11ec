package model

import (
	"math"
	"testing"
)

const eps = 1e-3

func TestNormalized_UnitLength(t *testing.T) {
	cases := []Vec2{
		{X: 3, Y: 4},
		{X: -1, Y: 0},
		{X: 0.002, Y: 0},
		{X: 1e6, Y: -2e6},
	}
	for _, v := range cases {
		n := v.Normalized(eps)
		if got := n.Norm(); math.Abs(got-1) > 1e-9 {
			t.Errorf("Normalized(%+v).Norm() = %v, want 1", v, got)
		}
	}
}

func TestNormalized_ZeroGuard(t *testing.T) {
	cases := []Vec2{
		{},
		{X: eps / 2, Y: 0},
		{X: 0, Y: -eps / 2},
	}
	for _, v := range cases {
		if n := v.Normalized(eps); n != (Vec2{}) {
			t.Errorf("Normalized(%+v) = %+v, want zero vector", v, n)
		}
	}
}

func TestTangent_Perpendicular(t *testing.T) {
	v := Vec2{X: 2, Y: -5}
	tan := v.Tangent()
	if tan != (Vec2{X: 5, Y: 2}) {
		t.Fatalf("Tangent(%+v) = %+v, want (5, 2)", v, tan)
	}
	if dot := v.X*tan.X + v.Y*tan.Y; dot != 0 {
		t.Errorf("tangent not perpendicular, dot = %v", dot)
	}
}

func TestDistanceTo(t *testing.T) {
	a := Vec2{X: 1, Y: 2}
	b := Vec2{X: 4, Y: 6}
	if d := a.DistanceTo(b); math.Abs(d-5) > 1e-12 {
		t.Errorf("DistanceTo = %v, want 5", d)
	}
}
