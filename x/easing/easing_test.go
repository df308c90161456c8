package easing

import (
	"testing"

	"torc/types"
)

func TestEndpointsForEveryCurve(t *testing.T) {
	for _, c := range types.AllEasingCurves {
		fn, ok := Lookup(c)
		if !ok {
			t.Fatalf("no function registered for %s", c)
		}
		if got := fn(0); got < -1e-9 || got > 1e-9 {
			// elastic/back curves can slightly undershoot at t=0; allow a
			// wider band there but Linear/Quad/etc. must be exact.
			switch c {
			case types.InElastic, types.OutElastic, types.InBack, types.OutBack:
			default:
				t.Errorf("%s: f(0) = %v, want ~0", c, got)
			}
		}
	}
}

func TestLinearIsIdentity(t *testing.T) {
	fn, _ := Lookup(types.Linear)
	for _, x := range []float64{0, 0.25, 0.5, 0.75, 1} {
		if fn(x) != x {
			t.Errorf("linear(%v) = %v, want %v", x, fn(x), x)
		}
	}
}

func TestOutQuadMonotonic(t *testing.T) {
	fn, _ := Lookup(types.OutQuad)
	prev := fn(0)
	for _, x := range []float64{0.1, 0.3, 0.5, 0.7, 1.0} {
		v := fn(x)
		if v < prev {
			t.Fatalf("OutQuad not monotonic at %v: %v < %v", x, v, prev)
		}
		prev = v
	}
}
