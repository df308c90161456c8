package controls

import (
	"testing"

	"torc/types"
)

func snap(order []string, values map[string]float64, last map[string]float64) Snapshot {
	if last == nil {
		last = map[string]float64{}
	}
	return Snapshot{Order: order, Values: values, Last: last, AllValid: true}
}

func TestLogicPassthroughSingleAndProduct(t *testing.T) {
	l := &Logic{op: "NoOperation"}

	single := snap([]string{"a"}, map[string]float64{"a": 0.42}, nil)
	if got := l.Calculate(single, 0); got != 0.42 {
		t.Fatalf("single passthrough = %v, want 0.42", got)
	}

	multi := snap([]string{"a", "b"}, map[string]float64{"a": 0.5, "b": 0.5}, nil)
	if got := l.Calculate(multi, 0); got != 0.25 {
		t.Fatalf("product passthrough = %v, want 0.25 (documented multiplication behavior)", got)
	}
}

func TestLogicEqualFuzzy(t *testing.T) {
	l := &Logic{op: "Equal", operationValue: 1.0}
	s := snap([]string{"a"}, map[string]float64{"a": 1.0000000001}, nil)
	if got := l.Calculate(s, 0); got != 1 {
		t.Fatalf("Equal(1.0000000001, 1.0) = %v, want 1 (fuzzy match)", got)
	}
}

func TestLogicAnyAll(t *testing.T) {
	any := &Logic{op: "Any"}
	all := &Logic{op: "All"}

	zeros := snap([]string{"a", "b"}, map[string]float64{"a": 0, "b": 0}, nil)
	if got := any.Calculate(zeros, 0); got != 0 {
		t.Fatalf("Any(0,0) = %v, want 0", got)
	}
	if got := all.Calculate(zeros, 0); got != 0 {
		t.Fatalf("All(0,0) = %v, want 0", got)
	}

	mixed := snap([]string{"a", "b"}, map[string]float64{"a": 1, "b": 0}, nil)
	if got := any.Calculate(mixed, 0); got != 1 {
		t.Fatalf("Any(1,0) = %v, want 1", got)
	}
	if got := all.Calculate(mixed, 0); got != 0 {
		t.Fatalf("All(1,0) = %v, want 0", got)
	}

	ones := snap([]string{"a", "b"}, map[string]float64{"a": 1, "b": 1}, nil)
	if got := all.Calculate(ones, 0); got != 1 {
		t.Fatalf("All(1,1) = %v, want 1", got)
	}
}

func TestLogicAverage(t *testing.T) {
	l := &Logic{op: "Average"}
	s := snap([]string{"a", "b", "c"}, map[string]float64{"a": 0.1, "b": 0.5, "c": 0.9}, nil)
	got := l.Calculate(s, 0)
	if got < 0.5-1e-9 || got > 0.5+1e-9 {
		t.Fatalf("Average = %v, want 0.5", got)
	}
}

func TestLogicToggleRisingEdge(t *testing.T) {
	l := &Logic{op: "Toggle"}

	// previous < 1.0 && current >= 1.0 is a rising edge: flip.
	s1 := snap([]string{"btn"}, map[string]float64{"btn": 1.0}, map[string]float64{"btn": 0.9})
	v := l.Calculate(s1, 0)
	if v != 1 {
		t.Fatalf("first rising edge: got %v, want 1", v)
	}

	// no edge (both >= 1.0): hold.
	s2 := snap([]string{"btn"}, map[string]float64{"btn": 1.0}, map[string]float64{"btn": 1.0})
	v = l.Calculate(s2, v)
	if v != 1 {
		t.Fatalf("no edge should hold: got %v, want 1", v)
	}

	// second rising edge: flip back.
	s3 := snap([]string{"btn"}, map[string]float64{"btn": 1.0}, map[string]float64{"btn": 0.5})
	v = l.Calculate(s3, v)
	if v != 0 {
		t.Fatalf("second rising edge: got %v, want 0", v)
	}
}

func TestLogicComparisonOps(t *testing.T) {
	cases := []struct {
		op   string
		in   float64
		opv  float64
		want float64
	}{
		{"LessThan", 0.4, 0.5, 1},
		{"LessThan", 0.5, 0.5, 0},
		{"LessThanOrEqual", 0.5, 0.5, 1},
		{"GreaterThan", 0.6, 0.5, 1},
		{"GreaterThanOrEqual", 0.5, 0.5, 1},
	}
	for _, c := range cases {
		l := &Logic{op: types.LogicOperation(c.op), operationValue: c.opv}
		s := snap([]string{"a"}, map[string]float64{"a": c.in}, nil)
		if got := l.Calculate(s, 0); got != c.want {
			t.Errorf("%s(%v,%v) = %v, want %v", c.op, c.in, c.opv, got, c.want)
		}
	}
}
