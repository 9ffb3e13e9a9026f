package sweep

import (
	"fmt"
	"reflect"
	"testing"
)

func collect(sp *Space) []Point {
	var points []Point
	for sp.HasNext() {
		points = append(points, sp.Next())
	}
	return points
}

func TestSpace_Count(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"Singleton", "kT = 1", 1},
		{"OneRange", "kT : 1 5 1", 5},
		{"TwoLabels", "kT : 1 5 1\nB_z { 0.1 0.2 0.3 }", 15},
		{"CoupledLabel", "kT : 1 4 1\nFL f { 1 2 }\nFR f { 3 4 }", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sp := mustParse(t, tt.input).Space()
			if got := sp.Count(); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
			if got := len(collect(sp)); got != tt.want {
				t.Errorf("enumerated %d points, want %d", got, tt.want)
			}
		})
	}
}

func TestSpace_OdometerOrder(t *testing.T) {
	t.Parallel()

	// kT is declared first, so it must vary fastest.
	sp := mustParse(t, "kT { 1 2 3 }\nB_z { 10 20 }").Space()
	points := collect(sp)

	want := []Point{
		{"kT": 1, "B_z": 10},
		{"kT": 2, "B_z": 10},
		{"kT": 3, "B_z": 10},
		{"kT": 1, "B_z": 20},
		{"kT": 2, "B_z": 20},
		{"kT": 3, "B_z": 20},
	}
	if len(points) != len(want) {
		t.Fatalf("enumerated %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(points[i], want[i]) {
			t.Errorf("point %d = %v, want %v", i, points[i], want[i])
		}
	}
}

func TestSpace_CoupledParamsMoveInLockstep(t *testing.T) {
	t.Parallel()

	sp := mustParse(t, "FL f { 1 2 3 }\nFR f { 10 20 30 }").Space()
	for sp.HasNext() {
		p := sp.Next()
		if p["FR"] != p["FL"]*10 {
			t.Errorf("FL=%v FR=%v: coupled parameters out of lockstep", p["FL"], p["FR"])
		}
	}
}

func TestSpace_EachCombinationOnce(t *testing.T) {
	t.Parallel()

	sp := mustParse(t, "a { 1 2 }\nb { 1 2 3 }\nc { 1 2 }").Space()
	seen := make(map[string]int)
	for sp.HasNext() {
		p := sp.Next()
		seen[fmt.Sprintf("%v/%v/%v", p["a"], p["b"], p["c"])]++
	}
	if len(seen) != 12 {
		t.Fatalf("saw %d distinct combinations, want 12", len(seen))
	}
	for combo, n := range seen {
		if n != 1 {
			t.Errorf("combination %s seen %d times", combo, n)
		}
	}
}

func TestSpace_Deterministic(t *testing.T) {
	t.Parallel()

	const input = "kT : 0.1 0.5 0.1\nB_z { 0 0.05 }\nFL f { 1 2 }\nFR f { 3 4 }"
	spec := mustParse(t, input)

	first := collect(spec.Space())
	second := collect(spec.Space())
	if !reflect.DeepEqual(first, second) {
		t.Error("two enumerations of the same spec differ")
	}

	// And across a reparse of the same text.
	third := collect(mustParse(t, input).Space())
	if !reflect.DeepEqual(first, third) {
		t.Error("enumeration differs after reparsing identical input")
	}
}

func TestSpace_PointsAreIndependentCopies(t *testing.T) {
	t.Parallel()

	sp := mustParse(t, "kT { 1 2 }").Space()
	a := sp.Next()
	b := sp.Next()
	a["kT"] = 99
	if b["kT"] != 2 {
		t.Errorf("mutating one point affected another: b[kT] = %v", b["kT"])
	}
}

func TestSpace_EmptySpecYieldsOnePoint(t *testing.T) {
	t.Parallel()

	sp := mustParse(t, "").Space()
	if sp.Count() != 1 {
		t.Errorf("Count() = %d, want 1 (empty product)", sp.Count())
	}
	points := collect(sp)
	if len(points) != 1 || len(points[0]) != 0 {
		t.Errorf("enumerated %v, want one empty point", points)
	}
}

func TestSpace_MirrorsRangeValues(t *testing.T) {
	t.Parallel()

	// Guard against drift between the parsed sequence and what the
	// enumerator hands out.
	spec := mustParse(t, "kT : 1 5 1")
	sp := spec.Space()
	var got []float64
	for sp.HasNext() {
		got = append(got, sp.Next()["kT"])
	}
	if !floatsEqual(got, []float64{1, 2, 3, 4, 5}) {
		t.Errorf("enumerated kT values %v, want [1 2 3 4 5]", got)
	}
}
