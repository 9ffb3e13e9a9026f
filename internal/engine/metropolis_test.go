package engine

import (
	"errors"
	"math"
	"testing"
)

// testGeometry is a small lattice: a 2-plane left contact, a single
// molecule site at x=2, and a 2-plane right contact.
func testGeometry() Geometry {
	return Geometry{
		Width: 5, Height: 3, Depth: 3,
		MolPosL: 2, MolPosR: 2,
		TopL: 0, BottomL: 2,
		FrontR: 0, BackR: 2,
	}
}

func testDevice(t *testing.T, seed uint64) *lattice {
	t.Helper()
	l, err := newLattice(testGeometry(), Linear(1), seed)
	if err != nil {
		t.Fatalf("newLattice: %v", err)
	}
	return l
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		geo  Geometry
		mol  *Molecule
	}{
		{"ZeroWidth", Geometry{Height: 3, Depth: 3}, Linear(1)},
		{"SpanMismatch", testGeometry(), Linear(3)},
		{"MolOutsideLattice", Geometry{Width: 3, Height: 3, Depth: 3, MolPosL: 2, MolPosR: 4}, Linear(3)},
		{"BadMolecule", testGeometry(), &Molecule{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.geo, tt.mol); err == nil {
				t.Error("expected construction error, got nil")
			}
		})
	}
}

func TestSnapshot_RealSitesOnly(t *testing.T) {
	t.Parallel()

	l := testDevice(t, 1)

	// 2 left planes of 3x3, one molecule site, 2 right planes of 3x3.
	const want = 18 + 1 + 18
	snap := l.Snapshot()
	if len(snap) != want {
		t.Fatalf("Snapshot() has %d sites, want %d", len(snap), want)
	}

	seen := make(map[[3]int]bool)
	for i, s := range snap {
		key := [3]int{s.X, s.Y, s.Z}
		if seen[key] {
			t.Errorf("site %v appears twice", key)
		}
		seen[key] = true

		if i > 0 && snap[i-1].X > s.X {
			t.Errorf("snapshot out of x order at index %d", i)
		}
		wantMoment := s.Spin.Add(s.Flux)
		if s.Moment != wantMoment {
			t.Errorf("site %v moment = %v, want spin+flux = %v", key, s.Moment, wantMoment)
		}
	}

	// The molecule row's off-center cells are holes.
	if seen[[3]int{2, 0, 0}] {
		t.Error("found a site at (2,0,0), which should be a hole")
	}
	if !seen[[3]int{2, 1, 1}] {
		t.Error("missing the molecule site at (2,1,1)")
	}
}

func TestSetSpin(t *testing.T) {
	t.Parallel()

	l := testDevice(t, 1)
	l.SetParameters(Parameters{SL: 1, SR: 1, Sm: 1})
	l.Reinitialize()

	if err := l.SetSpin(0, 0, 0, 2.5); err != nil {
		t.Fatalf("SetSpin on a real site: %v", err)
	}
	for _, s := range l.Snapshot() {
		if s.X == 0 && s.Y == 0 && s.Z == 0 {
			if got := s.Spin.Norm(); math.Abs(got-2.5) > 1e-12 {
				t.Errorf("spin norm after override = %v, want 2.5", got)
			}
		}
	}

	tests := []struct {
		name    string
		x, y, z int
	}{
		{"Hole", 2, 0, 0},
		{"OutsideLattice", 99, 0, 0},
		{"Negative", -1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := l.SetSpin(tt.x, tt.y, tt.z, 1.0); !errors.Is(err, ErrSiteOutOfRange) {
				t.Errorf("SetSpin(%d,%d,%d) = %v, want ErrSiteOutOfRange", tt.x, tt.y, tt.z, err)
			}
		})
	}
}

func TestReinitialize_AlignedGroundState(t *testing.T) {
	t.Parallel()

	l := testDevice(t, 1)
	l.SetParameters(Parameters{SL: 1, SR: 0.5, Sm: 2})
	l.Randomize()
	l.Reinitialize()

	for _, s := range l.Snapshot() {
		if s.Spin.X != 0 || s.Spin.Y != 0 || s.Spin.Z <= 0 {
			t.Fatalf("site (%d,%d,%d) spin %v not aligned +z after Reinitialize", s.X, s.Y, s.Z, s.Spin)
		}
		if s.Flux != (Vec{}) {
			t.Fatalf("site (%d,%d,%d) flux %v nonzero after Reinitialize", s.X, s.Y, s.Z, s.Flux)
		}
	}
}

func TestMetropolis_Deterministic(t *testing.T) {
	t.Parallel()

	run := func(seed uint64) Results {
		l := testDevice(t, seed)
		l.SetParameters(Parameters{
			KT: 0.5, B: Vec{0, 0, 0.1},
			SL: 1, SR: 1, Sm: 1, FL: 0.5, FR: 0.5,
			JL: 1, JR: 1, JmL: 0.8, JmR: 0.8,
		})
		l.Reinitialize()
		l.Metropolis(200, 0)
		l.Metropolis(500, 10)
		return l.Results()
	}

	a, b := run(42), run(42)
	if a != b {
		t.Error("identical seeds produced different results")
	}
}

func TestMetropolis_EquilibrationDoesNotSample(t *testing.T) {
	t.Parallel()

	l := testDevice(t, 7)
	l.SetParameters(Parameters{KT: 1, SL: 1, SR: 1, Sm: 1})
	l.Metropolis(100, 0)
	if l.Results() != (Results{}) {
		t.Error("equilibration run populated results")
	}

	l.Metropolis(100, 10)
	if l.Results() == (Results{}) {
		t.Error("measurement run left results empty")
	}
}

func TestMetropolis_UpDownKeepsSpinsOnAxis(t *testing.T) {
	t.Parallel()

	l := testDevice(t, 11)
	l.SetParameters(Parameters{KT: 2, B: Vec{0, 0, 0.5}, SL: 1, SR: 1, Sm: 1})
	l.SetFlipMode(UpDown)
	l.Reinitialize()
	l.Metropolis(1000, 0)

	for _, s := range l.Snapshot() {
		if s.Spin.X != 0 || s.Spin.Y != 0 {
			t.Fatalf("site (%d,%d,%d) spin %v left the z axis in up-down mode", s.X, s.Y, s.Z, s.Spin)
		}
		if math.Abs(math.Abs(s.Spin.Z)-1) > 1e-12 {
			t.Fatalf("site (%d,%d,%d) spin magnitude %v, want 1", s.X, s.Y, s.Z, math.Abs(s.Spin.Z))
		}
	}
}

func TestMetropolis_StrongFieldAlignsSpins(t *testing.T) {
	t.Parallel()

	// At low temperature under a strong +z field the mean magnetization
	// must point along +z.
	l := testDevice(t, 3)
	l.SetParameters(Parameters{KT: 0.05, B: Vec{0, 0, 10}, SL: 1, SR: 1, Sm: 1})
	l.Randomize()
	l.Metropolis(20000, 0)
	l.Metropolis(5000, 50)

	r := l.Results()
	if r.M.Z < 0.8 {
		t.Errorf("mean M_z = %v under strong +z field, want > 0.8", r.M.Z)
	}
}

func TestParseModes(t *testing.T) {
	t.Parallel()

	if m, err := ParseFlipMode("CONTINUOUS_SPIN_MODEL"); err != nil || m != ContinuousSpin {
		t.Errorf("ParseFlipMode(CONTINUOUS_SPIN_MODEL) = %v, %v", m, err)
	}
	if m, err := ParseFlipMode("UP_DOWN_MODEL"); err != nil || m != UpDown {
		t.Errorf("ParseFlipMode(UP_DOWN_MODEL) = %v, %v", m, err)
	}
	if _, err := ParseFlipMode("SIDEWAYS"); err == nil {
		t.Error("ParseFlipMode accepted an invalid mode")
	}

	if m, err := ParseInitMode("RANDOMIZE"); err != nil || m != Randomize {
		t.Errorf("ParseInitMode(RANDOMIZE) = %v, %v", m, err)
	}
	if _, err := ParseInitMode("explode"); err == nil {
		t.Error("ParseInitMode accepted an invalid mode")
	}
}

func TestResults_FieldsOrderAndCount(t *testing.T) {
	t.Parallel()

	fields := (Results{U: 1.5, C: 2.5, X: 3.5}).Fields()
	if len(fields) != 54 {
		t.Fatalf("Fields() has %d entries, want 54", len(fields))
	}
	if fields[0].Name != "M_x" {
		t.Errorf("first field = %q, want M_x", fields[0].Name)
	}
	byName := make(map[string]float64, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.Value
	}
	if byName["U"] != 1.5 || byName["c"] != 2.5 || byName["x"] != 3.5 {
		t.Errorf("U/c/x = %v/%v/%v, want 1.5/2.5/3.5", byName["U"], byName["c"], byName["x"])
	}
}
