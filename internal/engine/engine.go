// Package engine defines the simulation-engine contract the sweep driver
// runs jobs against, and provides the reference Metropolis Monte Carlo
// implementation over a contact / molecule / contact spin lattice.
package engine

import (
	"errors"
	"fmt"
)

// ErrSiteOutOfRange reports an operation addressing lattice coordinates
// with no real site. It is recoverable: callers skip the operation and
// continue.
var ErrSiteOutOfRange = errors.New("no site at coordinates")

// FlipMode selects how the Metropolis update proposes a new spin.
type FlipMode int

const (
	// ContinuousSpin proposes a uniformly random new direction.
	ContinuousSpin FlipMode = iota
	// UpDown flips the spin between +z and -z.
	UpDown
)

// ParseFlipMode converts the CLI/report spelling of a flip mode.
func ParseFlipMode(s string) (FlipMode, error) {
	switch s {
	case "CONTINUOUS_SPIN_MODEL":
		return ContinuousSpin, nil
	case "UP_DOWN_MODEL":
		return UpDown, nil
	}
	return 0, fmt.Errorf("invalid model type: %q", s)
}

func (m FlipMode) String() string {
	if m == UpDown {
		return "UP_DOWN_MODEL"
	}
	return "CONTINUOUS_SPIN_MODEL"
}

// InitMode selects the initial lattice state for each job.
type InitMode int

const (
	// Reinitialize starts every job from the aligned ground configuration.
	Reinitialize InitMode = iota
	// Randomize starts every job from a random configuration.
	Randomize
)

// ParseInitMode converts the CLI/report spelling of an initialization mode.
func ParseInitMode(s string) (InitMode, error) {
	switch s {
	case "REINITIALIZE":
		return Reinitialize, nil
	case "RANDOMIZE":
		return Randomize, nil
	}
	return 0, fmt.Errorf("invalid initialization mode: %q", s)
}

func (m InitMode) String() string {
	if m == Randomize {
		return "RANDOMIZE"
	}
	return "REINITIALIZE"
}

// Geometry fixes the lattice dimensions, the molecule's span along x, and
// the contact-region boundaries: the left contact occupies y in
// [TopL, BottomL], the right contact z in [FrontR, BackR].
type Geometry struct {
	Width, Height, Depth int
	MolPosL, MolPosR     int
	TopL, BottomL        int
	FrontR, BackR        int
}

// Site is one lattice site in a snapshot: its coordinates, spin, flux, and
// local moment (spin + flux).
type Site struct {
	X, Y, Z int
	Spin    Vec
	Flux    Vec
	Moment  Vec
}

// Results are the observables accumulated over a measurement run. Vector
// magnetizations come in four region scopes (global, left, right,
// molecule) and three flavors: local moment (M), spin only (MS), flux only
// (MF). Energies U are split by the region or region pair the interaction
// belongs to. C are specific heats, X magnetic susceptibilities.
type Results struct {
	M, ML, MR, Mm     Vec
	MS, MSL, MSR, MSm Vec
	MF, MFL, MFR, MFm Vec

	U, UL, UR, Um, UmL, UmR, ULR float64

	C, CL, CR, Cm, CmL, CmR, CLR float64

	X, XL, XR, Xm float64
}

// Device is the simulation-engine contract the job pool drives. A Device
// is not safe for concurrent use; each job owns one exclusively.
type Device interface {
	// SetParameters installs the coupling bundle for the next run.
	SetParameters(p Parameters)
	// SetFlipMode selects the Metropolis proposal scheme.
	SetFlipMode(m FlipMode)
	// SetSpin rescales the spin at a site to the given magnitude,
	// preserving its direction. Returns ErrSiteOutOfRange when the
	// coordinates address no real site.
	SetSpin(x, y, z int, norm float64) error
	// Reinitialize restores the aligned ground configuration.
	Reinitialize()
	// Randomize scrambles every spin and flux vector.
	Randomize()
	// Metropolis runs steps update attempts, sampling observables every
	// freq steps. freq == 0 runs without sampling (equilibration).
	Metropolis(steps, freq uint64)
	// Results returns the observables from the last sampled run.
	Results() Results
	// Snapshot lists every real lattice site with its current state,
	// ordered by x, then y, then z.
	Snapshot() []Site
}

// Factory builds a Device for a geometry and molecule topology. The sweep
// driver holds one Factory and constructs a fresh Device per job.
type Factory func(g Geometry, mol *Molecule) (Device, error)
