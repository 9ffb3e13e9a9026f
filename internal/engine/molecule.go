package engine

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Sentinel errors for molecule descriptors.
var (
	// ErrBadMolecule indicates a descriptor that does not describe a usable molecule.
	ErrBadMolecule = errors.New("invalid molecule descriptor")
	// ErrMoleculeSpan indicates a molecule whose node count does not match the
	// lattice span reserved for it (molPosR - molPosL + 1).
	ErrMoleculeSpan = errors.New("molecule node count does not match lattice span")
)

// NodeParams are the per-node couplings of a molecule site.
type NodeParams struct {
	Sm   float64 `toml:"sm"`
	Fm   float64 `toml:"fm"`
	Je0m float64 `toml:"je0m"`
	Am   Vec     `toml:"am"`
}

// EdgeParams are the couplings along one molecule bond.
type EdgeParams struct {
	Jm   float64 `toml:"jm"`
	Je1m float64 `toml:"je1m"`
	Jeem float64 `toml:"jeem"`
	Bm   float64 `toml:"bm"`
	Dm   Vec     `toml:"dm"`
	Src  int     `toml:"src"`
	Dest int     `toml:"dest"`
}

// Leads name the molecule nodes bonded to the left and right contacts.
type Leads struct {
	Left  int `toml:"left"`
	Right int `toml:"right"`
}

// Molecule describes the topology of the molecule bridging the two
// contacts: its nodes, its bonds, and which nodes act as leads.
//
// A parametric molecule (built by Linear or Ring) takes its node and edge
// couplings from the sweep's parameter bundle on every job, so they can be
// swept like any other parameter. A molecule loaded from a descriptor file
// carries its own fixed couplings.
type Molecule struct {
	Nodes []NodeParams `toml:"nodes"`
	Edges []EdgeParams `toml:"edges"`
	Leads Leads        `toml:"leads"`

	// Parametric molecules ignore stored node/edge couplings in favor of
	// the per-job Parameters bundle.
	Parametric bool `toml:"-"`
}

// Linear builds a parametric open chain of n nodes: 0-1-...-(n-1), with the
// ends as leads.
func Linear(n int) *Molecule {
	return chain(n)
}

// Ring builds a parametric closed chain of n nodes: a linear chain plus a
// bond from the last node back to the first.
func Ring(n int) *Molecule {
	m := chain(n)
	if n > 2 {
		m.Edges = append(m.Edges, EdgeParams{Src: n - 1, Dest: 0})
	}
	return m
}

func chain(n int) *Molecule {
	if n < 1 {
		n = 1
	}
	m := &Molecule{
		Nodes:      make([]NodeParams, n),
		Parametric: true,
		Leads:      Leads{Left: 0, Right: n - 1},
	}
	for i := 0; i < n-1; i++ {
		m.Edges = append(m.Edges, EdgeParams{Src: i, Dest: i + 1})
	}
	return m
}

// LoadMolecule reads a TOML molecule descriptor. The descriptor lists
// [[nodes]] with sm/fm/je0m/am, [[edges]] with jm/je1m/jeem/bm/dm/src/dest,
// and a [leads] table naming the left and right lead nodes.
func LoadMolecule(path string) (*Molecule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading molecule descriptor: %w", err)
	}

	var m Molecule
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrBadMolecule, path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks structural consistency: at least one node, edge endpoints
// and leads addressing real nodes, no self-bonds.
func (m *Molecule) Validate() error {
	n := len(m.Nodes)
	if n == 0 {
		return fmt.Errorf("%w: no nodes", ErrBadMolecule)
	}
	for i, e := range m.Edges {
		if e.Src < 0 || e.Src >= n || e.Dest < 0 || e.Dest >= n {
			return fmt.Errorf("%w: edge %d references node outside [0,%d)", ErrBadMolecule, i, n)
		}
		if e.Src == e.Dest {
			return fmt.Errorf("%w: edge %d is a self-bond on node %d", ErrBadMolecule, i, e.Src)
		}
	}
	if m.Leads.Left < 0 || m.Leads.Left >= n || m.Leads.Right < 0 || m.Leads.Right >= n {
		return fmt.Errorf("%w: lead outside [0,%d)", ErrBadMolecule, n)
	}
	return nil
}
