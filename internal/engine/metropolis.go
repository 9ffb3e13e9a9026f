package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

type region uint8

const (
	regNone region = iota
	regLeft
	regMol
	regRight
)

// pairKind buckets a bond by the regions it connects, selecting which
// coupling constants apply and which energy term it contributes to.
type pairKind uint8

const (
	pairLL pairKind = iota
	pairRR
	pairMM
	pairLM
	pairMR
	pairLR
	pairCount
)

type bond struct {
	a, b    int // cell indices
	kind    pairKind
	molEdge int // index into mol.Edges when kind == pairMM, else -1
}

// resolved couplings, rebuilt on every SetParameters call.
type siteCoupling struct {
	s, f, je0 float64
	a         Vec
}

type bondCoupling struct {
	j, bq, je1, jee float64
	d               Vec
}

// lattice is the reference Device: a rectangular lattice holding a left
// contact (y in [TopL, BottomL], x < MolPosL), a molecule chain along x in
// [MolPosL, MolPosR] at the lattice center line, and a right contact
// (z in [FrontR, BackR], x > MolPosR). Each real site carries a spin and a
// flux vector; the local moment is their sum.
type lattice struct {
	geo  Geometry
	mol  *Molecule
	p    Parameters
	mode FlipMode
	rng  *rand.Rand

	kind     []region // per cell; regNone marks holes
	molNode  []int    // per cell: molecule node index, -1 elsewhere
	sites    []int    // real cell indices in x,y,z order
	spins    []Vec
	flux     []Vec
	bonds    []bond
	incident [][]int32 // per cell: indices into bonds

	siteC []siteCoupling // per cell, resolved from p
	bondC []bondCoupling // per bond, resolved from p

	results    Results
	hasResults bool
}

// New builds the reference Device. The molecule's node count must match
// the lattice span [MolPosL, MolPosR].
func New(g Geometry, mol *Molecule) (Device, error) {
	seed := uint64(time.Now().UnixNano())
	return newLattice(g, mol, seed)
}

func newLattice(g Geometry, mol *Molecule, seed uint64) (*lattice, error) {
	if g.Width < 1 || g.Height < 1 || g.Depth < 1 {
		return nil, fmt.Errorf("lattice dimensions %dx%dx%d out of range", g.Width, g.Height, g.Depth)
	}
	if err := mol.Validate(); err != nil {
		return nil, err
	}
	span := g.MolPosR - g.MolPosL + 1
	if span < 1 || g.MolPosR >= g.Width {
		return nil, fmt.Errorf("molecule span [%d,%d] outside lattice width %d", g.MolPosL, g.MolPosR, g.Width)
	}
	if len(mol.Nodes) != span {
		return nil, fmt.Errorf("%w: %d node(s) for span %d", ErrMoleculeSpan, len(mol.Nodes), span)
	}

	cells := g.Width * g.Height * g.Depth
	l := &lattice{
		geo:     g,
		mol:     mol,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		kind:    make([]region, cells),
		molNode: make([]int, cells),
		spins:   make([]Vec, cells),
		flux:    make([]Vec, cells),
	}
	for i := range l.molNode {
		l.molNode[i] = -1
	}

	l.placeSites()
	l.buildBonds()
	l.SetParameters(Parameters{})
	l.Reinitialize()
	return l, nil
}

func (l *lattice) cell(x, y, z int) int {
	return (x*l.geo.Height+y)*l.geo.Depth + z
}

func (l *lattice) placeSites() {
	g := l.geo
	cy, cz := g.Height/2, g.Depth/2

	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			for z := 0; z < g.Depth; z++ {
				c := l.cell(x, y, z)
				switch {
				case x < g.MolPosL:
					if y >= g.TopL && y <= g.BottomL {
						l.kind[c] = regLeft
					}
				case x > g.MolPosR:
					if z >= g.FrontR && z <= g.BackR {
						l.kind[c] = regRight
					}
				default:
					if y == cy && z == cz {
						l.kind[c] = regMol
						l.molNode[c] = x - g.MolPosL
					}
				}
				if l.kind[c] != regNone {
					l.sites = append(l.sites, c)
				}
			}
		}
	}
}

// buildBonds precomputes the interaction list. Contact sites bond to their
// +x/+y/+z lattice neighbors; molecule bonds come from the molecule's edge
// list, plus one bond from each lead to the adjacent contact site.
func (l *lattice) buildBonds() {
	g := l.geo
	add := func(a, b int, kind pairKind, molEdge int) {
		l.bonds = append(l.bonds, bond{a: a, b: b, kind: kind, molEdge: molEdge})
	}

	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			for z := 0; z < g.Depth; z++ {
				a := l.cell(x, y, z)
				if l.kind[a] == regNone {
					continue
				}
				for _, d := range [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
					nx, ny, nz := x+d[0], y+d[1], z+d[2]
					if nx >= g.Width || ny >= g.Height || nz >= g.Depth {
						continue
					}
					b := l.cell(nx, ny, nz)
					if l.kind[b] == regNone {
						continue
					}
					// Molecule bonds come from the edge list below, not
					// from lattice adjacency.
					if l.kind[a] == regMol || l.kind[b] == regMol {
						continue
					}
					kind, ok := pairOf(l.kind[a], l.kind[b])
					if ok {
						add(a, b, kind, -1)
					}
				}
			}
		}
	}

	cy, cz := g.Height/2, g.Depth/2
	nodeCell := func(i int) int { return l.cell(g.MolPosL+i, cy, cz) }

	for i, e := range l.mol.Edges {
		add(nodeCell(e.Src), nodeCell(e.Dest), pairMM, i)
	}

	if g.MolPosL > 0 {
		left := l.cell(g.MolPosL-1, cy, cz)
		if l.kind[left] == regLeft {
			add(left, nodeCell(l.mol.Leads.Left), pairLM, -1)
		}
	}
	if g.MolPosR+1 < g.Width {
		right := l.cell(g.MolPosR+1, cy, cz)
		if l.kind[right] == regRight {
			add(nodeCell(l.mol.Leads.Right), right, pairMR, -1)
		}
	}

	l.incident = make([][]int32, len(l.kind))
	for i, b := range l.bonds {
		l.incident[b.a] = append(l.incident[b.a], int32(i))
		l.incident[b.b] = append(l.incident[b.b], int32(i))
	}
}

func pairOf(a, b region) (pairKind, bool) {
	if a > b {
		a, b = b, a
	}
	switch {
	case a == regLeft && b == regLeft:
		return pairLL, true
	case a == regRight && b == regRight:
		return pairRR, true
	case a == regMol && b == regMol:
		return pairMM, true
	case a == regLeft && b == regMol:
		return pairLM, true
	case a == regMol && b == regRight:
		return pairMR, true
	case a == regLeft && b == regRight:
		return pairLR, true
	}
	return 0, false
}

// SetParameters installs the coupling bundle and resolves it into per-site
// and per-bond tables. Molecule couplings come from the bundle for
// parametric molecules, or from the descriptor otherwise.
func (l *lattice) SetParameters(p Parameters) {
	l.p = p

	l.siteC = make([]siteCoupling, len(l.kind))
	for _, c := range l.sites {
		switch l.kind[c] {
		case regLeft:
			l.siteC[c] = siteCoupling{s: p.SL, f: p.FL, je0: p.Je0L, a: p.AL}
		case regRight:
			l.siteC[c] = siteCoupling{s: p.SR, f: p.FR, je0: p.Je0R, a: p.AR}
		case regMol:
			if l.mol.Parametric {
				l.siteC[c] = siteCoupling{s: p.Sm, f: p.Fm, je0: p.Je0m, a: p.Am}
			} else {
				n := l.mol.Nodes[l.molNode[c]]
				l.siteC[c] = siteCoupling{s: n.Sm, f: n.Fm, je0: n.Je0m, a: n.Am}
			}
		}
	}

	l.bondC = make([]bondCoupling, len(l.bonds))
	for i, b := range l.bonds {
		switch b.kind {
		case pairLL:
			l.bondC[i] = bondCoupling{j: p.JL, bq: p.BL, je1: p.Je1L, jee: p.JeeL, d: p.DL}
		case pairRR:
			l.bondC[i] = bondCoupling{j: p.JR, bq: p.BR, je1: p.Je1R, jee: p.JeeR, d: p.DR}
		case pairMM:
			if l.mol.Parametric {
				l.bondC[i] = bondCoupling{j: p.Jm, bq: p.Bm, je1: p.Je1m, jee: p.Jeem, d: p.Dm}
			} else {
				e := l.mol.Edges[b.molEdge]
				l.bondC[i] = bondCoupling{j: e.Jm, bq: e.Bm, je1: e.Je1m, jee: e.Jeem, d: e.Dm}
			}
		case pairLM:
			l.bondC[i] = bondCoupling{j: p.JmL, bq: p.BmL, je1: p.Je1mL, jee: p.JeemL, d: p.DmL}
		case pairMR:
			l.bondC[i] = bondCoupling{j: p.JmR, bq: p.BmR, je1: p.Je1mR, jee: p.JeemR, d: p.DmR}
		case pairLR:
			l.bondC[i] = bondCoupling{j: p.JLR, bq: p.BLR, je1: p.Je1LR, jee: p.JeeLR, d: p.DLR}
		}
	}
}

func (l *lattice) SetFlipMode(m FlipMode) { l.mode = m }

func (l *lattice) SetSpin(x, y, z int, norm float64) error {
	g := l.geo
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height || z < 0 || z >= g.Depth {
		return fmt.Errorf("%w: [%d %d %d]", ErrSiteOutOfRange, x, y, z)
	}
	c := l.cell(x, y, z)
	if l.kind[c] == regNone {
		return fmt.Errorf("%w: [%d %d %d]", ErrSiteOutOfRange, x, y, z)
	}
	l.spins[c] = l.spins[c].WithNorm(norm)
	return nil
}

func (l *lattice) Reinitialize() {
	for _, c := range l.sites {
		l.spins[c] = Vec{0, 0, l.siteC[c].s}
		l.flux[c] = Vec{}
	}
}

func (l *lattice) Randomize() {
	for _, c := range l.sites {
		l.spins[c] = l.randomDirection().Scale(l.siteC[c].s)
		l.flux[c] = l.randomDirection().Scale(l.siteC[c].f * l.rng.Float64())
	}
}

func (l *lattice) randomDirection() Vec {
	theta := math.Acos(2*l.rng.Float64() - 1)
	phi := 2 * math.Pi * l.rng.Float64()
	return Spherical(1, theta, phi)
}

// siteEnergy is the energy of one site's own terms given a candidate spin
// and flux: Zeeman against the local moment, anisotropy, and the on-site
// spin-flux coupling.
func (l *lattice) siteEnergy(c int, s, f Vec) float64 {
	sc := l.siteC[c]
	m := s.Add(f)
	aniso := sc.a.X*s.X*s.X + sc.a.Y*s.Y*s.Y + sc.a.Z*s.Z*s.Z
	return -l.p.B.Dot(m) - aniso - sc.je0*s.Dot(f)
}

// pairEnergy is the energy of one bond for the given endpoint states. The
// DM cross product is oriented a-to-b, so callers must pass states in bond
// order.
func (l *lattice) pairEnergy(bi int, sa, fa, sb, fb Vec) float64 {
	bc := l.bondC[bi]
	ss := sa.Dot(sb)
	return -bc.j*ss - bc.bq*ss*ss - bc.d.Dot(sa.Cross(sb)) -
		bc.je1*(sa.Dot(fb)+fa.Dot(sb)) - bc.jee*fa.Dot(fb)
}

// bondEnergy is the energy of one bond given candidate state s, f on cell c;
// the other endpoint reads current state.
func (l *lattice) bondEnergy(bi int, c int, s, f Vec) float64 {
	b := l.bonds[bi]
	if b.a == c {
		return l.pairEnergy(bi, s, f, l.spins[b.b], l.flux[b.b])
	}
	return l.pairEnergy(bi, l.spins[b.a], l.flux[b.a], s, f)
}

func (l *lattice) localEnergy(c int, s, f Vec) float64 {
	e := l.siteEnergy(c, s, f)
	for _, bi := range l.incident[c] {
		e += l.bondEnergy(int(bi), c, s, f)
	}
	return e
}

// Metropolis runs the update loop. Each step picks one site, proposes a
// new spin and flux, and accepts with probability min(1, exp(-dE/kT)).
func (l *lattice) Metropolis(steps, freq uint64) {
	var acc accumulator
	if freq > 0 {
		acc.sample(l)
	}

	for t := uint64(1); t <= steps; t++ {
		c := l.sites[l.rng.IntN(len(l.sites))]
		sc := l.siteC[c]

		var ns Vec
		if l.mode == UpDown {
			ns = l.spins[c].Scale(-1)
		} else {
			ns = l.randomDirection().Scale(sc.s)
		}
		nf := Vec{}
		if sc.f > 0 {
			nf = l.randomDirection().Scale(sc.f * l.rng.Float64())
		}

		dE := l.localEnergy(c, ns, nf) - l.localEnergy(c, l.spins[c], l.flux[c])
		if dE <= 0 || (l.p.KT > 0 && l.rng.Float64() < math.Exp(-dE/l.p.KT)) {
			l.spins[c] = ns
			l.flux[c] = nf
		}

		if freq > 0 && t%freq == 0 {
			acc.sample(l)
		}
	}

	if freq > 0 {
		l.results = acc.results(l.p.KT)
		l.hasResults = true
	}
}

func (l *lattice) Results() Results {
	return l.results
}

func (l *lattice) Snapshot() []Site {
	out := make([]Site, 0, len(l.sites))
	for _, c := range l.sites {
		d := l.geo.Depth
		h := l.geo.Height
		z := c % d
		y := (c / d) % h
		x := c / (d * h)
		out = append(out, Site{
			X: x, Y: y, Z: z,
			Spin:   l.spins[c],
			Flux:   l.flux[c],
			Moment: l.spins[c].Add(l.flux[c]),
		})
	}
	return out
}
