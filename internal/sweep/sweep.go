// Package sweep parses declarative parameter-sweep files and enumerates the
// configurations they describe.
//
// A sweep file is a line-oriented list of entries. Each parameter entry names
// a key, an optional coupling label, and a value sequence:
//
//	kT : 0.1 2.0 0.1        # arithmetic range (limit inclusive)
//	B_z = 0.05              # single value
//	JL lbl { 1.0 1.5 2.0 }  # explicit list, coupled under label "lbl"
//	[5 0 0] = 2.5           # initial spin override at site (5,0,0)
//
// Parameters sharing a label vary in lockstep and must have sequences of
// equal length. The full Cartesian product over labels is walked by Space,
// a mixed-radix odometer whose first-declared label varies fastest.
package sweep

import "fmt"

// RequiredKeys are the fixed (non-swept) settings every sweep file must
// define. They size the lattice, place the molecule and contact regions,
// and control the simulation run lengths.
var RequiredKeys = []string{
	"width", "height", "depth",
	"molPosL", "molPosR",
	"topL", "bottomL", "frontR", "backR",
	"t_eq", "simCount", "freq",
}

// Spin is an initial spin-magnitude override at one lattice site, applied
// identically to every job before it runs.
type Spin struct {
	X, Y, Z int
	Norm    float64
}

// Label groups one or more parameters that share a cursor during
// enumeration. Every key under a label owns a value sequence of exactly
// Length elements.
type Label struct {
	Name   string
	Keys   []string // parameter keys bound to this label, in file order
	Length int
}

// Spec is the parsed content of one sweep file: the parameter table, the
// labels in first-appearance order, and the spin override list.
type Spec struct {
	Params map[string][]float64
	Labels []*Label
	Spins  []Spin

	byName map[string]*Label
}

// LabelOf returns the label a parameter key is bound to, or nil if the key
// is not defined.
func (s *Spec) LabelOf(key string) *Label {
	for _, l := range s.Labels {
		for _, k := range l.Keys {
			if k == key {
				return l
			}
		}
	}
	return nil
}

// Global returns the first value of a fixed key. Fixed keys are expected to
// be singletons; extra values are ignored the same way the sweep ignores
// them for unswept parameters.
func (s *Spec) Global(key string) (float64, error) {
	vals, ok := s.Params[key]
	if !ok || len(vals) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	return vals[0], nil
}

// CheckRequired verifies every key in RequiredKeys is present. It reports
// the first missing key so a bad file fails before any job runs.
func (s *Spec) CheckRequired() error {
	for _, key := range RequiredKeys {
		if _, err := s.Global(key); err != nil {
			return err
		}
	}
	return nil
}

// register adds a parsed parameter entry to the spec, creating or extending
// its label and enforcing the equal-length invariant.
func (s *Spec) register(key, labelName string, values []float64) error {
	if labelName == "" {
		labelName = key
	}
	s.Params[key] = values

	l, ok := s.byName[labelName]
	if !ok {
		l = &Label{Name: labelName, Length: len(values)}
		s.byName[labelName] = l
		s.Labels = append(s.Labels, l)
	} else if l.Length != len(values) {
		return fmt.Errorf("%w: label %q: key %q has %d values, label previously had %d",
			ErrLabelLength, labelName, key, len(values), l.Length)
	}

	for _, k := range l.Keys {
		if k == key {
			return nil
		}
	}
	l.Keys = append(l.Keys, key)
	return nil
}
