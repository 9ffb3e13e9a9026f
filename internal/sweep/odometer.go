package sweep

// Point is one fully resolved assignment of every parameter for a single
// step of the enumeration. It is a fresh copy each time; callers own it.
type Point map[string]float64

// Space walks the Cartesian product of a Spec's labels as a mixed-radix
// odometer: the first-declared label varies fastest, carrying into later
// labels on overflow. For a fixed Spec the emitted sequence of Points is
// deterministic.
type Space struct {
	spec      *Spec
	cursors   []int
	exhausted bool
}

// Space returns a fresh enumerator over the spec, positioned before the
// first configuration.
func (s *Spec) Space() *Space {
	return &Space{
		spec:    s,
		cursors: make([]int, len(s.Labels)),
	}
}

// Count returns the total number of configurations the space contains:
// the product of all label lengths.
func (sp *Space) Count() int {
	n := 1
	for _, l := range sp.spec.Labels {
		n *= l.Length
	}
	return n
}

// HasNext reports whether another configuration remains.
func (sp *Space) HasNext() bool {
	return !sp.exhausted
}

// Next materializes the configuration at the current cursor positions and
// then advances the odometer. Calling Next after HasNext returns false
// yields the first configuration again; callers are expected to check.
func (sp *Space) Next() Point {
	p := make(Point, len(sp.spec.Params))
	for i, l := range sp.spec.Labels {
		for _, key := range l.Keys {
			p[key] = sp.spec.Params[key][sp.cursors[i]]
		}
	}

	i := 0
	for i < len(sp.cursors) {
		sp.cursors[i]++
		if sp.cursors[i] < sp.spec.Labels[i].Length {
			break
		}
		sp.cursors[i] = 0
		i++
	}
	if i == len(sp.cursors) {
		sp.exhausted = true
	}

	return p
}
