package engine

// NamedValue is one observable flattened to a report-ready name and value.
type NamedValue struct {
	Name  string
	Value float64
}

// Fields flattens the observables into report order: magnetization vectors
// component by component, then energies, specific heats, and
// susceptibilities. The order matches the historical report schema.
func (r Results) Fields() []NamedValue {
	out := make([]NamedValue, 0, 36+7+7+4)

	vec := func(name string, v Vec) {
		out = append(out,
			NamedValue{name + "_x", v.X},
			NamedValue{name + "_y", v.Y},
			NamedValue{name + "_z", v.Z},
		)
	}
	num := func(name string, v float64) {
		out = append(out, NamedValue{name, v})
	}

	vec("M", r.M)
	vec("ML", r.ML)
	vec("MR", r.MR)
	vec("Mm", r.Mm)
	vec("MS", r.MS)
	vec("MSL", r.MSL)
	vec("MSR", r.MSR)
	vec("MSm", r.MSm)
	vec("MF", r.MF)
	vec("MFL", r.MFL)
	vec("MFR", r.MFR)
	vec("MFm", r.MFm)

	num("U", r.U)
	num("UL", r.UL)
	num("UR", r.UR)
	num("Um", r.Um)
	num("UmL", r.UmL)
	num("UmR", r.UmR)
	num("ULR", r.ULR)

	num("c", r.C)
	num("cL", r.CL)
	num("cR", r.CR)
	num("cm", r.Cm)
	num("cmL", r.CmL)
	num("cmR", r.CmR)
	num("cLR", r.CLR)

	num("x", r.X)
	num("xL", r.XL)
	num("xR", r.XR)
	num("xm", r.Xm)

	return out
}
