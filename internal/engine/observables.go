package engine

// Magnetization scopes and energy buckets used by the accumulator.
const (
	scopeAll = iota
	scopeL
	scopeR
	scopeM
	scopeCount
)

const (
	bucketTotal = iota
	bucketL
	bucketR
	bucketM
	bucketML
	bucketMR
	bucketLR
	bucketCount
)

// accumulator gathers running sums over measurement samples. Means,
// specific heats, and susceptibilities fall out of the first and second
// moments at the end of the run.
type accumulator struct {
	n float64

	m, ms, mf [scopeCount]Vec

	momNorm, momNormSq [scopeCount]float64

	u, uSq [bucketCount]float64
}

// sample takes one measurement of the current lattice state.
func (a *accumulator) sample(l *lattice) {
	a.n++

	var mom, spin, flux [scopeCount]Vec
	var count [scopeCount]float64
	for _, c := range l.sites {
		scope := scopeL
		switch l.kind[c] {
		case regRight:
			scope = scopeR
		case regMol:
			scope = scopeM
		}
		s, f := l.spins[c], l.flux[c]
		m := s.Add(f)
		for _, sc := range [2]int{scopeAll, scope} {
			mom[sc] = mom[sc].Add(m)
			spin[sc] = spin[sc].Add(s)
			flux[sc] = flux[sc].Add(f)
			count[sc]++
		}
	}
	for sc := 0; sc < scopeCount; sc++ {
		if count[sc] == 0 {
			continue
		}
		mom[sc] = mom[sc].Scale(1 / count[sc])
		spin[sc] = spin[sc].Scale(1 / count[sc])
		flux[sc] = flux[sc].Scale(1 / count[sc])

		a.m[sc] = a.m[sc].Add(mom[sc])
		a.ms[sc] = a.ms[sc].Add(spin[sc])
		a.mf[sc] = a.mf[sc].Add(flux[sc])
		norm := mom[sc].Norm()
		a.momNorm[sc] += norm
		a.momNormSq[sc] += norm * norm
	}

	u := l.energyBuckets()
	for b := 0; b < bucketCount; b++ {
		a.u[b] += u[b]
		a.uSq[b] += u[b] * u[b]
	}
}

// energyBuckets computes the total energy split by region / region pair:
// each site term lands in its own region's bucket, each bond term in the
// bucket of its region pair.
func (l *lattice) energyBuckets() [bucketCount]float64 {
	var u [bucketCount]float64

	for _, c := range l.sites {
		e := l.siteEnergy(c, l.spins[c], l.flux[c])
		switch l.kind[c] {
		case regLeft:
			u[bucketL] += e
		case regRight:
			u[bucketR] += e
		case regMol:
			u[bucketM] += e
		}
	}
	for bi, b := range l.bonds {
		e := l.pairEnergy(bi, l.spins[b.a], l.flux[b.a], l.spins[b.b], l.flux[b.b])
		switch b.kind {
		case pairLL:
			u[bucketL] += e
		case pairRR:
			u[bucketR] += e
		case pairMM:
			u[bucketM] += e
		case pairLM:
			u[bucketML] += e
		case pairMR:
			u[bucketMR] += e
		case pairLR:
			u[bucketLR] += e
		}
	}

	for b := bucketL; b < bucketCount; b++ {
		u[bucketTotal] += u[b]
	}
	return u
}

// results converts accumulated sums into the observables bundle.
// Specific heat is the energy variance over kT^2; susceptibility the
// moment-magnitude variance over kT. Both are zero at kT = 0.
func (a *accumulator) results(kT float64) Results {
	var r Results
	if a.n == 0 {
		return r
	}
	inv := 1 / a.n

	r.M = a.m[scopeAll].Scale(inv)
	r.ML = a.m[scopeL].Scale(inv)
	r.MR = a.m[scopeR].Scale(inv)
	r.Mm = a.m[scopeM].Scale(inv)

	r.MS = a.ms[scopeAll].Scale(inv)
	r.MSL = a.ms[scopeL].Scale(inv)
	r.MSR = a.ms[scopeR].Scale(inv)
	r.MSm = a.ms[scopeM].Scale(inv)

	r.MF = a.mf[scopeAll].Scale(inv)
	r.MFL = a.mf[scopeL].Scale(inv)
	r.MFR = a.mf[scopeR].Scale(inv)
	r.MFm = a.mf[scopeM].Scale(inv)

	r.U = a.u[bucketTotal] * inv
	r.UL = a.u[bucketL] * inv
	r.UR = a.u[bucketR] * inv
	r.Um = a.u[bucketM] * inv
	r.UmL = a.u[bucketML] * inv
	r.UmR = a.u[bucketMR] * inv
	r.ULR = a.u[bucketLR] * inv

	if kT > 0 {
		variance := func(sum, sumSq float64) float64 {
			mean := sum * inv
			v := sumSq*inv - mean*mean
			if v < 0 {
				v = 0
			}
			return v
		}

		kT2 := kT * kT
		r.C = variance(a.u[bucketTotal], a.uSq[bucketTotal]) / kT2
		r.CL = variance(a.u[bucketL], a.uSq[bucketL]) / kT2
		r.CR = variance(a.u[bucketR], a.uSq[bucketR]) / kT2
		r.Cm = variance(a.u[bucketM], a.uSq[bucketM]) / kT2
		r.CmL = variance(a.u[bucketML], a.uSq[bucketML]) / kT2
		r.CmR = variance(a.u[bucketMR], a.uSq[bucketMR]) / kT2
		r.CLR = variance(a.u[bucketLR], a.uSq[bucketLR]) / kT2

		r.X = variance(a.momNorm[scopeAll], a.momNormSq[scopeAll]) / kT
		r.XL = variance(a.momNorm[scopeL], a.momNormSq[scopeL]) / kT
		r.XR = variance(a.momNorm[scopeR], a.momNormSq[scopeR]) / kT
		r.Xm = variance(a.momNorm[scopeM], a.momNormSq[scopeM]) / kT
	}

	return r
}
