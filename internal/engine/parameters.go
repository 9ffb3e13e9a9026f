package engine

// Parameters is the full coupling bundle for one simulation: temperature,
// applied field, spin and flux magnitudes, Heisenberg / biquadratic /
// Dzyaloshinskii-Moriya couplings, electron-coupling terms, and anisotropies,
// each split by region (L = left contact, R = right contact, m = molecule)
// and region pair (mL, mR, LR).
type Parameters struct {
	KT float64
	B  Vec

	SL, SR, Sm float64
	FL, FR, Fm float64

	JL, JR, Jm, JmL, JmR, JLR float64

	Je0L, Je0R, Je0m float64

	Je1L, Je1R, Je1m, Je1mL, Je1mR, Je1LR float64

	JeeL, JeeR, Jeem, JeemL, JeemR, JeeLR float64

	BL, BR, Bm, BmL, BmR, BLR float64 // biquadratic couplings (b* in sweep files)

	AL, AR, Am Vec

	DL, DR, Dm, DmL, DmR, DLR Vec
}

// field binds a sweep-file parameter name to its slot in Parameters.
type field struct {
	set func(*Parameters, float64)
	get func(*Parameters) float64
}

// ParamNames lists every settable parameter name in report order. The order
// matches the historical report schema and must not change.
var ParamNames = []string{
	"kT", "B_x", "B_y", "B_z",
	"SL", "SR", "Sm", "FL", "FR", "Fm",
	"JL", "JmL", "Jm", "JmR", "JR", "JLR",
	"Je0L", "Je0m", "Je0R",
	"Je1L", "Je1mL", "Je1m", "Je1mR", "Je1R", "Je1LR",
	"JeeL", "JeemL", "Jeem", "JeemR", "JeeR", "JeeLR",
	"bL", "bmL", "bm", "bmR", "bR", "bLR",
	"AL_x", "AL_y", "AL_z",
	"AR_x", "AR_y", "AR_z",
	"Am_x", "Am_y", "Am_z",
	"DL_x", "DL_y", "DL_z",
	"DR_x", "DR_y", "DR_z",
	"Dm_x", "Dm_y", "Dm_z",
	"DmL_x", "DmL_y", "DmL_z",
	"DmR_x", "DmR_y", "DmR_z",
	"DLR_x", "DLR_y", "DLR_z",
}

func scalar(f func(*Parameters) *float64) field {
	return field{
		set: func(p *Parameters, v float64) { *f(p) = v },
		get: func(p *Parameters) float64 { return *f(p) },
	}
}

var fields = map[string]field{
	"kT": scalar(func(p *Parameters) *float64 { return &p.KT }),

	"B_x": scalar(func(p *Parameters) *float64 { return &p.B.X }),
	"B_y": scalar(func(p *Parameters) *float64 { return &p.B.Y }),
	"B_z": scalar(func(p *Parameters) *float64 { return &p.B.Z }),

	"SL": scalar(func(p *Parameters) *float64 { return &p.SL }),
	"SR": scalar(func(p *Parameters) *float64 { return &p.SR }),
	"Sm": scalar(func(p *Parameters) *float64 { return &p.Sm }),
	"FL": scalar(func(p *Parameters) *float64 { return &p.FL }),
	"FR": scalar(func(p *Parameters) *float64 { return &p.FR }),
	"Fm": scalar(func(p *Parameters) *float64 { return &p.Fm }),

	"JL":  scalar(func(p *Parameters) *float64 { return &p.JL }),
	"JR":  scalar(func(p *Parameters) *float64 { return &p.JR }),
	"Jm":  scalar(func(p *Parameters) *float64 { return &p.Jm }),
	"JmL": scalar(func(p *Parameters) *float64 { return &p.JmL }),
	"JmR": scalar(func(p *Parameters) *float64 { return &p.JmR }),
	"JLR": scalar(func(p *Parameters) *float64 { return &p.JLR }),

	"Je0L": scalar(func(p *Parameters) *float64 { return &p.Je0L }),
	"Je0R": scalar(func(p *Parameters) *float64 { return &p.Je0R }),
	"Je0m": scalar(func(p *Parameters) *float64 { return &p.Je0m }),

	"Je1L":  scalar(func(p *Parameters) *float64 { return &p.Je1L }),
	"Je1R":  scalar(func(p *Parameters) *float64 { return &p.Je1R }),
	"Je1m":  scalar(func(p *Parameters) *float64 { return &p.Je1m }),
	"Je1mL": scalar(func(p *Parameters) *float64 { return &p.Je1mL }),
	"Je1mR": scalar(func(p *Parameters) *float64 { return &p.Je1mR }),
	"Je1LR": scalar(func(p *Parameters) *float64 { return &p.Je1LR }),

	"JeeL":  scalar(func(p *Parameters) *float64 { return &p.JeeL }),
	"JeeR":  scalar(func(p *Parameters) *float64 { return &p.JeeR }),
	"Jeem":  scalar(func(p *Parameters) *float64 { return &p.Jeem }),
	"JeemL": scalar(func(p *Parameters) *float64 { return &p.JeemL }),
	"JeemR": scalar(func(p *Parameters) *float64 { return &p.JeemR }),
	"JeeLR": scalar(func(p *Parameters) *float64 { return &p.JeeLR }),

	"bL":  scalar(func(p *Parameters) *float64 { return &p.BL }),
	"bR":  scalar(func(p *Parameters) *float64 { return &p.BR }),
	"bm":  scalar(func(p *Parameters) *float64 { return &p.Bm }),
	"bmL": scalar(func(p *Parameters) *float64 { return &p.BmL }),
	"bmR": scalar(func(p *Parameters) *float64 { return &p.BmR }),
	"bLR": scalar(func(p *Parameters) *float64 { return &p.BLR }),

	"AL_x": scalar(func(p *Parameters) *float64 { return &p.AL.X }),
	"AL_y": scalar(func(p *Parameters) *float64 { return &p.AL.Y }),
	"AL_z": scalar(func(p *Parameters) *float64 { return &p.AL.Z }),
	"AR_x": scalar(func(p *Parameters) *float64 { return &p.AR.X }),
	"AR_y": scalar(func(p *Parameters) *float64 { return &p.AR.Y }),
	"AR_z": scalar(func(p *Parameters) *float64 { return &p.AR.Z }),
	"Am_x": scalar(func(p *Parameters) *float64 { return &p.Am.X }),
	"Am_y": scalar(func(p *Parameters) *float64 { return &p.Am.Y }),
	"Am_z": scalar(func(p *Parameters) *float64 { return &p.Am.Z }),

	"DL_x":  scalar(func(p *Parameters) *float64 { return &p.DL.X }),
	"DL_y":  scalar(func(p *Parameters) *float64 { return &p.DL.Y }),
	"DL_z":  scalar(func(p *Parameters) *float64 { return &p.DL.Z }),
	"DR_x":  scalar(func(p *Parameters) *float64 { return &p.DR.X }),
	"DR_y":  scalar(func(p *Parameters) *float64 { return &p.DR.Y }),
	"DR_z":  scalar(func(p *Parameters) *float64 { return &p.DR.Z }),
	"Dm_x":  scalar(func(p *Parameters) *float64 { return &p.Dm.X }),
	"Dm_y":  scalar(func(p *Parameters) *float64 { return &p.Dm.Y }),
	"Dm_z":  scalar(func(p *Parameters) *float64 { return &p.Dm.Z }),
	"DmL_x": scalar(func(p *Parameters) *float64 { return &p.DmL.X }),
	"DmL_y": scalar(func(p *Parameters) *float64 { return &p.DmL.Y }),
	"DmL_z": scalar(func(p *Parameters) *float64 { return &p.DmL.Z }),
	"DmR_x": scalar(func(p *Parameters) *float64 { return &p.DmR.X }),
	"DmR_y": scalar(func(p *Parameters) *float64 { return &p.DmR.Y }),
	"DmR_z": scalar(func(p *Parameters) *float64 { return &p.DmR.Z }),
	"DLR_x": scalar(func(p *Parameters) *float64 { return &p.DLR.X }),
	"DLR_y": scalar(func(p *Parameters) *float64 { return &p.DLR.Y }),
	"DLR_z": scalar(func(p *Parameters) *float64 { return &p.DLR.Z }),
}

// Set assigns a swept value by its sweep-file name. It reports false for
// names with no parameter slot (fixed keys like "width" fall through here;
// the caller already consumed them as globals).
func (p *Parameters) Set(name string, v float64) bool {
	f, ok := fields[name]
	if !ok {
		return false
	}
	f.set(p, v)
	return true
}

// Get returns the current value of a parameter by its sweep-file name.
func (p *Parameters) Get(name string) (float64, bool) {
	f, ok := fields[name]
	if !ok {
		return 0, false
	}
	return f.get(p), true
}
