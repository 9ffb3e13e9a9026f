// Package report renders simulation output as an XML document and keeps it
// durable on disk while a run is in progress.
//
// The document carries a preamble describing the run — generator, invocation,
// fixed settings, swept value lists, spin overrides, and the molecule when one
// was loaded from a descriptor — followed by one record per completed job.
// The Journal rewrites the whole file after every record so a crash at any
// point leaves the latest fully-written document behind. The Archive mirrors
// the same records into a standalone SQLite file for ad-hoc querying.
package report

import (
	"encoding/xml"
	"time"

	"github.com/spinlab/magsweep/internal/engine"
	"github.com/spinlab/magsweep/internal/sweep"
)

// SchemaVersion identifies the document layout. Bump on incompatible change.
const SchemaVersion = "1.0"

// Document is the full XML report: preamble plus accumulated records.
type Document struct {
	XMLName   xml.Name   `xml:"simulation"`
	Version   string     `xml:"version,attr"`
	Generator string     `xml:"generator"`
	Started   string     `xml:"started"`
	Args      []string   `xml:"invocation>arg"`
	Modes     Modes      `xml:"modes"`
	Globals   []Value    `xml:"settings>setting"`
	Sweeps    []Sweep    `xml:"sweeps>parameter"`
	Overrides []Override `xml:"overrides>spin,omitempty"`
	Molecule  *Molecule  `xml:"molecule,omitempty"`
	Records   []Record   `xml:"data>record"`
}

// Value is one named scalar, used for fixed settings, job parameters, and
// job results alike.
type Value struct {
	Name  string  `xml:"name,attr"`
	Value float64 `xml:",chardata"`
}

// Modes records which flip algorithm, initial state, and molecule selector
// the run was started with, so a report always says how it was produced.
type Modes struct {
	Flip     string `xml:"flip,attr"`
	Init     string `xml:"init,attr"`
	Molecule string `xml:"molecule,attr,omitempty"`
}

// Sweep lists the values one parameter steps through, with the label that
// couples it to other parameters when it has one.
type Sweep struct {
	Name   string    `xml:"name,attr"`
	Label  string    `xml:"label,attr,omitempty"`
	Values []float64 `xml:"value"`
}

// Override is one per-site spin assignment applied after initialization.
type Override struct {
	X    int     `xml:"x,attr"`
	Y    int     `xml:"y,attr"`
	Z    int     `xml:"z,attr"`
	Norm float64 `xml:"norm,attr"`
}

// Molecule echoes a loaded molecule descriptor into the report.
type Molecule struct {
	Source string `xml:"source,attr"`
	Nodes  int    `xml:"nodes,attr"`
	Edges  int    `xml:"edges,attr"`
}

// Record is the outcome of one job: the parameter point it ran at and the
// observables it measured, plus the final lattice state when snapshots are
// enabled.
type Record struct {
	Completed string  `xml:"completed,attr"`
	Params    []Value `xml:"params>param"`
	Results   []Value `xml:"results>result"`
	Sites     []Site  `xml:"snapshot>site,omitempty"`
}

// Site is one lattice site in a record snapshot.
type Site struct {
	X      int        `xml:"x,attr"`
	Y      int        `xml:"y,attr"`
	Z      int        `xml:"z,attr"`
	Spin   engine.Vec `xml:"spin"`
	Flux   engine.Vec `xml:"flux"`
	Moment engine.Vec `xml:"moment"`
}

// NewDocument builds the preamble for a run. Fixed settings, sweep listings,
// and overrides are taken from the parsed input; records start empty.
func NewDocument(generator string, args []string, spec *sweep.Spec, globals []Value) *Document {
	doc := &Document{
		Version:   SchemaVersion,
		Generator: generator,
		Started:   time.Now().Format(time.RFC3339),
		Args:      args,
		Globals:   globals,
	}
	for _, name := range engine.ParamNames {
		values, ok := spec.Params[name]
		if !ok {
			continue
		}
		s := Sweep{Name: name, Values: values}
		if label := spec.LabelOf(name); label != nil {
			s.Label = label.Name
		}
		doc.Sweeps = append(doc.Sweeps, s)
	}
	for _, spin := range spec.Spins {
		doc.Overrides = append(doc.Overrides, Override{
			X: spin.X, Y: spin.Y, Z: spin.Z, Norm: spin.Norm,
		})
	}
	return doc
}

// SetModes echoes the run-mode selections into the preamble.
func (d *Document) SetModes(flip, init, molecule string) {
	d.Modes = Modes{Flip: flip, Init: init, Molecule: molecule}
}

// SetMolecule attaches a molecule descriptor summary to the preamble.
func (d *Document) SetMolecule(source string, mol *engine.Molecule) {
	d.Molecule = &Molecule{
		Source: source,
		Nodes:  len(mol.Nodes),
		Edges:  len(mol.Edges),
	}
}

// NewRecord assembles a record from one finished job.
func NewRecord(point map[string]float64, results engine.Results, snapshot []engine.Site) Record {
	rec := Record{Completed: time.Now().Format(time.RFC3339)}
	for _, name := range engine.ParamNames {
		v, ok := point[name]
		if !ok {
			continue
		}
		rec.Params = append(rec.Params, Value{Name: name, Value: v})
	}
	for _, nv := range results.Fields() {
		rec.Results = append(rec.Results, Value{Name: nv.Name, Value: nv.Value})
	}
	for _, s := range snapshot {
		rec.Sites = append(rec.Sites, Site{
			X: s.X, Y: s.Y, Z: s.Z,
			Spin: s.Spin, Flux: s.Flux, Moment: s.Moment,
		})
	}
	return rec
}

// Marshal renders the document as indented XML with the standard header.
func (d *Document) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}
