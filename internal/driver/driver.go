// Package driver runs one sweep end to end: it validates the parsed input,
// opens the journal, enumerates configurations, feeds them through the job
// pool, and appends each completed result in completion order.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spinlab/magsweep/internal/engine"
	"github.com/spinlab/magsweep/internal/pool"
	"github.com/spinlab/magsweep/internal/report"
	"github.com/spinlab/magsweep/internal/sweep"
	"github.com/spinlab/magsweep/internal/telemetry"
	"github.com/spinlab/magsweep/internal/ui"
)

// ErrOutput marks a journal path that could not be written before any job
// ran.
var ErrOutput = errors.New("driver: output path unusable")

// Run holds everything one sweep needs. Zero-value optional fields fall back
// to sensible behavior: nil Factory uses the real engine, Workers < 1 uses
// hardware parallelism, nil Emitter emits nothing, nil Archive archives
// nothing.
type Run struct {
	Spec      *sweep.Spec
	Args      []string // echoed into the report preamble
	OutPath   string
	FlipMode  engine.FlipMode
	InitMode  engine.InitMode
	Molecule  *engine.Molecule
	MolSel    string // molecule selector as given: LINEAR, CIRCULAR, or a path
	MolSource string // descriptor path, empty for parametric molecules
	Workers   int
	Poll      time.Duration
	Snapshot  bool
	Verbose   bool // per-job lines instead of the in-place progress bar

	Factory engine.Factory
	Printer *ui.Printer
	Emitter *telemetry.Emitter
	Archive *report.Archive
}

// outcome carries one finished job from a worker back to the consumer loop.
// Warnings are printed there, not in the worker, so all terminal output
// stays on one goroutine.
type outcome struct {
	idx      int
	rec      report.Record
	warnings []string
	err      error
}

// Execute performs the whole sweep. It returns nil once every configuration
// has run and the final journal write finished; startup failures return
// classified errors before any job runs.
func (r *Run) Execute() error {
	if err := r.Spec.CheckRequired(); err != nil {
		return err
	}

	geom, steps, err := r.globals()
	if err != nil {
		return err
	}

	factory := r.Factory
	if factory == nil {
		factory = engine.New
	}
	// Build one device up front so geometry and molecule problems surface
	// before the journal is created.
	if _, err := factory(geom, r.Molecule); err != nil {
		return err
	}

	doc := report.NewDocument("magsweep", r.Args, r.Spec, r.globalValues())
	doc.SetModes(r.FlipMode.String(), r.InitMode.String(), r.MolSel)
	if r.MolSource != "" {
		doc.SetMolecule(r.MolSource, r.Molecule)
	}
	journal := report.NewJournal(r.OutPath, doc)
	if err := journal.Write(); err != nil {
		return fmt.Errorf("%w: %v", ErrOutput, err)
	}

	if r.Archive != nil {
		if err := r.Archive.Begin(context.Background(), doc); err != nil {
			r.printer().Warn(err.Error())
		}
	}

	workers := r.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	space := r.Spec.Space()
	total := space.Count()
	started := time.Now()

	r.printer().RunStart(total, workers)
	r.emit(telemetry.Event{Kind: telemetry.KindRunStart, Data: map[string]int{
		"jobs":    total,
		"workers": workers,
	}})

	p := pool.New[outcome](workers, r.Poll)
	done := 0
	idx := 0
	for space.HasNext() {
		point := space.Next()
		idx++
		if r.Verbose {
			r.printer().JobStart(idx, total)
		}
		r.emit(telemetry.Event{Kind: telemetry.KindJobStart, Job: idx})
		if out, ok := p.Submit(r.job(factory, geom, steps, idx, point)); ok {
			r.record(journal, out, &done, total, started)
		}
	}
	p.Drain(func(out outcome) {
		r.record(journal, out, &done, total, started)
	})
	if !r.Verbose {
		r.printer().ProgressDone()
	}

	elapsed := time.Since(started)
	r.printer().RunDone(journal.Len(), elapsed)
	r.emit(telemetry.Event{Kind: telemetry.KindRunDone, Data: map[string]any{
		"records": journal.Len(),
		"elapsed": elapsed.String(),
	}})
	return nil
}

// stepCounts are the fixed run-length controls shared by every job.
type stepCounts struct {
	equilibrate uint64
	measure     uint64
	freq        uint64
}

func (r *Run) globals() (engine.Geometry, stepCounts, error) {
	var g engine.Geometry
	var s stepCounts
	ints := []struct {
		key string
		dst *int
	}{
		{"width", &g.Width}, {"height", &g.Height}, {"depth", &g.Depth},
		{"molPosL", &g.MolPosL}, {"molPosR", &g.MolPosR},
		{"topL", &g.TopL}, {"bottomL", &g.BottomL},
		{"frontR", &g.FrontR}, {"backR", &g.BackR},
	}
	for _, f := range ints {
		v, err := r.Spec.Global(f.key)
		if err != nil {
			return g, s, err
		}
		*f.dst = int(v)
	}
	counts := []struct {
		key string
		dst *uint64
	}{
		{"t_eq", &s.equilibrate}, {"simCount", &s.measure}, {"freq", &s.freq},
	}
	for _, f := range counts {
		v, err := r.Spec.Global(f.key)
		if err != nil {
			return g, s, err
		}
		*f.dst = uint64(v)
	}
	return g, s, nil
}

// globalValues echoes the required settings into the report preamble.
func (r *Run) globalValues() []report.Value {
	var out []report.Value
	for _, key := range sweep.RequiredKeys {
		v, err := r.Spec.Global(key)
		if err != nil {
			continue // CheckRequired already ran; unreachable in practice
		}
		out = append(out, report.Value{Name: key, Value: v})
	}
	return out
}

// job builds the closure executed by one pool slot.
func (r *Run) job(factory engine.Factory, geom engine.Geometry, steps stepCounts, idx int, point sweep.Point) func() outcome {
	spins := r.Spec.Spins
	snapshot := r.Snapshot
	flip, init := r.FlipMode, r.InitMode
	mol := r.Molecule

	return func() outcome {
		out := outcome{idx: idx}

		dev, err := factory(geom, mol)
		if err != nil {
			out.err = fmt.Errorf("job %d: %w", idx, err)
			return out
		}

		var params engine.Parameters
		for name, v := range point {
			params.Set(name, v)
		}
		dev.SetFlipMode(flip)
		dev.SetParameters(params)

		if init == engine.Randomize {
			dev.Randomize()
		} else {
			dev.Reinitialize()
		}

		for _, s := range spins {
			if err := dev.SetSpin(s.X, s.Y, s.Z, s.Norm); err != nil {
				if errors.Is(err, engine.ErrSiteOutOfRange) {
					out.warnings = append(out.warnings,
						fmt.Sprintf("job %d: spin override [%d %d %d] addresses no site, skipped", idx, s.X, s.Y, s.Z))
					continue
				}
				out.err = fmt.Errorf("job %d: %w", idx, err)
				return out
			}
		}

		dev.Metropolis(steps.equilibrate, 0)
		dev.Metropolis(steps.measure, steps.freq)

		var sites []engine.Site
		if snapshot {
			sites = dev.Snapshot()
		}
		out.rec = report.NewRecord(point, dev.Results(), sites)
		return out
	}
}

// record appends one finished job to the journal and reports progress. It
// runs only on the consumer goroutine.
func (r *Run) record(journal *report.Journal, out outcome, done *int, total int, started time.Time) {
	for _, w := range out.warnings {
		r.printer().Warn(w)
	}
	if out.err != nil {
		r.printer().Error(out.err.Error())
		return
	}

	r.emit(telemetry.Event{Kind: telemetry.KindJobDone, Job: out.idx})

	if err := journal.Append(out.rec); err != nil {
		// Best effort: the record stays in memory and rides out with the
		// next successful rewrite.
		r.printer().Warn(fmt.Sprintf("report write failed: %v", err))
		r.emit(telemetry.Event{Kind: telemetry.KindWriteFailed, Job: out.idx, Data: err.Error()})
	} else {
		r.emit(telemetry.Event{Kind: telemetry.KindRecordAppended, Job: out.idx})
	}

	if r.Archive != nil {
		if err := r.Archive.Append(context.Background(), out.rec); err != nil {
			r.printer().Warn(fmt.Sprintf("archive write failed: %v", err))
		}
	}

	*done++
	if r.Verbose {
		r.printer().RecordAppended(journal.Len())
	} else {
		r.printer().Progress(*done, total, time.Since(started))
	}
}

func (r *Run) printer() *ui.Printer {
	if r.Printer == nil {
		r.Printer = ui.New()
	}
	return r.Printer
}

func (r *Run) emit(evt telemetry.Event) {
	evt.Timestamp = time.Now()
	if err := r.Emitter.Emit(evt); err != nil {
		r.printer().Warn(err.Error())
	}
}
