package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spinlab/magsweep/internal/config"
	"github.com/spinlab/magsweep/internal/driver"
	"github.com/spinlab/magsweep/internal/engine"
	"github.com/spinlab/magsweep/internal/report"
	"github.com/spinlab/magsweep/internal/sweep"
	"github.com/spinlab/magsweep/internal/telemetry"
	"github.com/spinlab/magsweep/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run <sweep-file> <report-file>",
	Short: "Run every job in a parameter sweep and journal the results",
	Args:  exactArgs(2),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().String("mode", "CONTINUOUS_SPIN_MODEL", "flip mode: CONTINUOUS_SPIN_MODEL or UP_DOWN_MODEL")
	runCmd.Flags().String("init", "REINITIALIZE", "initial state: REINITIALIZE or RANDOMIZE")
	runCmd.Flags().String("molecule", "LINEAR", "molecule: LINEAR, CIRCULAR, or a .toml descriptor path")
	runCmd.Flags().IntP("workers", "w", 0, "concurrent jobs (default: hardware parallelism)")
	runCmd.Flags().String("archive", "", "also mirror records into a SQLite file")
	runCmd.Flags().String("telemetry", "", "write JSONL lifecycle events to this file")
	runCmd.Flags().Bool("no-snapshot", false, "omit per-site snapshots from records")
	runCmd.Flags().BoolP("verbose", "v", false, "print a line per job instead of the progress bar")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	applyFlagOverrides(cmd, &cfg)
	printer := ui.New()

	modeStr, _ := cmd.Flags().GetString("mode")
	flip, err := engine.ParseFlipMode(modeStr)
	if err != nil {
		return &ExitError{Code: ExitFlipMode, Message: err.Error()}
	}
	initStr, _ := cmd.Flags().GetString("init")
	initMode, err := engine.ParseInitMode(initStr)
	if err != nil {
		return &ExitError{Code: ExitInitMode, Message: err.Error()}
	}

	spec, err := parseSweepFile(args[0])
	if err != nil {
		return err
	}
	if err := spec.CheckRequired(); err != nil {
		return err
	}

	selector, _ := cmd.Flags().GetString("molecule")
	mol, molSource, err := resolveMolecule(selector, spec)
	if err != nil {
		return &ExitError{Code: ExitMolecule, Message: err.Error()}
	}

	var emitter *telemetry.Emitter
	if cfg.Telemetry != "" {
		emitter, err = telemetry.NewEmitter(cfg.Telemetry)
		if err != nil {
			return err
		}
		defer emitter.Close()
	}

	var archive *report.Archive
	if cfg.Archive != "" {
		archive, err = report.OpenArchive(context.Background(), cfg.Archive)
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	printer.Banner()
	run := &driver.Run{
		Spec:      spec,
		Args:      args,
		OutPath:   args[1],
		FlipMode:  flip,
		InitMode:  initMode,
		Molecule:  mol,
		MolSel:    selector,
		MolSource: molSource,
		Workers:   cfg.Workers,
		Poll:      time.Duration(cfg.PollIntervalMS) * time.Millisecond,
		Snapshot:  cfg.Snapshot,
		Verbose:   cfg.Verbose,
		Printer:   printer,
		Emitter:   emitter,
		Archive:   archive,
	}
	return run.Execute()
}

// applyFlagOverrides applies CLI flag values to the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		cfg.Workers = v
	}
	if v, _ := cmd.Flags().GetString("archive"); v != "" {
		cfg.Archive = v
	}
	if v, _ := cmd.Flags().GetString("telemetry"); v != "" {
		cfg.Telemetry = v
	}
	if v, _ := cmd.Flags().GetBool("no-snapshot"); v {
		cfg.Snapshot = false
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
}

func parseSweepFile(path string) (*sweep.Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ExitError{Code: ExitParse, Message: fmt.Sprintf("open sweep file: %v", err)}
	}
	defer f.Close()
	return sweep.Parse(f)
}

// resolveMolecule turns the --molecule selector into a molecule spanning the
// gap between the two contact regions. LINEAR and CIRCULAR are parametric;
// anything ending in .toml is loaded as a descriptor.
func resolveMolecule(selector string, spec *sweep.Spec) (*engine.Molecule, string, error) {
	if strings.HasSuffix(selector, ".toml") {
		mol, err := engine.LoadMolecule(selector)
		if err != nil {
			return nil, "", err
		}
		return mol, selector, nil
	}

	left, err := spec.Global("molPosL")
	if err != nil {
		return nil, "", err
	}
	right, err := spec.Global("molPosR")
	if err != nil {
		return nil, "", err
	}
	span := int(right) - int(left) + 1
	if span < 1 {
		return nil, "", fmt.Errorf("molecule span %d from molPosL=%d molPosR=%d", span, int(left), int(right))
	}

	switch selector {
	case "LINEAR":
		return engine.Linear(span), "", nil
	case "CIRCULAR":
		return engine.Ring(span), "", nil
	default:
		return nil, "", fmt.Errorf("unknown molecule selector %q", selector)
	}
}
