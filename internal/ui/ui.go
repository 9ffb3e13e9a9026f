package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/spinlab/magsweep/internal/ansi"
)

// Printer renders run progress and diagnostics to stderr, keeping stdout
// free for anything the user pipes the report into.
type Printer struct{}

// New returns a Printer writing to stderr.
func New() *Printer {
	return &Printer{}
}

// Banner prints the startup banner.
func (p *Printer) Banner() {
	fmt.Fprintln(os.Stderr, ansi.Bold+ansi.Cyan+"  ╔═════════════════════════════════════╗"+ansi.Reset)
	fmt.Fprintln(os.Stderr, ansi.Bold+ansi.Cyan+"  ║"+ansi.Reset+ansi.Bold+"   MAGSWEEP  "+ansi.Dim+"spin lattice sweeps"+ansi.Reset+ansi.Bold+ansi.Cyan+"    ║"+ansi.Reset)
	fmt.Fprintln(os.Stderr, ansi.Bold+ansi.Cyan+"  ╚═════════════════════════════════════╝"+ansi.Reset)
	fmt.Fprintln(os.Stderr)
}

// RunStart announces the job count and worker pool size for a run.
func (p *Printer) RunStart(jobs, workers int) {
	fmt.Fprintf(os.Stderr, ansi.Cyan+"◆ run"+ansi.Reset+" %d job(s) across %d worker(s)\n", jobs, workers)
}

// JobStart announces that job idx of total has begun.
func (p *Printer) JobStart(idx, total int) {
	fmt.Fprintf(os.Stderr, ansi.Blue+ansi.Bold+"▶ job %d/%d"+ansi.Reset+ansi.Dim+" running..."+ansi.Reset+"\n", idx, total)
}

// RecordAppended confirms record n reached the report file.
func (p *Printer) RecordAppended(n int) {
	fmt.Fprintf(os.Stderr, ansi.Green+"✓ record %d"+ansi.Reset+" written\n", n)
}

// RunDone prints the completion summary with record count and wall time.
func (p *Printer) RunDone(records int, elapsed time.Duration) {
	fmt.Fprintf(os.Stderr, ansi.Green+ansi.Bold+"✓ run complete"+ansi.Reset+" — %d record(s) %s\n",
		records, ansi.Dim+FormatElapsed(elapsed)+ansi.Reset)
}

// Warn prints a non-fatal warning.
func (p *Printer) Warn(msg string) {
	fmt.Fprintf(os.Stderr, ansi.Yellow+ansi.Bold+"⚠ "+ansi.Reset+"%s\n", msg)
}

// Error prints an error message.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, ansi.Red+ansi.Bold+"error: "+ansi.Reset+"%s\n", msg)
}

// Info prints a dim secondary line.
func (p *Printer) Info(msg string) {
	fmt.Fprintf(os.Stderr, ansi.Dim+"%s"+ansi.Reset+"\n", msg)
}

// FormatElapsed renders a wall-clock duration as [N days, hh:mm:ss], the
// form long runs are easiest to read at a glance. The days part is omitted
// under 24 hours.
func FormatElapsed(d time.Duration) string {
	secs := int64(d.Seconds())
	days := secs / 86400
	secs %= 86400
	h := secs / 3600
	m := secs % 3600 / 60
	s := secs % 60
	if days == 1 {
		return fmt.Sprintf("[1 day, %02d:%02d:%02d]", h, m, s)
	}
	if days > 1 {
		return fmt.Sprintf("[%d days, %02d:%02d:%02d]", days, h, m, s)
	}
	return fmt.Sprintf("[%02d:%02d:%02d]", h, m, s)
}

// ProgressLine formats a progress line string (without ANSI escape prefix).
// Format: [sweep] 3/7 jobs done (42%) [00:01:09]
// This is exported for testing.
func ProgressLine(done, total int, elapsed time.Duration) string {
	pct := 0
	if total > 0 {
		pct = done * 100 / total
	}
	return fmt.Sprintf("[sweep] %d/%d jobs done (%d%%) %s", done, total, pct, FormatElapsed(elapsed))
}

// Progress redraws the progress line in place on stderr. It clears the
// current line and rewrites it without a trailing newline.
func (p *Printer) Progress(done, total int, elapsed time.Duration) {
	line := ProgressLine(done, total, elapsed)
	fmt.Fprintf(os.Stderr, "\r"+ansi.ClearLine+ansi.Cyan+"%s"+ansi.Reset, line)
}

// ProgressDone writes a final newline after the progress line so subsequent
// output doesn't overwrite it.
func (p *Printer) ProgressDone() {
	fmt.Fprintln(os.Stderr)
}
