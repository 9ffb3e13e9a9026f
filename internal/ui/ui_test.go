package ui

import (
	"os"
	"strings"
	"testing"
	"time"
)

// captureStderr redirects os.Stderr to a pipe and returns the captured output.
func captureStderr(fn func()) string {
	r, w, _ := os.Pipe()
	orig := os.Stderr
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = orig

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	r.Close()
	return string(buf[:n])
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "[00:00:00]"},
		{"seconds", 42 * time.Second, "[00:00:42]"},
		{"minutes", 3*time.Minute + 5*time.Second, "[00:03:05]"},
		{"hours", 13*time.Hour + 7*time.Minute + 9*time.Second, "[13:07:09]"},
		{"one day", 24*time.Hour + time.Second, "[1 day, 00:00:01]"},
		{"days", 49*time.Hour + 30*time.Minute, "[2 days, 01:30:00]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatElapsed(tt.d); got != tt.want {
				t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestProgressLine_Basic(t *testing.T) {
	line := ProgressLine(3, 7, 69*time.Second)

	checks := []struct {
		name   string
		substr string
	}{
		{"prefix", "[sweep]"},
		{"job ratio", "3/7 jobs done"},
		{"percent", "(42%)"},
		{"elapsed", "[00:01:09]"},
	}

	for _, c := range checks {
		if !strings.Contains(line, c.substr) {
			t.Errorf("expected line to contain %s (%q), got: %s", c.name, c.substr, line)
		}
	}
}

func TestProgressLine_AllComplete(t *testing.T) {
	line := ProgressLine(5, 5, time.Minute)

	if !strings.Contains(line, "5/5 jobs done") {
		t.Errorf("expected 5/5 jobs done, got: %s", line)
	}
	if !strings.Contains(line, "(100%)") {
		t.Errorf("expected 100%%, got: %s", line)
	}
}

func TestProgressLine_ZeroTotal(t *testing.T) {
	// Edge case: no jobs at all.
	line := ProgressLine(0, 0, 0)

	if !strings.Contains(line, "[sweep]") {
		t.Errorf("expected [sweep] prefix, got: %s", line)
	}
	if !strings.Contains(line, "0/0 jobs done") {
		t.Errorf("expected 0/0 jobs done, got: %s", line)
	}
	if !strings.Contains(line, "(0%)") {
		t.Errorf("expected 0%% for zero total, got: %s", line)
	}
}

func TestProgress_WritesToStderr(t *testing.T) {
	p := New()
	output := captureStderr(func() {
		p.Progress(2, 5, 90*time.Second)
	})

	if len(output) == 0 {
		t.Error("expected Progress to write to stderr, got no output")
	}
	if !strings.Contains(output, "2/5 jobs done") {
		t.Errorf("expected output to contain job ratio, got: %s", output)
	}
	if !strings.Contains(output, "\r") {
		t.Errorf("expected output to contain carriage return, got: %q", output)
	}
}

func TestRunDone_OutputToStderr(t *testing.T) {
	p := New()
	output := captureStderr(func() {
		p.RunDone(12, 95*time.Second)
	})

	if !strings.Contains(output, "run complete") {
		t.Errorf("expected completion banner, got: %s", output)
	}
	if !strings.Contains(output, "12 record(s)") {
		t.Errorf("expected record count, got: %s", output)
	}
	if !strings.Contains(output, "[00:01:35]") {
		t.Errorf("expected elapsed time, got: %s", output)
	}
}

func TestWarn_OutputToStderr(t *testing.T) {
	p := New()
	output := captureStderr(func() {
		p.Warn("spin override outside lattice at [9 0 0]")
	})

	if !strings.Contains(output, "spin override outside lattice") {
		t.Errorf("expected warning text, got: %s", output)
	}
}
