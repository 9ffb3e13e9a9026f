// Package watch follows a report file on disk and emits an update each time
// the journal rewrites it, so a separate terminal can track a long run's
// progress without touching the run itself.
package watch

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spinlab/magsweep/internal/report"
)

// Update describes the journal state after one observed rewrite.
type Update struct {
	Path    string
	Records int
	Started string
	Err     error // set when the file could not be read or parsed
}

// Watcher monitors a journal file for rewrites using fsnotify. The journal
// replaces its file by rename, so the watch is on the containing directory
// with events filtered to the journal's name.
type Watcher struct {
	Path    string
	Updates <-chan Update // Read-only external channel

	updates chan Update // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for the journal at path.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Update, 16)
	w := &Watcher{
		Path:    abs,
		Updates: ch,
		updates: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start begins watching the journal's directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.updates)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce: coalesce the temp-write/rename burst of one journal rewrite.
	const debounce = 100 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emit()
				}
				return
			}

			if !w.isJournal(event.Name) {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			if !pending.IsZero() && time.Since(pending) >= debounce {
				w.emit()
				pending = time.Time{}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

func (w *Watcher) isJournal(name string) bool {
	return filepath.Base(name) == filepath.Base(w.Path)
}

func (w *Watcher) emit() {
	body, err := os.ReadFile(w.Path)
	if err != nil {
		w.send(Update{Path: w.Path, Err: err})
		return
	}
	var doc report.Document
	if err := xml.Unmarshal(body, &doc); err != nil {
		w.send(Update{Path: w.Path, Err: err})
		return
	}
	w.send(Update{
		Path:    w.Path,
		Records: len(doc.Records),
		Started: doc.Started,
	})
}

// send never blocks the watch loop. When the consumer has fallen behind and
// the buffer is full, the oldest queued update is evicted so the freshest
// journal state is the one that gets delivered — and Stop can always finish.
func (w *Watcher) send(u Update) {
	for {
		select {
		case w.updates <- u:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}
