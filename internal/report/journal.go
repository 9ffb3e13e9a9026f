package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// Journal keeps a Document durable on disk. Every append rewrites the whole
// file through a temp-file-and-rename cycle, so readers and crash recovery
// always find a complete document at the journal path, never a partial write.
type Journal struct {
	path string
	doc  *Document
}

// NewJournal binds a document to an output path. Nothing touches the disk
// until Write or Append.
func NewJournal(path string, doc *Document) *Journal {
	return &Journal{path: path, doc: doc}
}

// Path returns the journal's output path.
func (j *Journal) Path() string { return j.path }

// Len returns the number of records appended so far.
func (j *Journal) Len() int { return len(j.doc.Records) }

// Write persists the current document. Called once up front, it proves the
// output path is usable before any job runs.
func (j *Journal) Write() error {
	body, err := j.doc.Marshal()
	if err != nil {
		return fmt.Errorf("report: marshal document: %w", err)
	}

	dir := filepath.Dir(j.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(j.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("report: create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("report: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("report: sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("report: replace %s: %w", j.path, err)
	}
	return nil
}

// Append adds one record and rewrites the file. On write failure the record
// stays in the in-memory document, so a later successful append persists it.
func (j *Journal) Append(rec Record) error {
	j.doc.Records = append(j.doc.Records, rec)
	return j.Write()
}
