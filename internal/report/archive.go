package report

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// archiveSchema is the DDL for the standalone archive SQLite file.
const archiveSchema = `
CREATE TABLE IF NOT EXISTS run (
    version    TEXT NOT NULL,
    generator  TEXT NOT NULL,
    started    TEXT NOT NULL,
    invocation TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    completed TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS record_params (
    record_id INTEGER NOT NULL REFERENCES records(id),
    name      TEXT NOT NULL,
    value     REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS record_results (
    record_id INTEGER NOT NULL REFERENCES records(id),
    name      TEXT NOT NULL,
    value     REAL NOT NULL
);
`

// Archive mirrors run records into a SQLite file alongside the XML journal.
// The relational form makes runs queryable without an XML toolchain: join
// record_params to record_results on record_id and filter by name.
type Archive struct {
	db *sql.DB
}

// OpenArchive creates or opens the archive file and ensures its schema.
func OpenArchive(ctx context.Context, path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("report: open archive %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("report: init archive schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Begin records the run preamble.
func (a *Archive) Begin(ctx context.Context, doc *Document) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO run (version, generator, started, invocation) VALUES (?, ?, ?, ?)`,
		doc.Version, doc.Generator, doc.Started, strings.Join(doc.Args, " "))
	if err != nil {
		return fmt.Errorf("report: insert run: %w", err)
	}
	return nil
}

// Append stores one record with its parameters and results in a single
// transaction.
func (a *Archive) Append(ctx context.Context, rec Record) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("report: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on error paths

	res, err := tx.ExecContext(ctx,
		`INSERT INTO records (completed) VALUES (?)`, rec.Completed)
	if err != nil {
		return fmt.Errorf("report: insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("report: record id: %w", err)
	}

	for _, p := range rec.Params {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO record_params (record_id, name, value) VALUES (?, ?, ?)`,
			id, p.Name, p.Value); err != nil {
			return fmt.Errorf("report: insert param %s: %w", p.Name, err)
		}
	}
	for _, r := range rec.Results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO record_results (record_id, name, value) VALUES (?, ?, ?)`,
			id, r.Name, r.Value); err != nil {
			return fmt.Errorf("report: insert result %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("report: commit record: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}
