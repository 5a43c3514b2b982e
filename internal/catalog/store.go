// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists the local sync catalog: one row per sync run, with
// per-volume and per-document statistics. The catalog answers "what was
// synced, when, and how did it go" without querying the search index.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/buda-base/etext-sync/pkg/types"
)

const dbFile = "catalog.db"

// Store manages the sync catalog SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the catalog database at catalogDir/catalog.db,
// creating the schema when missing.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sync_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			instance TEXT NOT NULL,
			started TEXT NOT NULL,
			finished TEXT,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS volumes (
			run_id INTEGER NOT NULL REFERENCES sync_runs(id),
			name TEXT NOT NULL,
			number INTEGER NOT NULL,
			documents INTEGER NOT NULL,
			pages INTEGER NOT NULL,
			chars INTEGER NOT NULL,
			warnings INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			PRIMARY KEY (run_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			run_id INTEGER NOT NULL REFERENCES sync_runs(id),
			volume TEXT NOT NULL,
			target_id TEXT NOT NULL,
			start_offset INTEGER NOT NULL,
			end_offset INTEGER NOT NULL,
			pages INTEGER NOT NULL,
			chars INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id, volume)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_instance ON sync_runs(instance)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun records the start of a sync run for an instance and returns the
// run id.
func (s *Store) BeginRun(instance string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO sync_runs (instance, started, status) VALUES (?, ?, 'running')`,
		instance, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("recording sync run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun marks a run finished with the given status ("ok", "failed", or
// "partial").
func (s *Store) FinishRun(runID int64, status string) error {
	_, err := s.db.Exec(
		`UPDATE sync_runs SET finished = ?, status = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), status, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing sync run %d: %w", runID, err)
	}
	return nil
}

// RecordVolume stores the outcome of segmenting one volume: its logical
// documents with their extents, and aggregate counts from the report.
func (s *Store) RecordVolume(runID int64, volNum int, docs []types.LogicalDocument, report types.VolumeReport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting catalog transaction: %w", err)
	}
	defer tx.Rollback()

	pages, chars := 0, 0
	for _, doc := range docs {
		pages += len(doc.Annotations.Pages)
		chars += len(doc.Text)
		if _, err := tx.Exec(
			`INSERT INTO documents (run_id, volume, target_id, start_offset, end_offset, pages, chars)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, report.Volume, doc.TargetID, doc.StartOffset, doc.EndOffset,
			len(doc.Annotations.Pages), len(doc.Text),
		); err != nil {
			return fmt.Errorf("recording document %s: %w", doc.TargetID, err)
		}
	}

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO volumes (run_id, name, number, documents, pages, chars, warnings, errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, report.Volume, volNum, len(docs), pages, chars,
		len(report.Warnings), len(report.Errors),
	); err != nil {
		return fmt.Errorf("recording volume %s: %w", report.Volume, err)
	}

	return tx.Commit()
}

// RunSummary describes one past sync run.
type RunSummary struct {
	ID        int64
	Instance  string
	Started   string
	Finished  string
	Status    string
	Volumes   int
	Documents int
}

// LastRun returns the most recent run for an instance, or nil when the
// instance has never been synced.
func (s *Store) LastRun(instance string) (*RunSummary, error) {
	row := s.db.QueryRow(
		`SELECT r.id, r.instance, r.started, COALESCE(r.finished, ''), r.status,
		        (SELECT COUNT(*) FROM volumes v WHERE v.run_id = r.id),
		        (SELECT COUNT(*) FROM documents d WHERE d.run_id = r.id)
		 FROM sync_runs r WHERE r.instance = ? ORDER BY r.id DESC LIMIT 1`,
		instance,
	)
	var sum RunSummary
	err := row.Scan(&sum.ID, &sum.Instance, &sum.Started, &sum.Finished, &sum.Status, &sum.Volumes, &sum.Documents)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying last run for %s: %w", instance, err)
	}
	return &sum, nil
}
