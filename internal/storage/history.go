package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonMunkholm/catalog-import/internal/importer"
)

// DefaultHistoryLimit is the page size of History.Recent.
const DefaultHistoryLimit = 50

const (
	insertImportRun = `INSERT INTO catalog_import_run
(run_id, file_name, mode, total_rows, imported, deleted, skipped, duplicates, failed, failed_rows, error, duration_ms, finished_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	importRunColumns = `run_id, file_name, mode, total_rows, imported, deleted, skipped, duplicates, failed, error, duration_ms, finished_at`

	listImportRuns = `SELECT ` + importRunColumns + ` FROM catalog_import_run ORDER BY finished_at DESC, run_id LIMIT ?`

	loadImportRun = `SELECT ` + importRunColumns + `, failed_rows FROM catalog_import_run WHERE run_id = ?`
)

// ImportRun is a stored import run.
type ImportRun struct {
	RunID      string               `json:"run_id"`
	FileName   string               `json:"file_name"`
	Mode       string               `json:"mode"`
	TotalRows  int                  `json:"total_rows"`
	Imported   int                  `json:"imported"`
	Deleted    int                  `json:"deleted"`
	Skipped    int                  `json:"skipped"`
	Duplicates int                  `json:"duplicates"`
	Failed     int                  `json:"failed"`
	FailedRows []importer.FailedRow `json:"failed_rows,omitempty"` // only set by Get
	Error      string               `json:"error,omitempty"`
	DurationMS int64                `json:"duration_ms"`
	FinishedAt time.Time            `json:"finished_at"`
}

// History keeps one catalog_import_run row per import run.
type History struct {
	db  DB
	now func() time.Time
}

var _ importer.RunRecorder = (*History)(nil)

// NewHistory returns a History on db.
func NewHistory(db DB) *History {
	return &History{
		db:  db,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// RecordRun stores result.
func (h *History) RecordRun(ctx context.Context, result *importer.Result) error {
	failedRows, err := json.Marshal(result.FailedRows)
	if err != nil {
		return fmt.Errorf("encode failed rows: %w", err)
	}

	_, err = h.db.Exec(ctx, insertImportRun,
		result.RunID, result.FileName, string(result.Mode),
		result.TotalRows, result.Imported, result.Deleted, result.Skipped, result.Duplicates,
		len(result.FailedRows), string(failedRows), nullString(result.Error),
		result.Duration.Milliseconds(), h.now(),
	)
	return wrap("record import run", err)
}

// Recent returns the latest runs, newest first. A limit <= 0 uses
// DefaultHistoryLimit.
func (h *History) Recent(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := h.db.Query(ctx, listImportRuns, limit)
	if err != nil {
		return nil, wrap("list import runs", err)
	}
	defer rows.Close()

	var out []ImportRun
	for rows.Next() {
		var (
			run    ImportRun
			errMsg sql.NullString
		)
		if err := rows.Scan(runDest(&run, &errMsg)...); err != nil {
			return nil, wrap("scan import run", err)
		}
		run.Error = errMsg.String
		out = append(out, run)
	}
	return out, wrap("list import runs", rows.Err())
}

// Get returns one run with its failed rows, or product.ErrNotFound.
func (h *History) Get(ctx context.Context, runID string) (*ImportRun, error) {
	var (
		run        ImportRun
		errMsg     sql.NullString
		failedRows sql.NullString
	)
	dest := append(runDest(&run, &errMsg), &failedRows)
	if err := h.db.QueryRow(ctx, loadImportRun, runID).Scan(dest...); err != nil {
		return nil, wrap("load import run", err)
	}
	run.Error = errMsg.String

	if failedRows.Valid && failedRows.String != "" {
		if err := json.Unmarshal([]byte(failedRows.String), &run.FailedRows); err != nil {
			return nil, fmt.Errorf("decode failed rows of run %s: %w", runID, err)
		}
	}
	return &run, nil
}

func runDest(run *ImportRun, errMsg *sql.NullString) []any {
	return []any{
		&run.RunID, &run.FileName, &run.Mode,
		&run.TotalRows, &run.Imported, &run.Deleted, &run.Skipped, &run.Duplicates, &run.Failed,
		errMsg, &run.DurationMS, &run.FinishedAt,
	}
}

const pruneImportRuns = `DELETE FROM catalog_import_run WHERE finished_at < ?`

// Prune deletes runs that finished before cutoff and returns how many.
func (h *History) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := h.db.Exec(ctx, pruneImportRuns, cutoff.UTC())
	return n, wrap("prune import runs", err)
}
