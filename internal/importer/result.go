package importer

import "time"

// FailedRow is a data row that was rejected. The rest of the file is still
// processed.
type FailedRow struct {
	FileName   string   `json:"file_name"`
	LineNumber int      `json:"line"`
	SKU        string   `json:"sku,omitempty"`
	Code       string   `json:"code"`
	Reason     string   `json:"reason"`
	Data       []string `json:"-"`
}

// Result summarizes an import run.
type Result struct {
	RunID      string        `json:"run_id"`
	FileName   string        `json:"file_name"`
	Mode       Mode          `json:"mode"`
	TotalRows  int           `json:"total_rows"`
	Imported   int           `json:"imported"`
	Deleted    int           `json:"deleted"`
	Skipped    int           `json:"skipped"`
	Duplicates int           `json:"duplicates"`
	FailedRows []FailedRow   `json:"failed_rows"`
	Duration   time.Duration `json:"duration_ns"`
	Error      string        `json:"error,omitempty"` // non-empty if the run aborted
}
