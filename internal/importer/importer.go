package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/catalog-import/internal/logging"
	"github.com/JonMunkholm/catalog-import/internal/product"
)

// ContextCheckInterval is how often, in rows, a run checks for cancellation.
var ContextCheckInterval = 100

var (
	// ErrEmptyFile is returned for input without a header row.
	ErrEmptyFile = errors.New("file is empty")
	// ErrNoSKUColumn is returned when the header has no sku column.
	ErrNoSKUColumn = errors.New("header has no sku column")
)

// Mode selects what a run does with each row.
type Mode string

const (
	ModeAddUpdate Mode = "add-update"
	ModeDelete    Mode = "delete"
	ModeReplace   Mode = "replace"
)

// ParseMode validates s. An empty string is add-update.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return ModeAddUpdate, nil
	case ModeAddUpdate, ModeDelete, ModeReplace:
		return m, nil
	default:
		return "", fmt.Errorf("unknown import mode %q", s)
	}
}

// Options configures an Importer.
type Options struct {
	// Callbacks are the configured callback override layers.
	Callbacks []map[string][]string

	SourceDateFormat string
	LenientNumeric   bool

	StoreID   int64
	WebsiteID int64
	StockID   int64

	Mode Mode

	// DefaultAttributeSet is used for rows without attribute_set_code.
	DefaultAttributeSet string

	Limiter *Limiter
	Metrics *Metrics

	// History records every run that got a limiter slot. Optional.
	History RunRecorder
}

// RunRecorder stores the outcome of finished runs.
type RunRecorder interface {
	RecordRun(ctx context.Context, result *Result) error
}

// historyTimeout bounds recording a run, which happens after the run context
// may already be done.
const historyTimeout = 5 * time.Second

// Importer runs CSV files against a product.Processor. It is safe for
// concurrent use; every run gets its own BunchSubject.
type Importer struct {
	proc product.Processor
	opts Options
}

// New returns an Importer writing through proc.
func New(proc product.Processor, opts Options) *Importer {
	if opts.Mode == "" {
		opts.Mode = ModeAddUpdate
	}
	if opts.DefaultAttributeSet == "" {
		opts.DefaultAttributeSet = "Default"
	}
	if opts.StockID == 0 {
		opts.StockID = 1
	}
	return &Importer{proc: proc, opts: opts}
}

// WithMode returns a copy of the importer running in mode m.
func (im *Importer) WithMode(m Mode) *Importer {
	cp := *im
	cp.opts.Mode = m
	return &cp
}

// Mode returns the mode runs execute in.
func (im *Importer) Mode() Mode { return im.opts.Mode }

// Limiter returns the run limiter, which may be nil.
func (im *Importer) Limiter() *Limiter { return im.opts.Limiter }

// CallbackMappings resolves the callback mapping a run would use against the
// current attribute metadata.
func (im *Importer) CallbackMappings(ctx context.Context) (product.CallbackMappings, error) {
	subject, err := product.NewBunchSubject(ctx, im.proc, im.subjectOptions(logging.FromContext(ctx)))
	if err != nil {
		return product.CallbackMappings{}, err
	}
	return subject.CallbackMappings(), nil
}

func (im *Importer) record(ctx context.Context, logger *slog.Logger, result *Result) {
	if im.opts.History == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyTimeout)
	defer cancel()
	if err := im.opts.History.RecordRun(ctx, result); err != nil {
		logger.Warn("record import run", "error", err)
	}
}

func (im *Importer) subjectOptions(logger *slog.Logger) product.Options {
	return product.Options{
		Callbacks:        im.opts.Callbacks,
		SourceDateFormat: im.opts.SourceDateFormat,
		LenientNumeric:   im.opts.LenientNumeric,
		StoreID:          im.opts.StoreID,
		Logger:           logger,
	}
}

// Run imports the CSV read from r. The returned Result is never nil; on an
// aborting error it describes the rows handled before the failure.
func (im *Importer) Run(ctx context.Context, filename string, r io.Reader) (result *Result, err error) {
	startTime := time.Now()
	runID := uuid.NewString()
	ctx = logging.ContextWithRunID(ctx, runID)
	logger := logging.WithFields(ctx, "file", filename, "mode", im.opts.Mode)

	result = &Result{RunID: runID, FileName: filename, Mode: im.opts.Mode}
	acquired := false
	defer func() {
		result.Duration = time.Since(startTime)
		if err != nil {
			result.Error = err.Error()
			logger.Error("import aborted", "error", err, "duration", result.Duration)
		}
		im.opts.Metrics.run(im.opts.Mode, err, result.Duration)
		if acquired {
			im.record(ctx, logger, result)
		}
	}()

	if err := im.opts.Limiter.Acquire(ctx); err != nil {
		return result, err
	}
	acquired = true
	im.opts.Metrics.setActive(im.opts.Limiter.Active())
	defer func() {
		im.opts.Limiter.Release()
		im.opts.Metrics.setActive(im.opts.Limiter.Active())
	}()

	subject, err := product.NewBunchSubject(ctx, im.proc, im.subjectOptions(logger))
	if err != nil {
		return result, fmt.Errorf("load callback mappings: %w", err)
	}
	if err := product.VerifyCallbacks(subject.CallbackMappings()); err != nil {
		return result, err
	}
	subject.SetFilename(filename)

	cr := newCSVReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return result, ErrEmptyFile
	}
	if err != nil {
		return result, fmt.Errorf("read header: %w", err)
	}
	idx := MakeHeaderIndex(header)
	if _, ok := idx[colSKU]; !ok {
		return result, ErrNoSKUColumn
	}

	b := &bunch{
		opts:    im.opts,
		subject: subject,
		columns: idx.Columns(),
		sets:    make(map[string]*product.AttributeSet),
		logger:  logger,
	}
	seen := make(map[uint64]struct{})

	logger.Info("import started", "columns", len(idx))

	for i := 0; ; i++ {
		if i%ContextCheckInterval == 0 && ctx.Err() != nil {
			return result, ctx.Err()
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("parse %s: %w", filename, err)
		}
		line, _ := cr.FieldPos(0)

		if isEmptyRow(record) {
			continue
		}
		result.TotalRows++

		key := fingerprint(record)
		if _, dup := seen[key]; dup {
			result.Duplicates++
			im.opts.Metrics.row(statusDuplicate)
			logger.Debug("duplicate row skipped", "line", line)
			continue
		}
		seen[key] = struct{}{}

		row := Row{Line: line, header: idx, cells: record}
		subject.SetLineNumber(line)

		status, err := b.process(ctx, row)
		if err != nil {
			if !product.IsRowError(err) {
				return result, fmt.Errorf("line %d: %w", line, err)
			}
			msg := product.MapError(err)
			result.FailedRows = append(result.FailedRows, FailedRow{
				FileName:   filename,
				LineNumber: line,
				SKU:        row.Value(colSKU),
				Code:       msg.Code,
				Reason:     err.Error(),
				Data:       record,
			})
			im.opts.Metrics.row(statusFailed)
			logger.Warn("row failed", "line", line, "sku", row.Value(colSKU), "code", msg.Code, "error", err)
			continue
		}

		switch status {
		case statusImported:
			result.Imported++
		case statusDeleted:
			result.Deleted++
		default:
			result.Skipped++
		}
		im.opts.Metrics.row(status)
	}

	logger.Info("import finished",
		slog.Int("rows", result.TotalRows),
		slog.Int("imported", result.Imported),
		slog.Int("deleted", result.Deleted),
		slog.Int("failed", len(result.FailedRows)),
		slog.Int("duplicates", result.Duplicates),
		slog.Duration("duration", time.Since(startTime)),
	)
	return result, nil
}
