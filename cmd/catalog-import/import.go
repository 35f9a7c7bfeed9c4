package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/catalog-import/internal/importer"
)

// Exit codes of the import command.
const (
	exitAborted    = 1
	exitRowsFailed = 2
)

type importOptions struct {
	mode      string
	failedOut string
	strict    bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import a product CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", "", "Import mode: add-update, delete or replace (default: IMPORT_MODE)")
	cmd.Flags().StringVar(&opts.failedOut, "failed-out", "", "Write rejected rows to this CSV file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit with status 2 when any row fails")
	return cmd
}

func runImport(ctx context.Context, path string, opts importOptions) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	im := a.importer
	if opts.mode != "" {
		mode, err := importer.ParseMode(opts.mode)
		if err != nil {
			return err
		}
		im = im.WithMode(mode)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Import.Timeout)
	defer cancel()

	result, runErr := im.Run(ctx, filepath.Base(path), f)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}

	if runErr != nil {
		return exitError{code: exitAborted, err: runErr}
	}
	if opts.failedOut != "" && len(result.FailedRows) > 0 {
		if err := writeFailedRows(opts.failedOut, result.FailedRows); err != nil {
			return fmt.Errorf("write failed rows: %w", err)
		}
	}
	if opts.strict && len(result.FailedRows) > 0 {
		return exitError{code: exitRowsFailed, err: fmt.Errorf("%d rows failed", len(result.FailedRows))}
	}
	return nil
}

// writeFailedRows writes one line per rejected row: its location and error
// followed by the original cells.
func writeFailedRows(path string, rows []importer.FailedRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"file", "line", "sku", "code", "reason", "data..."}); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		rec := append([]string{row.FileName, strconv.Itoa(row.LineNumber), row.SKU, row.Code, row.Reason}, row.Data...)
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
