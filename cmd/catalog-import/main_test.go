package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalog-import/internal/importer"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "import", "callbacks", "history"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, cmd.Name())
	}
}

func TestImportCmd_RequiresFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"import"})
	root.SetOut(os.Stderr)
	root.SetErr(os.Stderr)
	require.Error(t, root.Execute())
}

func TestRunImport_SQLite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "products.csv")
	failedPath := filepath.Join(dir, "failed.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("sku,name,visibility\nP-1,Tee,Catalog\nP-2,Cap,Nowhere\n"), 0o600))

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:"+filepath.Join(dir, "catalog.db"))
	t.Setenv("DB_BOOTSTRAP", "true")
	t.Setenv("METRICS_ENABLED", "false")

	err := runImport(t.Context(), csvPath, importOptions{failedOut: failedPath, strict: true})
	var exit exitError
	require.ErrorAs(t, err, &exit)
	require.Equal(t, exitRowsFailed, exit.code)

	f, err := os.Open(failedPath)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, []string{"products.csv", "3", "P-2", "IMP001"}, records[1][:4])
	require.Equal(t, []string{"P-2", "Cap", "Nowhere"}, records[1][5:])
}

func TestWriteFailedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failed.csv")
	require.NoError(t, writeFailedRows(path, []importer.FailedRow{
		{FileName: "a.csv", LineNumber: 7, SKU: "X", Code: "IMP004", Reason: "missing sku", Data: []string{"", "Tee"}},
	}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "file,line,sku,code,reason,data...\na.csv,7,X,IMP004,missing sku,,Tee\n", string(b))
}
