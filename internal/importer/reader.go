package importer

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// newCSVReader reads r as UTF-8: a leading byte order mark is dropped and
// ill-formed sequences become U+FFFD.
func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// fingerprint identifies a record for duplicate detection.
func fingerprint(row []string) uint64 {
	return xxh3.Hash([]byte(strings.Join(row, "\x1f")))
}
