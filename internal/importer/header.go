package importer

import (
	"sort"
	"strings"
)

// Well-known columns.
const (
	colSKU          = "sku"
	colAttributeSet = "attribute_set_code"
	colProductType  = "product_type"
	colWebsiteIDs   = "website_ids"
	colCategoryIDs  = "category_ids"
	colURLKey       = "url_key"
	colName         = "name"
)

// HeaderIndex maps a normalized column name to its position in a record.
type HeaderIndex map[string]int

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Keys are lowercased for case-insensitive matching.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(CleanCell(h))
		if key == "" {
			continue
		}
		if _, dup := idx[key]; dup {
			continue
		}
		idx[key] = i
	}
	return idx
}

// Columns returns the indexed column names in sorted order.
func (h HeaderIndex) Columns() []string {
	cols := make([]string, 0, len(h))
	for c := range h {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// CleanCell removes common CSV artifacts from a header cell:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = cleanValue(s)
	return strings.Trim(s, `"'`)
}

// cleanValue trims a data cell and unwraps an Excel ="..." formula. Quotes
// inside values are kept.
func cleanValue(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		return s[2 : len(s)-1]
	}
	return s
}

// Row is one data record together with the header it was read under.
type Row struct {
	Line   int
	header HeaderIndex
	cells  []string
}

// Lookup returns the cleaned value of col and whether the row has the column.
func (r Row) Lookup(col string) (string, bool) {
	i, ok := r.header[col]
	if !ok || i >= len(r.cells) {
		return "", false
	}
	return cleanValue(r.cells[i]), true
}

// Value returns the cleaned value of col, or "" when absent.
func (r Row) Value(col string) string {
	v, _ := r.Lookup(col)
	return v
}

// ValueOr returns the value of col, or def when it is absent or empty.
func (r Row) ValueOr(col, def string) string {
	if v := r.Value(col); v != "" {
		return v
	}
	return def
}
