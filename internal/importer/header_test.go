package importer

import (
	"reflect"
	"testing"
)

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  sku ", "sku"},
		{`="00123"`, "00123"},
		{`"name"`, "name"},
		{`'price'`, "price"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanCell(tt.in); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanValue_KeepsQuotes(t *testing.T) {
	if got := cleanValue(` 12" Pizza `); got != `12" Pizza` {
		t.Errorf("cleanValue() = %q", got)
	}
	if got := cleanValue(`="0042"`); got != "0042" {
		t.Errorf("cleanValue() = %q", got)
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{"SKU", " Name ", "", "sku", `="qty"`})

	want := HeaderIndex{"sku": 0, "name": 1, "qty": 4}
	if !reflect.DeepEqual(idx, want) {
		t.Errorf("MakeHeaderIndex() = %v, want %v", idx, want)
	}
	if got := idx.Columns(); !reflect.DeepEqual(got, []string{"name", "qty", "sku"}) {
		t.Errorf("Columns() = %v", got)
	}
}

func TestRow(t *testing.T) {
	row := Row{Line: 2, header: MakeHeaderIndex([]string{"sku", "name", "qty"}), cells: []string{" P-1 ", ""}}

	if got := row.Value("sku"); got != "P-1" {
		t.Errorf("Value(sku) = %q", got)
	}
	if _, ok := row.Lookup("qty"); ok {
		t.Error("Lookup(qty) found a value past the end of a short record")
	}
	if _, ok := row.Lookup("price"); ok {
		t.Error("Lookup(price) found an unknown column")
	}
	if got := row.ValueOr("name", "fallback"); got != "fallback" {
		t.Errorf("ValueOr(name) = %q", got)
	}
}

func TestURLKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Crème Brûlée Set (6)", "creme-brulee-set-6"},
		{"  Blue -- Shirt  ", "blue-shirt"},
		{"Ångström", "angstrom"},
		{"!!!", ""},
		{"already-a-key", "already-a-key"},
	}
	for _, tt := range tests {
		if got := URLKey(tt.in); got != tt.want {
			t.Errorf("URLKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs(" 3, ,4,")
	if err != nil {
		t.Fatalf("parseIDs() error = %v", err)
	}
	if !reflect.DeepEqual(ids, []int64{3, 4}) {
		t.Errorf("parseIDs() = %v", ids)
	}

	if _, err := parseIDs("3,x"); err == nil {
		t.Error("parseIDs(3,x) expected error")
	}
	if ids, _ := parseIDs(""); ids != nil {
		t.Errorf("parseIDs(\"\") = %v, want nil", ids)
	}
}

func TestFingerprint(t *testing.T) {
	a := fingerprint([]string{"P-1", "Tee"})
	if a != fingerprint([]string{"P-1", "Tee"}) {
		t.Error("fingerprint is not stable")
	}
	if a == fingerprint([]string{"P-1T", "ee"}) {
		t.Error("fingerprint ignores cell boundaries")
	}
}
