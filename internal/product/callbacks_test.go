package product

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func TestResolveCallbackMappings_Defaults(t *testing.T) {
	m := ResolveCallbackMappings(nil, nil, nil)

	if got, want := m.Len(), len(defaultCallbackMappings); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	for code, want := range defaultCallbackMappings {
		if got := m.Get(code); !reflect.DeepEqual(got, want) {
			t.Errorf("Get(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestResolveCallbackMappings_UserDefined(t *testing.T) {
	userDefined := []EavAttribute{
		{AttributeCode: "color", FrontendInput: "select"},
		{AttributeCode: "material", FrontendInput: "multiselect"},
		{AttributeCode: "is_new", FrontendInput: "boolean"},
		{AttributeCode: "notes", FrontendInput: "textarea"},
		{AttributeCode: "visibility", FrontendInput: "select"},
	}

	m := ResolveCallbackMappings(userDefined, nil, nil)

	tests := []struct {
		code string
		want []string
	}{
		{"color", []string{CallbackSelect}},
		{"material", []string{CallbackMultiselect}},
		{"is_new", []string{CallbackBoolean}},
		{"notes", []string{}},
		{"visibility", []string{CallbackVisibility, CallbackSelect}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if !m.Has(tt.code) {
				t.Fatalf("Has(%q) = false, want true", tt.code)
			}
			if got := m.Get(tt.code); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Get(%q) = %#v, want %#v", tt.code, got, tt.want)
			}
		})
	}
}

func TestResolveCallbackMappings_OverrideReplaces(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	userDefined := []EavAttribute{{AttributeCode: "color", FrontendInput: "select"}}
	overrides := []map[string][]string{
		{"color": {"custom_color"}},
		{"brand": {"brand_lookup"}},
	}

	m := ResolveCallbackMappings(userDefined, overrides, logger)

	if got, want := m.Get("color"), []string{"custom_color"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Get(color) = %v, want %v", got, want)
	}
	if got, want := m.Get("brand"), []string{"brand_lookup"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Get(brand) = %v, want %v", got, want)
	}

	out := buf.String()
	if n := strings.Count(out, "now override callback mappings"); n != 1 {
		t.Errorf("override notices = %d, want 1\n%s", n, out)
	}
	if !strings.Contains(out, "attribute_code=color") {
		t.Errorf("notice missing attribute code:\n%s", out)
	}
}

func TestResolveCallbackMappings_LaterLayerWins(t *testing.T) {
	overrides := []map[string][]string{
		{"visibility": {"first"}},
		{"visibility": {"second", "third"}},
	}

	m := ResolveCallbackMappings(nil, overrides, nil)

	if got, want := m.Get("visibility"), []string{"second", "third"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Get(visibility) = %v, want %v", got, want)
	}
}

func TestResolveCallbackMappings_Idempotent(t *testing.T) {
	userDefined := []EavAttribute{{AttributeCode: "color", FrontendInput: "select"}}
	overrides := []map[string][]string{{"tax_class_id": {"a", "b"}}}

	first := ResolveCallbackMappings(userDefined, overrides, nil)
	second := ResolveCallbackMappings(userDefined, overrides, nil)

	if !reflect.DeepEqual(first.All(), second.All()) {
		t.Errorf("resolution not idempotent:\nfirst  %v\nsecond %v", first.All(), second.All())
	}
	if got, want := second.Get("color"), []string{CallbackSelect}; !reflect.DeepEqual(got, want) {
		t.Errorf("Get(color) after re-resolution = %v, want %v", got, want)
	}
	if got := defaultCallbackMappings["tax_class_id"]; !reflect.DeepEqual(got, []string{CallbackTaxClass}) {
		t.Errorf("defaults mutated: tax_class_id = %v", got)
	}
}

func TestCallbackMappings_GetReturnsCopy(t *testing.T) {
	m := ResolveCallbackMappings(nil, nil, nil)

	ids := m.Get("visibility")
	ids[0] = "mutated"

	if got := m.Get("visibility")[0]; got != CallbackVisibility {
		t.Errorf("Get(visibility)[0] = %q after caller mutation, want %q", got, CallbackVisibility)
	}
	if got := m.Get("unknown"); got != nil {
		t.Errorf("Get(unknown) = %v, want nil", got)
	}
}

func TestCallbackMappings_CodesSorted(t *testing.T) {
	m := ResolveCallbackMappings(nil, nil, nil)
	codes := m.Codes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] > codes[i] {
			t.Fatalf("Codes() not sorted: %v", codes)
		}
	}
}
