package product

// callbacks.go resolves which callbacks run for each attribute code.
//
// Resolution happens once per bunch, in three passes:
//
//  1. copy of defaultCallbackMappings (well-known catalog attributes)
//  2. every user-defined attribute gets an entry; if its frontend input has a
//     default callback, that callback is appended to the entry
//  3. each configured override layer replaces the whole list for its codes,
//     logging a notice when an earlier pass already defined the code
//
// The result is immutable. Callback order is execution order.

import (
	"log/slog"
	"sort"
)

// Callback ids of the built-in callbacks.
const (
	CallbackVisibility         = "visibility"
	CallbackTaxClass           = "tax_class"
	CallbackBundleType         = "bundle_type"
	CallbackBundlePriceView    = "bundle_price_view"
	CallbackBundleShipmentType = "bundle_shipment_type"
	CallbackSelect             = "select"
	CallbackMultiselect        = "multiselect"
	CallbackBoolean            = "boolean"
)

var defaultCallbackMappings = map[string][]string{
	"visibility":           {CallbackVisibility},
	"tax_class_id":         {CallbackTaxClass},
	"bundle_price_type":    {CallbackBundleType},
	"bundle_sku_type":      {CallbackBundleType},
	"bundle_weight_type":   {CallbackBundleType},
	"bundle_price_view":    {CallbackBundlePriceView},
	"bundle_shipment_type": {CallbackBundleShipmentType},
}

var defaultFrontendInputCallbackMapping = map[string]string{
	"select":      CallbackSelect,
	"multiselect": CallbackMultiselect,
	"boolean":     CallbackBoolean,
}

// CallbackMappings is the resolved attribute code -> callback ids table.
type CallbackMappings struct {
	m map[string][]string
}

// ResolveCallbackMappings builds the mapping for one bunch from the
// user-defined attributes and the configured override layers. A nil logger
// discards the override notices.
func ResolveCallbackMappings(userDefined []EavAttribute, overrides []map[string][]string, logger *slog.Logger) CallbackMappings {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := make(map[string][]string, len(defaultCallbackMappings)+len(userDefined))
	for code, ids := range defaultCallbackMappings {
		m[code] = append([]string(nil), ids...)
	}

	for _, attr := range userDefined {
		if _, ok := m[attr.AttributeCode]; !ok {
			m[attr.AttributeCode] = []string{}
		}
		if id, ok := defaultFrontendInputCallbackMapping[attr.FrontendInput]; ok {
			m[attr.AttributeCode] = append(m[attr.AttributeCode], id)
		}
	}

	for _, layer := range overrides {
		for _, code := range sortedKeys(layer) {
			if _, ok := m[code]; ok {
				logger.Info("now override callback mappings with values found in configuration file",
					"attribute_code", code,
				)
			}
			m[code] = append([]string(nil), layer[code]...)
		}
	}

	return CallbackMappings{m: m}
}

// Get returns the callbacks for code in execution order. The slice is a copy.
func (c CallbackMappings) Get(code string) []string {
	ids, ok := c.m[code]
	if !ok {
		return nil
	}
	return append([]string(nil), ids...)
}

// Has reports whether code has an entry, even an empty one.
func (c CallbackMappings) Has(code string) bool {
	_, ok := c.m[code]
	return ok
}

// Len returns the number of attribute codes with an entry.
func (c CallbackMappings) Len() int {
	return len(c.m)
}

// Codes returns the attribute codes, sorted.
func (c CallbackMappings) Codes() []string {
	return sortedKeys(c.m)
}

// All returns a copy of the whole table.
func (c CallbackMappings) All() map[string][]string {
	out := make(map[string][]string, len(c.m))
	for code, ids := range c.m {
		out[code] = append([]string(nil), ids...)
	}
	return out
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
