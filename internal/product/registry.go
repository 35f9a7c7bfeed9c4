package product

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Callback transforms or validates one attribute value of the current row.
// Callbacks for an attribute run in mapping order, each receiving the
// previous one's output.
type Callback interface {
	Handle(ctx context.Context, s *BunchSubject, attr EavAttribute, value string) (string, error)
}

// CallbackFunc adapts a function to Callback.
type CallbackFunc func(ctx context.Context, s *BunchSubject, attr EavAttribute, value string) (string, error)

// Handle calls f.
func (f CallbackFunc) Handle(ctx context.Context, s *BunchSubject, attr EavAttribute, value string) (string, error) {
	return f(ctx, s, attr, value)
}

var (
	callbackRegistry   = make(map[string]Callback)
	callbackRegistryMu sync.RWMutex
)

// RegisterCallback adds a callback under id.
// Panics if the id is already registered.
func RegisterCallback(id string, cb Callback) {
	callbackRegistryMu.Lock()
	defer callbackRegistryMu.Unlock()

	if _, exists := callbackRegistry[id]; exists {
		panic(fmt.Sprintf("callback already registered: %s", id))
	}
	callbackRegistry[id] = cb
}

// LookupCallback returns the callback registered under id.
func LookupCallback(id string) (Callback, bool) {
	callbackRegistryMu.RLock()
	defer callbackRegistryMu.RUnlock()

	cb, ok := callbackRegistry[id]
	return cb, ok
}

// CallbackIDs returns all registered ids, sorted.
func CallbackIDs() []string {
	callbackRegistryMu.RLock()
	defer callbackRegistryMu.RUnlock()

	ids := make([]string, 0, len(callbackRegistry))
	for id := range callbackRegistry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ClearCallbacks removes all registered callbacks.
// Primarily useful for testing.
func ClearCallbacks() {
	callbackRegistryMu.Lock()
	defer callbackRegistryMu.Unlock()
	callbackRegistry = make(map[string]Callback)
}

// VerifyCallbacks checks that every id in the mapping is registered.
func VerifyCallbacks(mappings CallbackMappings) error {
	for _, code := range mappings.Codes() {
		for _, id := range mappings.Get(code) {
			if _, ok := LookupCallback(id); !ok {
				return &UnknownCallbackError{ID: id, AttributeCode: code}
			}
		}
	}
	return nil
}
