package product

import (
	"context"
	"log/slog"
	"sort"
)

// Options configures a BunchSubject.
type Options struct {
	// Callbacks are the configured override layers, applied in order.
	Callbacks []map[string][]string

	// SourceDateFormat is the PHP date() style format of datetime columns.
	SourceDateFormat string

	// LenientNumeric casts non-numeric int/float input to its numeric prefix or zero.
	LenientNumeric bool

	// StoreID scopes attribute values and option lookups.
	StoreID int64

	Logger *slog.Logger
}

// BunchSubject is the per-bunch facade the row processors work against. It
// owns the resolved callback mapping, the attribute set and category index of
// the rows being processed, and forwards persistence to a Processor.
//
// A BunchSubject is owned by a single goroutine; create one per bunch.
type BunchSubject struct {
	proc   Processor
	opts   Options
	logger *slog.Logger

	callbackMappings CallbackMappings

	attributeSet       AttributeSet
	productCategoryIDs map[int64]map[int64]struct{}

	filename     string
	lineNumber   int
	lastEntityID int64
}

// NewBunchSubject loads the user-defined attributes and resolves the callback
// mapping for the bunch.
func NewBunchSubject(ctx context.Context, proc Processor, opts Options) (*BunchSubject, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SourceDateFormat == "" {
		opts.SourceDateFormat = DefaultSourceDateFormat
	}

	userDefined, err := proc.EavAttributesByIsUserDefined(ctx, true)
	if err != nil {
		return nil, err
	}

	return &BunchSubject{
		proc:               proc,
		opts:               opts,
		logger:             logger,
		callbackMappings:   ResolveCallbackMappings(userDefined, opts.Callbacks, logger),
		productCategoryIDs: make(map[int64]map[int64]struct{}),
	}, nil
}

// CallbackMappings returns the resolved mapping.
func (s *BunchSubject) CallbackMappings() CallbackMappings { return s.callbackMappings }

// Callbacks returns the callback ids for an attribute code, in execution order.
func (s *BunchSubject) Callbacks(attributeCode string) []string {
	return s.callbackMappings.Get(attributeCode)
}

// StoreID returns the store the subject imports into.
func (s *BunchSubject) StoreID() int64 { return s.opts.StoreID }

// Logger returns the subject's logger.
func (s *BunchSubject) Logger() *slog.Logger { return s.logger }

// SetFilename sets the name of the file being processed.
func (s *BunchSubject) SetFilename(name string) { s.filename = name }

// Filename returns the name of the file being processed.
func (s *BunchSubject) Filename() string { return s.filename }

// SetLineNumber sets the line of the row being processed.
func (s *BunchSubject) SetLineNumber(line int) { s.lineNumber = line }

// LineNumber returns the line of the row being processed.
func (s *BunchSubject) LineNumber() int { return s.lineNumber }

// SetLastEntityID sets the entity id of the product being processed.
func (s *BunchSubject) SetLastEntityID(id int64) { s.lastEntityID = id }

// LastEntityID returns the entity id of the product being processed.
func (s *BunchSubject) LastEntityID() int64 { return s.lastEntityID }

// SetAttributeSet sets the attribute set of the product being processed.
func (s *BunchSubject) SetAttributeSet(set AttributeSet) { s.attributeSet = set }

// AttributeSet returns the attribute set of the product being processed.
func (s *BunchSubject) AttributeSet() AttributeSet { return s.attributeSet }

// CastValueByBackendType casts raw with the subject's source date format.
func (s *BunchSubject) CastValueByBackendType(bt BackendType, raw string) (any, error) {
	return Cast(bt, raw, CastOptions{
		SourceDateFormat: s.opts.SourceDateFormat,
		LenientNumeric:   s.opts.LenientNumeric,
	})
}

// HeaderStockMappings returns the stock item column -> (header, type) table.
func (s *BunchSubject) HeaderStockMappings() map[string]StockColumn {
	out := make(map[string]StockColumn, len(headerStockMappings))
	for col, sc := range headerStockMappings {
		out[col] = sc
	}
	return out
}

// BackendTypes returns the backend types that have an attribute value table.
func (s *BunchSubject) BackendTypes() []BackendType {
	return append([]BackendType(nil), attributeBackendTypes...)
}

// AttributeOps returns the persist/load pair for bt.
func (s *BunchSubject) AttributeOps(bt BackendType) (AttributeOps, bool) {
	if !bt.Persistable() {
		return AttributeOps{}, false
	}
	return AttributeOps{
		Persist: func(ctx context.Context, attr Attribute) error {
			return s.proc.PersistAttribute(ctx, bt, attr)
		},
		Load: func(ctx context.Context, entityID, attributeID, storeID int64) (*Attribute, error) {
			return s.proc.LoadAttribute(ctx, bt, entityID, attributeID, storeID)
		},
	}, true
}

// VisibilityIDByValue resolves a visibility label. An unknown label fails the
// current row.
func (s *BunchSubject) VisibilityIDByValue(label string) (Visibility, error) {
	if v, ok := LookupVisibility(label); ok {
		return v, nil
	}
	return 0, &InvalidVisibilityError{
		Value:    label,
		Filename: s.filename,
		Line:     s.lineNumber,
	}
}

// AddProductCategoryID records categoryID for the current entity.
func (s *BunchSubject) AddProductCategoryID(categoryID int64) {
	ids, ok := s.productCategoryIDs[s.lastEntityID]
	if !ok {
		ids = make(map[int64]struct{})
		s.productCategoryIDs[s.lastEntityID] = ids
	}
	ids[categoryID] = struct{}{}
}

// ProductCategoryIDs returns the category ids recorded for the current
// entity, sorted.
func (s *BunchSubject) ProductCategoryIDs() []int64 {
	ids := s.productCategoryIDs[s.lastEntityID]
	out := make([]int64, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
