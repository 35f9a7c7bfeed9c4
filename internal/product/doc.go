// Package product holds the per-bunch state of a catalog product import and
// the contracts of the stores it persists through.
//
// # Bunch Subject
//
// A [BunchSubject] is created for every bunch of CSV rows. Construction loads
// the user-defined EAV attributes and resolves the callback mapping, which is
// read-only afterwards:
//
//	subject, err := product.NewBunchSubject(ctx, store, product.Options{
//	    Callbacks:        cfg.Callbacks(),
//	    SourceDateFormat: cfg.Import.SourceDateFormat,
//	    StoreID:          cfg.Import.StoreID,
//	})
//
// While rows are processed the caller keeps the subject's row position
// (file name, line number, last entity id) and attribute set current. The
// category index is keyed by the last entity id.
//
// # Callbacks
//
// Callback ids are resolved to implementations through a registry filled at
// init time (see package callbacks). [ResolveCallbackMappings] describes the
// three resolution passes.
//
// # Stores
//
// Persistence is split per entity kind ([ProductStore], [AttributeStore],
// [StockStore], [WebsiteStore], [CategoryRelationStore], [UrlRewriteStore],
// [EavStore]). [Processor] combines them. The subject forwards to the
// processor without wrapping errors.
//
// # Errors
//
// Row errors ([InvalidVisibilityError], [DateParseError], ...) fail one row;
// [IsRowError] tells them apart from errors that must abort the bunch.
// [MapError] turns any error into a coded [UserMessage].
package product
