// Package importer runs product CSV files through a product.BunchSubject.
//
// A run reads one file as one bunch: it resolves the callback mapping, reads
// the header, then processes every data row in order. Rows that fail on bad
// data are reported in Result.FailedRows and the run continues; store and
// configuration errors abort the run.
//
// Three modes are supported:
//
//	add-update  create or update products and their relations (default)
//	delete      remove the products named by the sku column
//	replace     delete, then import the row again from scratch
//
// Columns the importer understands besides the attribute codes of the row's
// attribute set:
//
//	sku                 required
//	attribute_set_code  attribute set name, "Default" when empty
//	product_type        "simple" when empty
//	website_ids         comma separated website ids
//	category_ids        comma separated category ids
//	url_key             folded name when empty
//	qty, is_in_stock, ...  stock item columns, see product.HeaderStockMappings
//
// Runs are bounded by an optional Limiter and, when Options.History is set,
// recorded after they finish.
package importer
