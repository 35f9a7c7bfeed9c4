package product

import (
	"context"
	"sort"
)

// StockColumn maps a cataloginventory_stock_item column to the CSV header it
// is read from and the type the value is cast to.
type StockColumn struct {
	Header string
	Type   BackendType
}

var headerStockMappings = map[string]StockColumn{
	"qty":                         {"qty", TypeFloat},
	"min_qty":                     {"out_of_stock_qty", TypeFloat},
	"use_config_min_qty":          {"use_config_min_qty", TypeInt},
	"is_qty_decimal":              {"is_qty_decimal", TypeInt},
	"backorders":                  {"allow_backorders", TypeInt},
	"use_config_backorders":       {"use_config_backorders", TypeInt},
	"min_sale_qty":                {"min_cart_qty", TypeFloat},
	"use_config_min_sale_qty":     {"use_config_min_sale_qty", TypeInt},
	"max_sale_qty":                {"max_cart_qty", TypeFloat},
	"use_config_max_sale_qty":     {"use_config_max_sale_qty", TypeInt},
	"is_in_stock":                 {"is_in_stock", TypeInt},
	"notify_stock_qty":            {"notify_on_stock_below", TypeFloat},
	"use_config_notify_stock_qty": {"use_config_notify_stock_qty", TypeInt},
	"manage_stock":                {"manage_stock", TypeInt},
	"use_config_manage_stock":     {"use_config_manage_stock", TypeInt},
	"use_config_qty_increments":   {"use_config_qty_increments", TypeInt},
	"qty_increments":              {"qty_increments", TypeFloat},
	"use_config_enable_qty_inc":   {"use_config_enable_qty_inc", TypeInt},
	"enable_qty_increments":       {"enable_qty_increments", TypeInt},
	"is_decimal_divided":          {"is_decimal_divided", TypeInt},
}

// StockColumns returns the stock item column names in a stable order.
func StockColumns() []string {
	cols := make([]string, 0, len(headerStockMappings))
	for col := range headerStockMappings {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// AttributeOps is the persist/load pair for one backend type.
type AttributeOps struct {
	Persist func(ctx context.Context, attr Attribute) error
	Load    func(ctx context.Context, entityID, attributeID, storeID int64) (*Attribute, error)
}
