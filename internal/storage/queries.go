package storage

import (
	"fmt"

	"github.com/JonMunkholm/catalog-import/internal/product"
)

// productEntityTypeID is the eav_entity_type id of catalog products.
const productEntityTypeID = 4

// attributeTables maps a persistable backend type to its value table.
var attributeTables = map[product.BackendType]string{
	product.TypeDatetime: "catalog_product_entity_datetime",
	product.TypeDecimal:  "catalog_product_entity_decimal",
	product.TypeInt:      "catalog_product_entity_int",
	product.TypeText:     "catalog_product_entity_text",
	product.TypeVarchar:  "catalog_product_entity_varchar",
}

const (
	loadProduct = `SELECT entity_id, attribute_set_id, type_id, sku, has_options, required_options, created_at, updated_at
FROM catalog_product_entity WHERE sku = ?`

	insertProduct = `INSERT INTO catalog_product_entity
(attribute_set_id, type_id, sku, has_options, required_options, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	updateProduct = `UPDATE catalog_product_entity
SET attribute_set_id = ?, type_id = ?, has_options = ?, required_options = ?, updated_at = ?
WHERE entity_id = ?`

	loadStockStatus = `SELECT product_id, website_id, stock_id, qty, stock_status
FROM cataloginventory_stock_status WHERE product_id = ? AND website_id = ? AND stock_id = ?`

	updateStockStatus = `UPDATE cataloginventory_stock_status SET qty = ?, stock_status = ?
WHERE product_id = ? AND website_id = ? AND stock_id = ?`

	insertStockStatus = `INSERT INTO cataloginventory_stock_status (product_id, website_id, stock_id, qty, stock_status)
VALUES (?, ?, ?, ?, ?)`

	loadProductWebsite = `SELECT product_id, website_id FROM catalog_product_website
WHERE product_id = ? AND website_id = ?`

	insertProductWebsite = `INSERT INTO catalog_product_website (product_id, website_id) VALUES (?, ?)`

	loadCategoryProduct = `SELECT entity_id, category_id, product_id, position FROM catalog_category_product
WHERE category_id = ? AND product_id = ?`

	insertCategoryProduct = `INSERT INTO catalog_category_product (category_id, product_id, position) VALUES (?, ?, ?)`

	updateCategoryProduct = `UPDATE catalog_category_product SET category_id = ?, product_id = ?, position = ? WHERE entity_id = ?`

	urlRewritesByEntity = `SELECT url_rewrite_id, entity_type, entity_id, request_path, target_path, redirect_type,
store_id, description, is_autogenerated, metadata
FROM url_rewrite WHERE entity_type = ? AND entity_id = ? ORDER BY url_rewrite_id`

	insertUrlRewrite = `INSERT INTO url_rewrite
(entity_type, entity_id, request_path, target_path, redirect_type, store_id, description, is_autogenerated, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	updateUrlRewrite = `UPDATE url_rewrite
SET entity_type = ?, entity_id = ?, request_path = ?, target_path = ?, redirect_type = ?, store_id = ?,
description = ?, is_autogenerated = ?, metadata = ?
WHERE url_rewrite_id = ?`

	loadUrlRewriteProductCategory = `SELECT url_rewrite_id, category_id, product_id
FROM catalog_url_rewrite_product_category WHERE product_id = ? AND category_id = ?
ORDER BY url_rewrite_id LIMIT 1`

	updateUrlRewriteProductCategory = `UPDATE catalog_url_rewrite_product_category SET category_id = ?, product_id = ?
WHERE url_rewrite_id = ?`

	insertUrlRewriteProductCategory = `INSERT INTO catalog_url_rewrite_product_category (url_rewrite_id, category_id, product_id)
VALUES (?, ?, ?)`

	optionValueByValueAndStore = `SELECT value_id, option_id, store_id, value
FROM eav_attribute_option_value WHERE value = ? AND store_id = ?
ORDER BY value_id LIMIT 1`

	optionValueByAttributeValueAndStore = `SELECT v.value_id, v.option_id, v.store_id, v.value
FROM eav_attribute_option_value v
JOIN eav_attribute_option o ON o.option_id = v.option_id
WHERE o.attribute_id = ? AND v.value = ? AND v.store_id = ?
ORDER BY v.value_id LIMIT 1`

	attributesByUserDefined = `SELECT attribute_id, attribute_code, backend_type, frontend_input, is_user_defined
FROM eav_attribute WHERE entity_type_id = ? AND is_user_defined = ?
ORDER BY attribute_code`

	attributeSetByName = `SELECT attribute_set_id, attribute_set_name FROM eav_attribute_set
WHERE entity_type_id = ? AND attribute_set_name = ?`

	attributesBySet = `SELECT a.attribute_id, a.attribute_code, a.backend_type, a.frontend_input, a.is_user_defined
FROM eav_attribute a
JOIN eav_entity_attribute ea ON ea.attribute_id = a.attribute_id
WHERE ea.attribute_set_id = ?`
)

func loadAttributeQuery(table string) string {
	return fmt.Sprintf(`SELECT value_id, attribute_id, store_id, entity_id, value FROM %s
WHERE entity_id = ? AND attribute_id = ? AND store_id = ?`, table)
}

func insertAttributeQuery(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (attribute_id, store_id, entity_id, value) VALUES (?, ?, ?, ?)`, table)
}

func updateAttributeQuery(table string) string {
	return fmt.Sprintf(`UPDATE %s SET value = ? WHERE value_id = ?`, table)
}

// deleteStatement is one delete query and the key field it binds.
type deleteStatement struct {
	query string
	bySKU bool
}

const skuSubquery = `(SELECT entity_id FROM catalog_product_entity WHERE sku = ?)`

// childDeletes builds the statements for a table keyed by product id.
func childDeletes(table, column string) map[product.DeleteStrategy]deleteStatement {
	byID := deleteStatement{query: fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, column)}
	return map[product.DeleteStrategy]deleteStatement{
		product.DeleteDefault:    byID,
		product.DeleteByEntityID: byID,
		product.DeleteBySKU: {
			query: fmt.Sprintf("DELETE FROM %s WHERE %s IN %s", table, column, skuSubquery),
			bySKU: true,
		},
	}
}

// deleteStatements is keyed by entity kind, then strategy.
var deleteStatements = map[string]map[product.DeleteStrategy]deleteStatement{
	"product": {
		product.DeleteDefault:    {query: "DELETE FROM catalog_product_entity WHERE sku = ?", bySKU: true},
		product.DeleteBySKU:      {query: "DELETE FROM catalog_product_entity WHERE sku = ?", bySKU: true},
		product.DeleteByEntityID: {query: "DELETE FROM catalog_product_entity WHERE entity_id = ?"},
	},
	"url_rewrite": {
		product.DeleteDefault:    {query: "DELETE FROM url_rewrite WHERE entity_type = 'product' AND entity_id = ?"},
		product.DeleteByEntityID: {query: "DELETE FROM url_rewrite WHERE entity_type = 'product' AND entity_id = ?"},
		product.DeleteBySKU: {
			query: "DELETE FROM url_rewrite WHERE entity_type = 'product' AND entity_id IN " + skuSubquery,
			bySKU: true,
		},
	},
	"stock_item":       childDeletes("cataloginventory_stock_item", "product_id"),
	"stock_status":     childDeletes("cataloginventory_stock_status", "product_id"),
	"product_website":  childDeletes("catalog_product_website", "product_id"),
	"category_product": childDeletes("catalog_category_product", "product_id"),
}
