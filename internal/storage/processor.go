package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/catalog-import/internal/product"
)

// Processor implements product.Processor on a DB.
//
// Persist methods insert when the row has no id yet and update otherwise.
// Relations without a surrogate key are updated first and inserted when
// nothing matched.
type Processor struct {
	db     DB
	logger *slog.Logger
	now    func() time.Time
}

// NewProcessor returns a Processor. A nil logger uses slog.Default().
func NewProcessor(db DB, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

var _ product.Processor = (*Processor)(nil)

// wrap adds op to err, leaving ErrNotFound untouched.
func wrap(op string, err error) error {
	if err == nil || errors.Is(err, product.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Products.

func (p *Processor) LoadProduct(ctx context.Context, sku string) (*product.Product, error) {
	var (
		out                      product.Product
		hasOptions, requiredOpts int64
		createdAt, updatedAt     sql.NullTime
	)
	err := p.db.QueryRow(ctx, loadProduct, sku).Scan(
		&out.EntityID, &out.AttributeSetID, &out.TypeID, &out.SKU,
		&hasOptions, &requiredOpts, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, wrap("load product", err)
	}
	out.HasOptions = hasOptions != 0
	out.RequiredOptions = requiredOpts != 0
	out.CreatedAt = createdAt.Time
	out.UpdatedAt = updatedAt.Time
	return &out, nil
}

func (p *Processor) PersistProduct(ctx context.Context, prod product.Product) (int64, error) {
	now := p.now()
	if prod.UpdatedAt.IsZero() {
		prod.UpdatedAt = now
	}

	if prod.EntityID != 0 {
		_, err := p.db.Exec(ctx, updateProduct,
			prod.AttributeSetID, prod.TypeID, boolToInt(prod.HasOptions), boolToInt(prod.RequiredOptions),
			prod.UpdatedAt, prod.EntityID,
		)
		if err != nil {
			return 0, wrap("update product", err)
		}
		return prod.EntityID, nil
	}

	if prod.CreatedAt.IsZero() {
		prod.CreatedAt = now
	}
	id, err := p.db.Insert(ctx, insertProduct, "entity_id",
		prod.AttributeSetID, prod.TypeID, prod.SKU, boolToInt(prod.HasOptions), boolToInt(prod.RequiredOptions),
		prod.CreatedAt, prod.UpdatedAt,
	)
	if err != nil {
		return 0, wrap("insert product", err)
	}
	p.logger.Debug("product created", "sku", prod.SKU, "entity_id", id)
	return id, nil
}

func (p *Processor) DeleteProduct(ctx context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	return p.delete(ctx, "product", key, strategy)
}

// Attributes.

func attributeTable(bt product.BackendType) (string, error) {
	table, ok := attributeTables[bt]
	if !ok {
		return "", fmt.Errorf("no attribute table for backend type %q", bt)
	}
	return table, nil
}

func (p *Processor) LoadAttribute(ctx context.Context, bt product.BackendType, entityID, attributeID, storeID int64) (*product.Attribute, error) {
	table, err := attributeTable(bt)
	if err != nil {
		return nil, err
	}
	var out product.Attribute
	err = p.db.QueryRow(ctx, loadAttributeQuery(table), entityID, attributeID, storeID).Scan(
		&out.ValueID, &out.AttributeID, &out.StoreID, &out.EntityID, &out.Value,
	)
	if err != nil {
		return nil, wrap("load "+string(bt)+" attribute", err)
	}
	return &out, nil
}

func (p *Processor) PersistAttribute(ctx context.Context, bt product.BackendType, attr product.Attribute) error {
	table, err := attributeTable(bt)
	if err != nil {
		return err
	}
	if attr.ValueID != 0 {
		_, err = p.db.Exec(ctx, updateAttributeQuery(table), attr.Value, attr.ValueID)
		return wrap("update "+string(bt)+" attribute", err)
	}
	_, err = p.db.Insert(ctx, insertAttributeQuery(table), "value_id",
		attr.AttributeID, attr.StoreID, attr.EntityID, attr.Value,
	)
	return wrap("insert "+string(bt)+" attribute", err)
}

// Stock.

func (p *Processor) LoadStockItem(ctx context.Context, productID, websiteID, stockID int64) (*product.StockItem, error) {
	cols := product.StockColumns()
	query := fmt.Sprintf(`SELECT item_id, product_id, website_id, stock_id, %s
FROM cataloginventory_stock_item WHERE product_id = ? AND website_id = ? AND stock_id = ?`,
		strings.Join(cols, ", "))

	var out product.StockItem
	values := make([]any, len(cols))
	dest := []any{&out.ItemID, &out.ProductID, &out.WebsiteID, &out.StockID}
	for i := range values {
		dest = append(dest, &values[i])
	}

	if err := p.db.QueryRow(ctx, query, productID, websiteID, stockID).Scan(dest...); err != nil {
		return nil, wrap("load stock item", err)
	}

	out.Values = make(map[string]any, len(cols))
	for i, col := range cols {
		out.Values[col] = values[i]
	}
	return &out, nil
}

// stockValueColumns returns the item's value columns in a stable order and
// rejects names that are not stock item columns.
func stockValueColumns(item product.StockItem) ([]string, error) {
	known := product.StockColumns()
	cols := make([]string, 0, len(item.Values))
	for _, col := range known {
		if _, ok := item.Values[col]; ok {
			cols = append(cols, col)
		}
	}
	if len(cols) != len(item.Values) {
		for col := range item.Values {
			found := false
			for _, k := range known {
				if k == col {
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("unknown stock item column %q", col)
			}
		}
	}
	return cols, nil
}

func (p *Processor) PersistStockItem(ctx context.Context, item product.StockItem) error {
	cols, err := stockValueColumns(item)
	if err != nil {
		return err
	}

	if item.ItemID != 0 {
		if len(cols) == 0 {
			return nil
		}
		sets := make([]string, len(cols))
		args := make([]any, 0, len(cols)+1)
		for i, col := range cols {
			sets[i] = col + " = ?"
			args = append(args, item.Values[col])
		}
		args = append(args, item.ItemID)
		query := fmt.Sprintf("UPDATE cataloginventory_stock_item SET %s WHERE item_id = ?", strings.Join(sets, ", "))
		_, err := p.db.Exec(ctx, query, args...)
		return wrap("update stock item", err)
	}

	all := append([]string{"product_id", "website_id", "stock_id"}, cols...)
	args := []any{item.ProductID, item.WebsiteID, item.StockID}
	for _, col := range cols {
		args = append(args, item.Values[col])
	}
	query := fmt.Sprintf("INSERT INTO cataloginventory_stock_item (%s) VALUES (%s)",
		strings.Join(all, ", "), placeholders(len(all)))
	_, err = p.db.Insert(ctx, query, "item_id", args...)
	return wrap("insert stock item", err)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (p *Processor) DeleteStockItem(ctx context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	return p.delete(ctx, "stock_item", key, strategy)
}

func (p *Processor) LoadStockStatus(ctx context.Context, productID, websiteID, stockID int64) (*product.StockStatus, error) {
	var out product.StockStatus
	err := p.db.QueryRow(ctx, loadStockStatus, productID, websiteID, stockID).Scan(
		&out.ProductID, &out.WebsiteID, &out.StockID, &out.Qty, &out.StockStatus,
	)
	if err != nil {
		return nil, wrap("load stock status", err)
	}
	return &out, nil
}

func (p *Processor) PersistStockStatus(ctx context.Context, status product.StockStatus) error {
	n, err := p.db.Exec(ctx, updateStockStatus,
		status.Qty, status.StockStatus, status.ProductID, status.WebsiteID, status.StockID,
	)
	if err != nil {
		return wrap("update stock status", err)
	}
	if n > 0 {
		return nil
	}
	_, err = p.db.Exec(ctx, insertStockStatus,
		status.ProductID, status.WebsiteID, status.StockID, status.Qty, status.StockStatus,
	)
	return wrap("insert stock status", err)
}

func (p *Processor) DeleteStockStatus(ctx context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	return p.delete(ctx, "stock_status", key, strategy)
}

// Websites.

func (p *Processor) LoadProductWebsite(ctx context.Context, productID, websiteID int64) (*product.ProductWebsite, error) {
	var out product.ProductWebsite
	err := p.db.QueryRow(ctx, loadProductWebsite, productID, websiteID).Scan(&out.ProductID, &out.WebsiteID)
	if err != nil {
		return nil, wrap("load product website", err)
	}
	return &out, nil
}

func (p *Processor) PersistProductWebsite(ctx context.Context, pw product.ProductWebsite) error {
	_, err := p.LoadProductWebsite(ctx, pw.ProductID, pw.WebsiteID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, product.ErrNotFound) {
		return err
	}
	_, err = p.db.Exec(ctx, insertProductWebsite, pw.ProductID, pw.WebsiteID)
	return wrap("insert product website", err)
}

func (p *Processor) DeleteProductWebsite(ctx context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	return p.delete(ctx, "product_website", key, strategy)
}

// Categories.

func (p *Processor) LoadCategoryProduct(ctx context.Context, categoryID, productID int64) (*product.CategoryProduct, error) {
	var out product.CategoryProduct
	err := p.db.QueryRow(ctx, loadCategoryProduct, categoryID, productID).Scan(
		&out.EntityID, &out.CategoryID, &out.ProductID, &out.Position,
	)
	if err != nil {
		return nil, wrap("load category product", err)
	}
	return &out, nil
}

func (p *Processor) PersistCategoryProduct(ctx context.Context, cp product.CategoryProduct) error {
	if cp.EntityID != 0 {
		_, err := p.db.Exec(ctx, updateCategoryProduct, cp.CategoryID, cp.ProductID, cp.Position, cp.EntityID)
		return wrap("update category product", err)
	}
	_, err := p.db.Insert(ctx, insertCategoryProduct, "entity_id", cp.CategoryID, cp.ProductID, cp.Position)
	return wrap("insert category product", err)
}

func (p *Processor) DeleteCategoryProduct(ctx context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	return p.delete(ctx, "category_product", key, strategy)
}

// URL rewrites.

func (p *Processor) UrlRewritesByEntityTypeAndEntityID(ctx context.Context, entityType string, entityID int64) ([]product.UrlRewrite, error) {
	rows, err := p.db.Query(ctx, urlRewritesByEntity, entityType, entityID)
	if err != nil {
		return nil, wrap("query url rewrites", err)
	}
	defer rows.Close()

	var out []product.UrlRewrite
	for rows.Next() {
		var (
			rw                    product.UrlRewrite
			description, metadata sql.NullString
			autogenerated         int64
		)
		if err := rows.Scan(
			&rw.UrlRewriteID, &rw.EntityType, &rw.EntityID, &rw.RequestPath, &rw.TargetPath,
			&rw.RedirectType, &rw.StoreID, &description, &autogenerated, &metadata,
		); err != nil {
			return nil, wrap("scan url rewrite", err)
		}
		rw.Description = description.String
		rw.Metadata = metadata.String
		rw.IsAutogenerated = autogenerated != 0
		out = append(out, rw)
	}
	return out, wrap("iterate url rewrites", rows.Err())
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (p *Processor) PersistUrlRewrite(ctx context.Context, rw product.UrlRewrite) (int64, error) {
	args := []any{
		rw.EntityType, rw.EntityID, rw.RequestPath, rw.TargetPath, rw.RedirectType, rw.StoreID,
		nullString(rw.Description), boolToInt(rw.IsAutogenerated), nullString(rw.Metadata),
	}
	if rw.UrlRewriteID != 0 {
		_, err := p.db.Exec(ctx, updateUrlRewrite, append(args, rw.UrlRewriteID)...)
		if err != nil {
			return 0, wrap("update url rewrite", err)
		}
		return rw.UrlRewriteID, nil
	}
	id, err := p.db.Insert(ctx, insertUrlRewrite, "url_rewrite_id", args...)
	if err != nil {
		return 0, wrap("insert url rewrite", err)
	}
	return id, nil
}

func (p *Processor) DeleteUrlRewrite(ctx context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	return p.delete(ctx, "url_rewrite", key, strategy)
}

func (p *Processor) LoadUrlRewriteProductCategory(ctx context.Context, productID, categoryID int64) (*product.UrlRewriteProductCategory, error) {
	var out product.UrlRewriteProductCategory
	err := p.db.QueryRow(ctx, loadUrlRewriteProductCategory, productID, categoryID).Scan(
		&out.UrlRewriteID, &out.CategoryID, &out.ProductID,
	)
	if err != nil {
		return nil, wrap("load url rewrite product category", err)
	}
	return &out, nil
}

func (p *Processor) PersistUrlRewriteProductCategory(ctx context.Context, rel product.UrlRewriteProductCategory) error {
	n, err := p.db.Exec(ctx, updateUrlRewriteProductCategory, rel.CategoryID, rel.ProductID, rel.UrlRewriteID)
	if err != nil {
		return wrap("update url rewrite product category", err)
	}
	if n > 0 {
		return nil
	}
	_, err = p.db.Exec(ctx, insertUrlRewriteProductCategory, rel.UrlRewriteID, rel.CategoryID, rel.ProductID)
	return wrap("insert url rewrite product category", err)
}

// EAV metadata.

func (p *Processor) EavAttributeOptionValueByOptionValueAndStoreID(ctx context.Context, value string, storeID int64) (*product.EavAttributeOptionValue, error) {
	var out product.EavAttributeOptionValue
	err := p.db.QueryRow(ctx, optionValueByValueAndStore, value, storeID).Scan(
		&out.ValueID, &out.OptionID, &out.StoreID, &out.Value,
	)
	if err != nil {
		return nil, wrap("load option value", err)
	}
	return &out, nil
}

func (p *Processor) EavAttributeOptionValueByAttributeIDOptionValueAndStoreID(ctx context.Context, attributeID int64, value string, storeID int64) (*product.EavAttributeOptionValue, error) {
	var out product.EavAttributeOptionValue
	err := p.db.QueryRow(ctx, optionValueByAttributeValueAndStore, attributeID, value, storeID).Scan(
		&out.ValueID, &out.OptionID, &out.StoreID, &out.Value,
	)
	if err != nil {
		return nil, wrap("load option value", err)
	}
	return &out, nil
}

func (p *Processor) EavAttributesByIsUserDefined(ctx context.Context, isUserDefined bool) ([]product.EavAttribute, error) {
	rows, err := p.db.Query(ctx, attributesByUserDefined, productEntityTypeID, boolToInt(isUserDefined))
	if err != nil {
		return nil, wrap("query attributes", err)
	}
	return scanAttributes(rows)
}

func (p *Processor) LoadAttributeSet(ctx context.Context, name string) (*product.AttributeSet, error) {
	var set product.AttributeSet
	err := p.db.QueryRow(ctx, attributeSetByName, productEntityTypeID, name).Scan(&set.ID, &set.Name)
	if err != nil {
		return nil, wrap("load attribute set", err)
	}

	rows, err := p.db.Query(ctx, attributesBySet, set.ID)
	if err != nil {
		return nil, wrap("query attribute set attributes", err)
	}
	attrs, err := scanAttributes(rows)
	if err != nil {
		return nil, err
	}

	set.Attributes = make(map[string]product.EavAttribute, len(attrs))
	for _, a := range attrs {
		set.Attributes[a.AttributeCode] = a
	}
	return &set, nil
}

func scanAttributes(rows Rows) ([]product.EavAttribute, error) {
	defer rows.Close()

	var out []product.EavAttribute
	for rows.Next() {
		var (
			a             product.EavAttribute
			backendType   string
			frontendInput sql.NullString
			userDefined   int64
		)
		if err := rows.Scan(&a.AttributeID, &a.AttributeCode, &backendType, &frontendInput, &userDefined); err != nil {
			return nil, wrap("scan attribute", err)
		}
		a.BackendType = product.BackendType(backendType)
		a.FrontendInput = frontendInput.String
		a.IsUserDefined = userDefined != 0
		out = append(out, a)
	}
	return out, wrap("iterate attributes", rows.Err())
}

// Deletes.

func (p *Processor) delete(ctx context.Context, kind string, key product.DeleteKey, strategy product.DeleteStrategy) error {
	stmt, ok := deleteStatements[kind][strategy]
	if !ok {
		return fmt.Errorf("delete %s: %w (%d)", kind, ErrUnsupportedStrategy, int(strategy))
	}

	var arg any = key.EntityID
	if stmt.bySKU {
		arg = key.SKU
	}

	n, err := p.db.Exec(ctx, stmt.query, arg)
	if err != nil {
		return wrap("delete "+kind, err)
	}
	p.logger.Debug("rows deleted", "kind", kind, "strategy", strategy.String(), "rows", n)
	return nil
}
