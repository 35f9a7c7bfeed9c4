package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/JonMunkholm/catalog-import/internal/product"
)

// Stock rows are kept in the default (global) website scope.
const stockWebsiteID = 0

const urlSuffix = ".html"

// bunch holds the state of one run while its rows are processed.
type bunch struct {
	opts    Options
	subject *product.BunchSubject
	columns []string
	sets    map[string]*product.AttributeSet
	logger  *slog.Logger
}

// process handles one row and returns the status it is counted under.
func (b *bunch) process(ctx context.Context, row Row) (string, error) {
	sku := row.Value(colSKU)
	if sku == "" {
		return "", &product.MissingSKUError{Line: row.Line}
	}
	b.subject.SetLastEntityID(0)

	switch b.opts.Mode {
	case ModeDelete:
		return b.deleteProduct(ctx, sku)
	case ModeReplace:
		if _, err := b.deleteProduct(ctx, sku); err != nil {
			return "", err
		}
	}
	if err := b.addUpdate(ctx, row, sku); err != nil {
		return "", err
	}
	return statusImported, nil
}

// deleteProduct removes a product and its relations. Unknown SKUs are skipped.
func (b *bunch) deleteProduct(ctx context.Context, sku string) (string, error) {
	s := b.subject
	p, err := s.LoadProduct(ctx, sku)
	if errors.Is(err, product.ErrNotFound) {
		b.logger.Debug("nothing to delete", "sku", sku)
		return statusSkipped, nil
	}
	if err != nil {
		return "", err
	}

	key := product.DeleteKey{SKU: sku, EntityID: p.EntityID}
	deletes := []func(context.Context, product.DeleteKey, product.DeleteStrategy) error{
		s.DeleteUrlRewrite,
		s.DeleteStockStatus,
		s.DeleteStockItem,
		s.DeleteProductWebsite,
		s.DeleteCategoryProduct,
		s.DeleteProduct,
	}
	for _, del := range deletes {
		if err := del(ctx, key, product.DeleteBySKU); err != nil {
			return "", err
		}
	}
	return statusDeleted, nil
}

func (b *bunch) addUpdate(ctx context.Context, row Row, sku string) error {
	s := b.subject

	set, err := b.attributeSet(ctx, row.ValueOr(colAttributeSet, b.opts.DefaultAttributeSet))
	if err != nil {
		return err
	}
	s.SetAttributeSet(*set)

	p := product.Product{
		SKU:            sku,
		AttributeSetID: set.ID,
		TypeID:         row.ValueOr(colProductType, "simple"),
	}
	existing, err := s.LoadProduct(ctx, sku)
	switch {
	case err == nil:
		p.EntityID = existing.EntityID
		p.CreatedAt = existing.CreatedAt
		p.HasOptions = existing.HasOptions
		p.RequiredOptions = existing.RequiredOptions
		if row.Value(colProductType) == "" {
			p.TypeID = existing.TypeID
		}
	case !errors.Is(err, product.ErrNotFound):
		return err
	}

	id, err := s.PersistProduct(ctx, p)
	if err != nil {
		return err
	}
	s.SetLastEntityID(id)

	if err := b.persistAttributes(ctx, row, set, id); err != nil {
		return err
	}
	if err := b.persistStock(ctx, row, id); err != nil {
		return err
	}
	if err := b.persistWebsites(ctx, row, id); err != nil {
		return err
	}
	if err := b.persistCategories(ctx, row, id); err != nil {
		return err
	}
	return b.persistUrlRewrites(ctx, row, id)
}

func (b *bunch) attributeSet(ctx context.Context, name string) (*product.AttributeSet, error) {
	if set, ok := b.sets[name]; ok {
		return set, nil
	}
	set, err := b.subject.LoadAttributeSet(ctx, name)
	if errors.Is(err, product.ErrNotFound) {
		return nil, &product.UnknownAttributeSetError{Name: name}
	}
	if err != nil {
		return nil, err
	}
	b.sets[name] = set
	return set, nil
}

// persistAttributes writes every non-empty column that is an attribute of the
// set. Values go through the attribute's callbacks, in order, before they are
// cast. A callback returning "" drops the value.
func (b *bunch) persistAttributes(ctx context.Context, row Row, set *product.AttributeSet, entityID int64) error {
	s := b.subject
	for _, code := range b.columns {
		attr, ok := set.Attribute(code)
		if !ok || !attr.BackendType.Persistable() {
			continue
		}
		value := row.Value(code)
		if value == "" {
			continue
		}

		for _, id := range s.Callbacks(code) {
			cb, ok := product.LookupCallback(id)
			if !ok {
				return &product.UnknownCallbackError{ID: id, AttributeCode: code}
			}
			var err error
			if value, err = cb.Handle(ctx, s, attr, value); err != nil {
				return fmt.Errorf("%s: %w", code, err)
			}
		}
		if value == "" {
			continue
		}

		cast, err := s.CastValueByBackendType(attr.BackendType, value)
		if err != nil {
			return fmt.Errorf("%s: %w", code, err)
		}
		ops, ok := s.AttributeOps(attr.BackendType)
		if !ok {
			continue
		}

		next := product.Attribute{
			AttributeID: attr.AttributeID,
			StoreID:     s.StoreID(),
			EntityID:    entityID,
			Value:       cast,
		}
		current, err := ops.Load(ctx, entityID, attr.AttributeID, s.StoreID())
		switch {
		case err == nil:
			next.ValueID = current.ValueID
		case !errors.Is(err, product.ErrNotFound):
			return err
		}
		if err := ops.Persist(ctx, next); err != nil {
			return err
		}
	}
	return nil
}

// persistStock writes the stock item columns present in the row and, when
// qty or is_in_stock is among them, the stock status.
func (b *bunch) persistStock(ctx context.Context, row Row, productID int64) error {
	s := b.subject

	values := make(map[string]any)
	for col, sc := range s.HeaderStockMappings() {
		raw := row.Value(sc.Header)
		if raw == "" {
			continue
		}
		v, err := s.CastValueByBackendType(sc.Type, raw)
		if err != nil {
			return fmt.Errorf("%s: %w", sc.Header, err)
		}
		values[col] = v
	}
	if len(values) == 0 {
		return nil
	}

	item := product.StockItem{
		ProductID: productID,
		WebsiteID: stockWebsiteID,
		StockID:   b.opts.StockID,
		Values:    values,
	}
	current, err := s.LoadStockItem(ctx, productID, stockWebsiteID, b.opts.StockID)
	switch {
	case err == nil:
		item.ItemID = current.ItemID
	case !errors.Is(err, product.ErrNotFound):
		return err
	}
	if err := s.PersistStockItem(ctx, item); err != nil {
		return err
	}

	qty, hasQty := values["qty"].(float64)
	inStock, hasStatus := values["is_in_stock"].(int64)
	if !hasQty && !hasStatus {
		return nil
	}

	status := product.StockStatus{
		ProductID:   productID,
		WebsiteID:   stockWebsiteID,
		StockID:     b.opts.StockID,
		Qty:         qty,
		StockStatus: inStock,
	}
	if !hasQty || !hasStatus {
		prev, err := s.LoadStockStatus(ctx, productID, stockWebsiteID, b.opts.StockID)
		switch {
		case err == nil:
			if !hasQty {
				status.Qty = prev.Qty
			}
			if !hasStatus {
				status.StockStatus = prev.StockStatus
			}
		case !errors.Is(err, product.ErrNotFound):
			return err
		}
	}
	return s.PersistStockStatus(ctx, status)
}

func (b *bunch) persistWebsites(ctx context.Context, row Row, productID int64) error {
	s := b.subject

	ids, err := parseIDs(row.Value(colWebsiteIDs))
	if err != nil {
		return fmt.Errorf("%s: %w", colWebsiteIDs, err)
	}
	if len(ids) == 0 && b.opts.WebsiteID > 0 {
		ids = []int64{b.opts.WebsiteID}
	}

	for _, websiteID := range ids {
		_, err := s.LoadProductWebsite(ctx, productID, websiteID)
		if err == nil {
			continue
		}
		if !errors.Is(err, product.ErrNotFound) {
			return err
		}
		if err := s.PersistProductWebsite(ctx, product.ProductWebsite{ProductID: productID, WebsiteID: websiteID}); err != nil {
			return err
		}
	}
	return nil
}

// persistCategories records the row's categories in the subject's category
// index and links every indexed category to the product.
func (b *bunch) persistCategories(ctx context.Context, row Row, productID int64) error {
	s := b.subject

	ids, err := parseIDs(row.Value(colCategoryIDs))
	if err != nil {
		return fmt.Errorf("%s: %w", colCategoryIDs, err)
	}
	for _, id := range ids {
		s.AddProductCategoryID(id)
	}

	for _, categoryID := range s.ProductCategoryIDs() {
		_, err := s.LoadCategoryProduct(ctx, categoryID, productID)
		if err == nil {
			continue
		}
		if !errors.Is(err, product.ErrNotFound) {
			return err
		}
		cp := product.CategoryProduct{CategoryID: categoryID, ProductID: productID}
		if err := s.PersistCategoryProduct(ctx, cp); err != nil {
			return err
		}
	}
	return nil
}

// persistUrlRewrites maintains the product's own rewrite and one rewrite per
// indexed category. Existing rewrites are matched by their metadata.
func (b *bunch) persistUrlRewrites(ctx context.Context, row Row, productID int64) error {
	s := b.subject

	urlKey := URLKey(row.ValueOr(colURLKey, row.Value(colName)))
	if urlKey == "" {
		return nil
	}

	existing, err := s.UrlRewritesByEntityTypeAndEntityID(ctx, product.EntityTypeProduct, productID)
	if err != nil {
		return err
	}
	byMetadata := make(map[string]product.UrlRewrite, len(existing))
	for _, rw := range existing {
		if rw.StoreID == s.StoreID() {
			byMetadata[rw.Metadata] = rw
		}
	}

	if _, err := b.persistUrlRewrite(ctx, byMetadata[""], productID, 0, urlKey); err != nil {
		return err
	}

	for _, categoryID := range s.ProductCategoryIDs() {
		meta := categoryMetadata(categoryID)
		rewriteID, err := b.persistUrlRewrite(ctx, byMetadata[meta], productID, categoryID, urlKey)
		if err != nil {
			return err
		}

		rel, err := s.LoadUrlRewriteProductCategory(ctx, productID, categoryID)
		switch {
		case err == nil && rel.UrlRewriteID == rewriteID:
			continue
		case err != nil && !errors.Is(err, product.ErrNotFound):
			return err
		}
		err = s.PersistUrlRewriteProductCategory(ctx, product.UrlRewriteProductCategory{
			UrlRewriteID: rewriteID,
			CategoryID:   categoryID,
			ProductID:    productID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *bunch) persistUrlRewrite(ctx context.Context, rw product.UrlRewrite, productID, categoryID int64, urlKey string) (int64, error) {
	rw.EntityType = product.EntityTypeProduct
	rw.EntityID = productID
	rw.StoreID = b.subject.StoreID()
	rw.IsAutogenerated = true
	rw.RequestPath = urlKey + urlSuffix
	rw.TargetPath = "catalog/product/view/id/" + strconv.FormatInt(productID, 10)
	if categoryID != 0 {
		rw.RequestPath = fmt.Sprintf("category-%d/%s%s", categoryID, urlKey, urlSuffix)
		rw.TargetPath += "/category/" + strconv.FormatInt(categoryID, 10)
		rw.Metadata = categoryMetadata(categoryID)
	}
	return b.subject.PersistUrlRewrite(ctx, rw)
}

func categoryMetadata(categoryID int64) string {
	meta, _ := json.Marshal(map[string]string{"category_id": strconv.FormatInt(categoryID, 10)})
	return string(meta)
}

// parseIDs reads a comma separated id list. Blank entries are ignored.
func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, &product.NumericParseError{Value: part, Type: product.TypeInt, Err: err}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
