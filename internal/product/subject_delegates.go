package product

// subject_delegates.go forwards loads, persists and deletes to the Processor.
// Results and errors are returned as the store produced them.

import "context"

func (s *BunchSubject) EavAttributeOptionValueByOptionValueAndStoreID(ctx context.Context, value string, storeID int64) (*EavAttributeOptionValue, error) {
	return s.proc.EavAttributeOptionValueByOptionValueAndStoreID(ctx, value, storeID)
}

func (s *BunchSubject) EavAttributeOptionValueByAttributeIDOptionValueAndStoreID(ctx context.Context, attributeID int64, value string, storeID int64) (*EavAttributeOptionValue, error) {
	return s.proc.EavAttributeOptionValueByAttributeIDOptionValueAndStoreID(ctx, attributeID, value, storeID)
}

func (s *BunchSubject) EavAttributesByIsUserDefined(ctx context.Context, isUserDefined bool) ([]EavAttribute, error) {
	return s.proc.EavAttributesByIsUserDefined(ctx, isUserDefined)
}

func (s *BunchSubject) LoadAttributeSet(ctx context.Context, name string) (*AttributeSet, error) {
	return s.proc.LoadAttributeSet(ctx, name)
}

func (s *BunchSubject) UrlRewritesByEntityTypeAndEntityID(ctx context.Context, entityType string, entityID int64) ([]UrlRewrite, error) {
	return s.proc.UrlRewritesByEntityTypeAndEntityID(ctx, entityType, entityID)
}

// Loads.

func (s *BunchSubject) LoadProduct(ctx context.Context, sku string) (*Product, error) {
	return s.proc.LoadProduct(ctx, sku)
}

func (s *BunchSubject) LoadProductWebsite(ctx context.Context, productID, websiteID int64) (*ProductWebsite, error) {
	return s.proc.LoadProductWebsite(ctx, productID, websiteID)
}

func (s *BunchSubject) LoadCategoryProduct(ctx context.Context, categoryID, productID int64) (*CategoryProduct, error) {
	return s.proc.LoadCategoryProduct(ctx, categoryID, productID)
}

func (s *BunchSubject) LoadStockStatus(ctx context.Context, productID, websiteID, stockID int64) (*StockStatus, error) {
	return s.proc.LoadStockStatus(ctx, productID, websiteID, stockID)
}

func (s *BunchSubject) LoadStockItem(ctx context.Context, productID, websiteID, stockID int64) (*StockItem, error) {
	return s.proc.LoadStockItem(ctx, productID, websiteID, stockID)
}

func (s *BunchSubject) LoadProductDatetimeAttribute(ctx context.Context, entityID, attributeID, storeID int64) (*Attribute, error) {
	return s.proc.LoadAttribute(ctx, TypeDatetime, entityID, attributeID, storeID)
}

func (s *BunchSubject) LoadProductDecimalAttribute(ctx context.Context, entityID, attributeID, storeID int64) (*Attribute, error) {
	return s.proc.LoadAttribute(ctx, TypeDecimal, entityID, attributeID, storeID)
}

func (s *BunchSubject) LoadProductIntAttribute(ctx context.Context, entityID, attributeID, storeID int64) (*Attribute, error) {
	return s.proc.LoadAttribute(ctx, TypeInt, entityID, attributeID, storeID)
}

func (s *BunchSubject) LoadProductTextAttribute(ctx context.Context, entityID, attributeID, storeID int64) (*Attribute, error) {
	return s.proc.LoadAttribute(ctx, TypeText, entityID, attributeID, storeID)
}

func (s *BunchSubject) LoadProductVarcharAttribute(ctx context.Context, entityID, attributeID, storeID int64) (*Attribute, error) {
	return s.proc.LoadAttribute(ctx, TypeVarchar, entityID, attributeID, storeID)
}

func (s *BunchSubject) LoadUrlRewriteProductCategory(ctx context.Context, productID, categoryID int64) (*UrlRewriteProductCategory, error) {
	return s.proc.LoadUrlRewriteProductCategory(ctx, productID, categoryID)
}

// Persists.

// PersistProduct returns the entity id of the persisted product.
func (s *BunchSubject) PersistProduct(ctx context.Context, p Product) (int64, error) {
	return s.proc.PersistProduct(ctx, p)
}

func (s *BunchSubject) PersistProductVarcharAttribute(ctx context.Context, attr Attribute) error {
	return s.proc.PersistAttribute(ctx, TypeVarchar, attr)
}

func (s *BunchSubject) PersistProductIntAttribute(ctx context.Context, attr Attribute) error {
	return s.proc.PersistAttribute(ctx, TypeInt, attr)
}

func (s *BunchSubject) PersistProductDecimalAttribute(ctx context.Context, attr Attribute) error {
	return s.proc.PersistAttribute(ctx, TypeDecimal, attr)
}

func (s *BunchSubject) PersistProductDatetimeAttribute(ctx context.Context, attr Attribute) error {
	return s.proc.PersistAttribute(ctx, TypeDatetime, attr)
}

func (s *BunchSubject) PersistProductTextAttribute(ctx context.Context, attr Attribute) error {
	return s.proc.PersistAttribute(ctx, TypeText, attr)
}

func (s *BunchSubject) PersistProductWebsite(ctx context.Context, pw ProductWebsite) error {
	return s.proc.PersistProductWebsite(ctx, pw)
}

func (s *BunchSubject) PersistCategoryProduct(ctx context.Context, cp CategoryProduct) error {
	return s.proc.PersistCategoryProduct(ctx, cp)
}

func (s *BunchSubject) PersistStockItem(ctx context.Context, item StockItem) error {
	return s.proc.PersistStockItem(ctx, item)
}

func (s *BunchSubject) PersistStockStatus(ctx context.Context, status StockStatus) error {
	return s.proc.PersistStockStatus(ctx, status)
}

// PersistUrlRewrite returns the id of the persisted rewrite.
func (s *BunchSubject) PersistUrlRewrite(ctx context.Context, rw UrlRewrite) (int64, error) {
	return s.proc.PersistUrlRewrite(ctx, rw)
}

func (s *BunchSubject) PersistUrlRewriteProductCategory(ctx context.Context, rel UrlRewriteProductCategory) error {
	return s.proc.PersistUrlRewriteProductCategory(ctx, rel)
}

// Deletes. The strategy is interpreted by the store.

func (s *BunchSubject) DeleteProduct(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error {
	return s.proc.DeleteProduct(ctx, key, strategy)
}

func (s *BunchSubject) DeleteUrlRewrite(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error {
	return s.proc.DeleteUrlRewrite(ctx, key, strategy)
}

func (s *BunchSubject) DeleteStockItem(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error {
	return s.proc.DeleteStockItem(ctx, key, strategy)
}

func (s *BunchSubject) DeleteStockStatus(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error {
	return s.proc.DeleteStockStatus(ctx, key, strategy)
}

func (s *BunchSubject) DeleteProductWebsite(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error {
	return s.proc.DeleteProductWebsite(ctx, key, strategy)
}

func (s *BunchSubject) DeleteCategoryProduct(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error {
	return s.proc.DeleteCategoryProduct(ctx, key, strategy)
}
