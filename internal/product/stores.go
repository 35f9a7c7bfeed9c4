package product

import "context"

// ProductStore persists catalog_product_entity rows.
type ProductStore interface {
	LoadProduct(ctx context.Context, sku string) (*Product, error)
	PersistProduct(ctx context.Context, p Product) (int64, error)
	DeleteProduct(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error
}

// AttributeStore persists the typed attribute value tables. bt must be one of
// the persistable backend types.
type AttributeStore interface {
	LoadAttribute(ctx context.Context, bt BackendType, entityID, attributeID, storeID int64) (*Attribute, error)
	PersistAttribute(ctx context.Context, bt BackendType, attr Attribute) error
}

// StockStore persists stock items and stock status rows.
type StockStore interface {
	LoadStockItem(ctx context.Context, productID, websiteID, stockID int64) (*StockItem, error)
	PersistStockItem(ctx context.Context, item StockItem) error
	DeleteStockItem(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error

	LoadStockStatus(ctx context.Context, productID, websiteID, stockID int64) (*StockStatus, error)
	PersistStockStatus(ctx context.Context, status StockStatus) error
	DeleteStockStatus(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error
}

// WebsiteStore persists product-website relations.
type WebsiteStore interface {
	LoadProductWebsite(ctx context.Context, productID, websiteID int64) (*ProductWebsite, error)
	PersistProductWebsite(ctx context.Context, pw ProductWebsite) error
	DeleteProductWebsite(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error
}

// CategoryRelationStore persists category-product relations.
type CategoryRelationStore interface {
	LoadCategoryProduct(ctx context.Context, categoryID, productID int64) (*CategoryProduct, error)
	PersistCategoryProduct(ctx context.Context, cp CategoryProduct) error
	DeleteCategoryProduct(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error
}

// UrlRewriteStore persists URL rewrites and their category relations.
type UrlRewriteStore interface {
	UrlRewritesByEntityTypeAndEntityID(ctx context.Context, entityType string, entityID int64) ([]UrlRewrite, error)
	PersistUrlRewrite(ctx context.Context, rw UrlRewrite) (int64, error)
	DeleteUrlRewrite(ctx context.Context, key DeleteKey, strategy DeleteStrategy) error

	LoadUrlRewriteProductCategory(ctx context.Context, productID, categoryID int64) (*UrlRewriteProductCategory, error)
	PersistUrlRewriteProductCategory(ctx context.Context, rel UrlRewriteProductCategory) error
}

// EavStore reads attribute metadata.
type EavStore interface {
	EavAttributeOptionValueByOptionValueAndStoreID(ctx context.Context, value string, storeID int64) (*EavAttributeOptionValue, error)
	// EavAttributeOptionValueByAttributeIDOptionValueAndStoreID only matches
	// labels of options that belong to attributeID.
	EavAttributeOptionValueByAttributeIDOptionValueAndStoreID(ctx context.Context, attributeID int64, value string, storeID int64) (*EavAttributeOptionValue, error)
	EavAttributesByIsUserDefined(ctx context.Context, isUserDefined bool) ([]EavAttribute, error)
	LoadAttributeSet(ctx context.Context, name string) (*AttributeSet, error)
}

// Processor is everything a BunchSubject forwards to. Load methods return
// ErrNotFound when no row matches.
type Processor interface {
	ProductStore
	AttributeStore
	StockStore
	WebsiteStore
	CategoryRelationStore
	UrlRewriteStore
	EavStore
}
