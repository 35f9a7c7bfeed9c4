package product

import "time"

// BackendType is the storage representation of an EAV attribute value. The
// same tags double as cast targets, plus TypeFloat which only appears in
// column coercion tables.
type BackendType string

const (
	TypeDatetime BackendType = "datetime"
	TypeDecimal  BackendType = "decimal"
	TypeInt      BackendType = "int"
	TypeText     BackendType = "text"
	TypeVarchar  BackendType = "varchar"
	TypeFloat    BackendType = "float"
	TypeStatic   BackendType = "static"
)

// attributeBackendTypes lists the backend types that own an attribute value table.
var attributeBackendTypes = []BackendType{TypeDatetime, TypeDecimal, TypeInt, TypeText, TypeVarchar}

// Persistable reports whether values of this type live in their own attribute table.
func (t BackendType) Persistable() bool {
	for _, bt := range attributeBackendTypes {
		if bt == t {
			return true
		}
	}
	return false
}

// DeleteStrategy selects which statement a store uses for a delete. The
// subject forwards it untouched.
type DeleteStrategy int

const (
	DeleteDefault DeleteStrategy = iota
	DeleteBySKU
	DeleteByEntityID
)

func (s DeleteStrategy) String() string {
	switch s {
	case DeleteBySKU:
		return "by_sku"
	case DeleteByEntityID:
		return "by_entity_id"
	default:
		return "default"
	}
}

// DeleteKey identifies the rows a delete applies to. Which field is read
// depends on the strategy.
type DeleteKey struct {
	SKU      string
	EntityID int64
}

// EntityTypeProduct is the url_rewrite entity type for products.
const EntityTypeProduct = "product"

// Product is a row of catalog_product_entity.
type Product struct {
	EntityID        int64
	AttributeSetID  int64
	TypeID          string
	SKU             string
	HasOptions      bool
	RequiredOptions bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Attribute is a row of one of the typed catalog_product_entity_* tables.
// Value holds the cast scalar (string, int64, float64).
type Attribute struct {
	ValueID     int64
	AttributeID int64
	StoreID     int64
	EntityID    int64
	Value       any
}

// StockItem is a row of cataloginventory_stock_item. Values is keyed by the
// column names of HeaderStockMappings.
type StockItem struct {
	ItemID    int64
	ProductID int64
	WebsiteID int64
	StockID   int64
	Values    map[string]any
}

// StockStatus is a row of cataloginventory_stock_status.
type StockStatus struct {
	ProductID   int64
	WebsiteID   int64
	StockID     int64
	Qty         float64
	StockStatus int64
}

// ProductWebsite relates a product to a website.
type ProductWebsite struct {
	ProductID int64
	WebsiteID int64
}

// CategoryProduct relates a product to a category.
type CategoryProduct struct {
	EntityID   int64
	CategoryID int64
	ProductID  int64
	Position   int64
}

// UrlRewrite is a row of url_rewrite.
type UrlRewrite struct {
	UrlRewriteID    int64
	EntityType      string
	EntityID        int64
	RequestPath     string
	TargetPath      string
	RedirectType    int64
	StoreID         int64
	Description     string
	IsAutogenerated bool
	Metadata        string
}

// UrlRewriteProductCategory relates a URL rewrite to the category it was generated for.
type UrlRewriteProductCategory struct {
	UrlRewriteID int64
	CategoryID   int64
	ProductID    int64
}

// EavAttribute is the metadata of a product attribute.
type EavAttribute struct {
	AttributeID   int64
	AttributeCode string
	BackendType   BackendType
	FrontendInput string
	IsUserDefined bool
}

// EavAttributeOptionValue is a store-scoped label of a select option.
type EavAttributeOptionValue struct {
	ValueID  int64
	OptionID int64
	StoreID  int64
	Value    string
}

// AttributeSet describes the attributes that apply to the row being processed.
type AttributeSet struct {
	ID         int64
	Name       string
	Attributes map[string]EavAttribute
}

// Attribute returns the attribute metadata for code, if the set contains it.
func (s AttributeSet) Attribute(code string) (EavAttribute, bool) {
	a, ok := s.Attributes[code]
	return a, ok
}
