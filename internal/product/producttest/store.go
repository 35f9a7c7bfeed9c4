// Package producttest provides an in-memory product.Processor for tests.
package producttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/JonMunkholm/catalog-import/internal/product"
)

type attrKey struct {
	bt          product.BackendType
	entityID    int64
	attributeID int64
	storeID     int64
}

type stockKey struct {
	productID, websiteID, stockID int64
}

type pairKey struct {
	a, b int64
}

type optionKey struct {
	attributeID int64
	value       string
	storeID     int64
}

// Delete records one delete call.
type Delete struct {
	Kind     string
	Key      product.DeleteKey
	Strategy product.DeleteStrategy
}

// Store is an in-memory product.Processor. The zero value is not usable; use NewStore.
type Store struct {
	mu sync.Mutex

	nextID int64

	Products        map[string]product.Product
	Attributes      map[attrKey]product.Attribute
	StockItems      map[stockKey]product.StockItem
	StockStatuses   map[stockKey]product.StockStatus
	ProductWebsites map[pairKey]product.ProductWebsite
	CategoryProds   map[pairKey]product.CategoryProduct
	UrlRewrites     map[int64]product.UrlRewrite
	UrlRewriteCats  map[pairKey]product.UrlRewriteProductCategory
	Options         map[optionKey]product.EavAttributeOptionValue
	EavAttributes   []product.EavAttribute
	AttributeSets   map[string]product.AttributeSet
	Deletes         []Delete

	// Err, when set, is returned by every call.
	Err error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		Products:        make(map[string]product.Product),
		Attributes:      make(map[attrKey]product.Attribute),
		StockItems:      make(map[stockKey]product.StockItem),
		StockStatuses:   make(map[stockKey]product.StockStatus),
		ProductWebsites: make(map[pairKey]product.ProductWebsite),
		CategoryProds:   make(map[pairKey]product.CategoryProduct),
		UrlRewrites:     make(map[int64]product.UrlRewrite),
		UrlRewriteCats:  make(map[pairKey]product.UrlRewriteProductCategory),
		Options:         make(map[optionKey]product.EavAttributeOptionValue),
		AttributeSets:   make(map[string]product.AttributeSet),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AddOption registers an option label of attributeID for a store.
func (s *Store) AddOption(attributeID, optionID, storeID int64, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Options[optionKey{attributeID, value, storeID}] = product.EavAttributeOptionValue{
		ValueID:  s.id(),
		OptionID: optionID,
		StoreID:  storeID,
		Value:    value,
	}
}

// AddAttributeSet registers an attribute set containing attrs. Attributes are
// also added to the EAV attribute list.
func (s *Store) AddAttributeSet(id int64, name string, attrs ...product.EavAttribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := product.AttributeSet{ID: id, Name: name, Attributes: make(map[string]product.EavAttribute)}
	for _, a := range attrs {
		set.Attributes[a.AttributeCode] = a
		s.EavAttributes = append(s.EavAttributes, a)
	}
	s.AttributeSets[name] = set
}

// AttributeValue returns the stored value of an attribute.
func (s *Store) AttributeValue(bt product.BackendType, entityID, attributeID, storeID int64) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Attributes[attrKey{bt, entityID, attributeID, storeID}]
	return a.Value, ok
}

func (s *Store) LoadProduct(_ context.Context, sku string) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.Products[sku]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (s *Store) PersistProduct(_ context.Context, p product.Product) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if p.EntityID == 0 {
		p.EntityID = s.id()
	}
	s.Products[p.SKU] = p
	return p.EntityID, nil
}

func (s *Store) DeleteProduct(_ context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Deletes = append(s.Deletes, Delete{"product", key, strategy})
	for sku, p := range s.Products {
		if sku == key.SKU || (key.EntityID != 0 && p.EntityID == key.EntityID) {
			delete(s.Products, sku)
		}
	}
	return nil
}

func (s *Store) LoadAttribute(_ context.Context, bt product.BackendType, entityID, attributeID, storeID int64) (*product.Attribute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	a, ok := s.Attributes[attrKey{bt, entityID, attributeID, storeID}]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &a, nil
}

func (s *Store) PersistAttribute(_ context.Context, bt product.BackendType, attr product.Attribute) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if !bt.Persistable() {
		return fmt.Errorf("no attribute table for backend type %q", bt)
	}
	if attr.ValueID == 0 {
		attr.ValueID = s.id()
	}
	s.Attributes[attrKey{bt, attr.EntityID, attr.AttributeID, attr.StoreID}] = attr
	return nil
}

func (s *Store) LoadStockItem(_ context.Context, productID, websiteID, stockID int64) (*product.StockItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	item, ok := s.StockItems[stockKey{productID, websiteID, stockID}]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &item, nil
}

func (s *Store) PersistStockItem(_ context.Context, item product.StockItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if item.ItemID == 0 {
		item.ItemID = s.id()
	}
	s.StockItems[stockKey{item.ProductID, item.WebsiteID, item.StockID}] = item
	return nil
}

func (s *Store) DeleteStockItem(_ context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	return s.recordDelete("stock_item", key, strategy)
}

func (s *Store) LoadStockStatus(_ context.Context, productID, websiteID, stockID int64) (*product.StockStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	st, ok := s.StockStatuses[stockKey{productID, websiteID, stockID}]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &st, nil
}

func (s *Store) PersistStockStatus(_ context.Context, status product.StockStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.StockStatuses[stockKey{status.ProductID, status.WebsiteID, status.StockID}] = status
	return nil
}

func (s *Store) DeleteStockStatus(_ context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	return s.recordDelete("stock_status", key, strategy)
}

func (s *Store) LoadProductWebsite(_ context.Context, productID, websiteID int64) (*product.ProductWebsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	pw, ok := s.ProductWebsites[pairKey{productID, websiteID}]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &pw, nil
}

func (s *Store) PersistProductWebsite(_ context.Context, pw product.ProductWebsite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.ProductWebsites[pairKey{pw.ProductID, pw.WebsiteID}] = pw
	return nil
}

func (s *Store) DeleteProductWebsite(_ context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	return s.recordDelete("product_website", key, strategy)
}

func (s *Store) LoadCategoryProduct(_ context.Context, categoryID, productID int64) (*product.CategoryProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	cp, ok := s.CategoryProds[pairKey{categoryID, productID}]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &cp, nil
}

func (s *Store) PersistCategoryProduct(_ context.Context, cp product.CategoryProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if cp.EntityID == 0 {
		cp.EntityID = s.id()
	}
	s.CategoryProds[pairKey{cp.CategoryID, cp.ProductID}] = cp
	return nil
}

func (s *Store) DeleteCategoryProduct(_ context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	return s.recordDelete("category_product", key, strategy)
}

func (s *Store) UrlRewritesByEntityTypeAndEntityID(_ context.Context, entityType string, entityID int64) ([]product.UrlRewrite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []product.UrlRewrite
	for _, rw := range s.UrlRewrites {
		if rw.EntityType == entityType && rw.EntityID == entityID {
			out = append(out, rw)
		}
	}
	return out, nil
}

func (s *Store) PersistUrlRewrite(_ context.Context, rw product.UrlRewrite) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	if rw.UrlRewriteID == 0 {
		rw.UrlRewriteID = s.id()
	}
	s.UrlRewrites[rw.UrlRewriteID] = rw
	return rw.UrlRewriteID, nil
}

func (s *Store) DeleteUrlRewrite(_ context.Context, key product.DeleteKey, strategy product.DeleteStrategy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Deletes = append(s.Deletes, Delete{"url_rewrite", key, strategy})
	if key.EntityID == 0 {
		return nil
	}
	for id, rw := range s.UrlRewrites {
		if rw.EntityType == product.EntityTypeProduct && rw.EntityID == key.EntityID {
			delete(s.UrlRewrites, id)
			for k, rel := range s.UrlRewriteCats {
				if rel.UrlRewriteID == id {
					delete(s.UrlRewriteCats, k)
				}
			}
		}
	}
	return nil
}

func (s *Store) LoadUrlRewriteProductCategory(_ context.Context, productID, categoryID int64) (*product.UrlRewriteProductCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	rel, ok := s.UrlRewriteCats[pairKey{productID, categoryID}]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &rel, nil
}

func (s *Store) PersistUrlRewriteProductCategory(_ context.Context, rel product.UrlRewriteProductCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.UrlRewriteCats[pairKey{rel.ProductID, rel.CategoryID}] = rel
	return nil
}

func (s *Store) EavAttributeOptionValueByOptionValueAndStoreID(_ context.Context, value string, storeID int64) (*product.EavAttributeOptionValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var found *product.EavAttributeOptionValue
	for k, ov := range s.Options {
		if k.value != value || k.storeID != storeID {
			continue
		}
		if found == nil || ov.ValueID < found.ValueID {
			ov := ov
			found = &ov
		}
	}
	if found == nil {
		return nil, product.ErrNotFound
	}
	return found, nil
}

func (s *Store) EavAttributeOptionValueByAttributeIDOptionValueAndStoreID(_ context.Context, attributeID int64, value string, storeID int64) (*product.EavAttributeOptionValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	ov, ok := s.Options[optionKey{attributeID, value, storeID}]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &ov, nil
}

func (s *Store) EavAttributesByIsUserDefined(_ context.Context, isUserDefined bool) ([]product.EavAttribute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []product.EavAttribute
	for _, a := range s.EavAttributes {
		if a.IsUserDefined == isUserDefined {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) LoadAttributeSet(_ context.Context, name string) (*product.AttributeSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	set, ok := s.AttributeSets[name]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &set, nil
}

func (s *Store) recordDelete(kind string, key product.DeleteKey, strategy product.DeleteStrategy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Deletes = append(s.Deletes, Delete{kind, key, strategy})
	return nil
}

var _ product.Processor = (*Store)(nil)
