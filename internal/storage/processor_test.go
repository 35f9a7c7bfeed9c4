package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalog-import/internal/product"
	"github.com/JonMunkholm/catalog-import/internal/storage"
	"github.com/JonMunkholm/catalog-import/internal/storage/sqlstore"
)

func newProcessor(tb testing.TB) (*storage.Processor, *sqlstore.DB) {
	tb.Helper()
	ctx := context.Background()

	db, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, ":memory:", sqlstore.PoolConfig{})
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = db.Close() })

	require.NoError(tb, sqlstore.Bootstrap(ctx, db, true))
	return storage.NewProcessor(db, nil), db
}

func mustProduct(t *testing.T, p *storage.Processor, sku string) int64 {
	t.Helper()
	id, err := p.PersistProduct(context.Background(), product.Product{SKU: sku, TypeID: "simple", AttributeSetID: 4})
	require.NoError(t, err)
	require.NotZero(t, id)
	return id
}

func TestProcessor_Product(t *testing.T) {
	p, _ := newProcessor(t)
	ctx := context.Background()

	_, err := p.LoadProduct(ctx, "SKU-1")
	require.ErrorIs(t, err, product.ErrNotFound)

	id := mustProduct(t, p, "SKU-1")

	got, err := p.LoadProduct(ctx, "SKU-1")
	require.NoError(t, err)
	require.Equal(t, id, got.EntityID)
	require.Equal(t, "simple", got.TypeID)
	require.False(t, got.CreatedAt.IsZero())

	got.TypeID = "virtual"
	got.HasOptions = true
	sameID, err := p.PersistProduct(ctx, *got)
	require.NoError(t, err)
	require.Equal(t, id, sameID)

	got, err = p.LoadProduct(ctx, "SKU-1")
	require.NoError(t, err)
	require.Equal(t, "virtual", got.TypeID)
	require.True(t, got.HasOptions)
}

func TestProcessor_Attributes(t *testing.T) {
	p, _ := newProcessor(t)
	ctx := context.Background()
	id := mustProduct(t, p, "SKU-1")

	tests := []struct {
		bt    product.BackendType
		value any
		want  any
	}{
		{product.TypeVarchar, "Blue Shirt", "Blue Shirt"},
		{product.TypeText, "<p>long</p>", "<p>long</p>"},
		{product.TypeInt, int64(4), int64(4)},
		{product.TypeDecimal, "9.99", 9.99},
	}

	for _, tt := range tests {
		t.Run(string(tt.bt), func(t *testing.T) {
			err := p.PersistAttribute(ctx, tt.bt, product.Attribute{AttributeID: 73, EntityID: id, Value: tt.value})
			require.NoError(t, err)

			got, err := p.LoadAttribute(ctx, tt.bt, id, 73, 0)
			require.NoError(t, err)
			require.NotZero(t, got.ValueID)
			require.Equal(t, tt.want, got.Value)

			got.Value = tt.value
			require.NoError(t, p.PersistAttribute(ctx, tt.bt, *got))

			_, err = p.LoadAttribute(ctx, tt.bt, id, 73, 1)
			require.ErrorIs(t, err, product.ErrNotFound)
		})
	}

	err := p.PersistAttribute(ctx, product.TypeStatic, product.Attribute{AttributeID: 1, EntityID: id})
	require.Error(t, err)
}

func TestProcessor_Stock(t *testing.T) {
	p, _ := newProcessor(t)
	ctx := context.Background()
	id := mustProduct(t, p, "SKU-1")

	item := product.StockItem{
		ProductID: id,
		WebsiteID: 0,
		StockID:   1,
		Values:    map[string]any{"qty": 12.5, "is_in_stock": int64(1)},
	}
	require.NoError(t, p.PersistStockItem(ctx, item))

	got, err := p.LoadStockItem(ctx, id, 0, 1)
	require.NoError(t, err)
	require.NotZero(t, got.ItemID)
	require.Equal(t, 12.5, got.Values["qty"])
	require.Equal(t, int64(1), got.Values["is_in_stock"])
	require.Len(t, got.Values, len(product.StockColumns()))

	got.Values = map[string]any{"qty": 3.5}
	require.NoError(t, p.PersistStockItem(ctx, *got))
	got, err = p.LoadStockItem(ctx, id, 0, 1)
	require.NoError(t, err)
	require.Equal(t, 3.5, got.Values["qty"])

	err = p.PersistStockItem(ctx, product.StockItem{ProductID: id, Values: map[string]any{"qty; DROP": 1}})
	require.Error(t, err)

	status := product.StockStatus{ProductID: id, WebsiteID: 0, StockID: 1, Qty: 3, StockStatus: 1}
	require.NoError(t, p.PersistStockStatus(ctx, status))
	status.Qty = 0
	status.StockStatus = 0
	require.NoError(t, p.PersistStockStatus(ctx, status))

	st, err := p.LoadStockStatus(ctx, id, 0, 1)
	require.NoError(t, err)
	require.Equal(t, 0.0, st.Qty)
	require.Equal(t, int64(0), st.StockStatus)
}

func TestProcessor_Relations(t *testing.T) {
	p, _ := newProcessor(t)
	ctx := context.Background()
	id := mustProduct(t, p, "SKU-1")

	require.NoError(t, p.PersistProductWebsite(ctx, product.ProductWebsite{ProductID: id, WebsiteID: 1}))
	require.NoError(t, p.PersistProductWebsite(ctx, product.ProductWebsite{ProductID: id, WebsiteID: 1}))
	_, err := p.LoadProductWebsite(ctx, id, 1)
	require.NoError(t, err)

	require.NoError(t, p.PersistCategoryProduct(ctx, product.CategoryProduct{CategoryID: 5, ProductID: id, Position: 2}))
	cp, err := p.LoadCategoryProduct(ctx, 5, id)
	require.NoError(t, err)
	require.Equal(t, int64(2), cp.Position)

	cp.Position = 9
	require.NoError(t, p.PersistCategoryProduct(ctx, *cp))
	cp, err = p.LoadCategoryProduct(ctx, 5, id)
	require.NoError(t, err)
	require.Equal(t, int64(9), cp.Position)
}

func TestProcessor_UrlRewrites(t *testing.T) {
	p, _ := newProcessor(t)
	ctx := context.Background()
	id := mustProduct(t, p, "SKU-1")

	rwID, err := p.PersistUrlRewrite(ctx, product.UrlRewrite{
		EntityType:      product.EntityTypeProduct,
		EntityID:        id,
		RequestPath:     "blue-shirt.html",
		TargetPath:      "catalog/product/view/id/1",
		StoreID:         1,
		IsAutogenerated: true,
	})
	require.NoError(t, err)

	catRwID, err := p.PersistUrlRewrite(ctx, product.UrlRewrite{
		EntityType:  product.EntityTypeProduct,
		EntityID:    id,
		RequestPath: "men/blue-shirt.html",
		TargetPath:  "catalog/product/view/id/1/category/5",
		StoreID:     1,
		Metadata:    `{"category_id":"5"}`,
	})
	require.NoError(t, err)
	require.NoError(t, p.PersistUrlRewriteProductCategory(ctx, product.UrlRewriteProductCategory{
		UrlRewriteID: catRwID, CategoryID: 5, ProductID: id,
	}))

	rws, err := p.UrlRewritesByEntityTypeAndEntityID(ctx, product.EntityTypeProduct, id)
	require.NoError(t, err)
	require.Len(t, rws, 2)
	require.Equal(t, rwID, rws[0].UrlRewriteID)
	require.True(t, rws[0].IsAutogenerated)
	require.Empty(t, rws[0].Metadata)
	require.Equal(t, `{"category_id":"5"}`, rws[1].Metadata)

	rel, err := p.LoadUrlRewriteProductCategory(ctx, id, 5)
	require.NoError(t, err)
	require.Equal(t, catRwID, rel.UrlRewriteID)

	rws[0].RequestPath = "blue-shirt-new.html"
	sameID, err := p.PersistUrlRewrite(ctx, rws[0])
	require.NoError(t, err)
	require.Equal(t, rwID, sameID)

	require.NoError(t, p.DeleteUrlRewrite(ctx, product.DeleteKey{EntityID: id}, product.DeleteDefault))
	rws, err = p.UrlRewritesByEntityTypeAndEntityID(ctx, product.EntityTypeProduct, id)
	require.NoError(t, err)
	require.Empty(t, rws)

	_, err = p.LoadUrlRewriteProductCategory(ctx, id, 5)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestProcessor_Eav(t *testing.T) {
	p, db := newProcessor(t)
	ctx := context.Background()

	_, err := db.Exec(ctx, `INSERT INTO eav_attribute (attribute_id, entity_type_id, attribute_code, backend_type, frontend_input, is_user_defined)
VALUES (200, 4, 'color', 'int', 'select', 1)`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO eav_entity_attribute (entity_type_id, attribute_set_id, attribute_id) VALUES (4, 4, 200)`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO eav_attribute_option (option_id, attribute_id) VALUES (10, 200)`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO eav_attribute_option_value (option_id, store_id, value) VALUES (10, 0, 'Red')`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO eav_attribute (attribute_id, entity_type_id, attribute_code, backend_type, frontend_input, is_user_defined)
VALUES (201, 4, 'trim_color', 'int', 'select', 1)`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO eav_attribute_option (option_id, attribute_id) VALUES (20, 201)`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO eav_attribute_option_value (option_id, store_id, value) VALUES (20, 0, 'Red')`)
	require.NoError(t, err)

	userDefined, err := p.EavAttributesByIsUserDefined(ctx, true)
	require.NoError(t, err)
	require.Len(t, userDefined, 2)
	require.Equal(t, "color", userDefined[0].AttributeCode)
	require.Equal(t, product.TypeInt, userDefined[0].BackendType)
	require.True(t, userDefined[0].IsUserDefined)

	system, err := p.EavAttributesByIsUserDefined(ctx, false)
	require.NoError(t, err)
	require.NotEmpty(t, system)

	set, err := p.LoadAttributeSet(ctx, "Default")
	require.NoError(t, err)
	require.Equal(t, int64(4), set.ID)
	color, ok := set.Attribute("color")
	require.True(t, ok)
	require.Equal(t, "select", color.FrontendInput)
	name, ok := set.Attribute("name")
	require.True(t, ok)
	require.Equal(t, product.TypeVarchar, name.BackendType)

	_, err = p.LoadAttributeSet(ctx, "Missing")
	require.ErrorIs(t, err, product.ErrNotFound)

	ov, err := p.EavAttributeOptionValueByOptionValueAndStoreID(ctx, "Red", 0)
	require.NoError(t, err)
	require.Equal(t, int64(10), ov.OptionID)

	_, err = p.EavAttributeOptionValueByOptionValueAndStoreID(ctx, "Red", 1)
	require.ErrorIs(t, err, product.ErrNotFound)

	ov, err = p.EavAttributeOptionValueByAttributeIDOptionValueAndStoreID(ctx, 201, "Red", 0)
	require.NoError(t, err)
	require.Equal(t, int64(20), ov.OptionID)

	ov, err = p.EavAttributeOptionValueByAttributeIDOptionValueAndStoreID(ctx, 200, "Red", 0)
	require.NoError(t, err)
	require.Equal(t, int64(10), ov.OptionID)

	_, err = p.EavAttributeOptionValueByAttributeIDOptionValueAndStoreID(ctx, 202, "Red", 0)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestProcessor_DeleteStrategies(t *testing.T) {
	p, _ := newProcessor(t)
	ctx := context.Background()

	id := mustProduct(t, p, "SKU-1")
	other := mustProduct(t, p, "SKU-2")
	for _, pid := range []int64{id, other} {
		require.NoError(t, p.PersistProductWebsite(ctx, product.ProductWebsite{ProductID: pid, WebsiteID: 1}))
		require.NoError(t, p.PersistCategoryProduct(ctx, product.CategoryProduct{CategoryID: 5, ProductID: pid}))
		require.NoError(t, p.PersistStockStatus(ctx, product.StockStatus{ProductID: pid, StockID: 1, StockStatus: 1}))
	}

	require.NoError(t, p.DeleteProductWebsite(ctx, product.DeleteKey{SKU: "SKU-1"}, product.DeleteBySKU))
	_, err := p.LoadProductWebsite(ctx, id, 1)
	require.ErrorIs(t, err, product.ErrNotFound)
	_, err = p.LoadProductWebsite(ctx, other, 1)
	require.NoError(t, err)

	require.NoError(t, p.DeleteCategoryProduct(ctx, product.DeleteKey{EntityID: id}, product.DeleteByEntityID))
	_, err = p.LoadCategoryProduct(ctx, 5, id)
	require.ErrorIs(t, err, product.ErrNotFound)

	require.NoError(t, p.DeleteStockStatus(ctx, product.DeleteKey{EntityID: id}, product.DeleteDefault))
	_, err = p.LoadStockStatus(ctx, id, 0, 1)
	require.ErrorIs(t, err, product.ErrNotFound)

	require.NoError(t, p.DeleteProduct(ctx, product.DeleteKey{SKU: "SKU-1"}, product.DeleteDefault))
	_, err = p.LoadProduct(ctx, "SKU-1")
	require.ErrorIs(t, err, product.ErrNotFound)

	require.NoError(t, p.DeleteProduct(ctx, product.DeleteKey{EntityID: other}, product.DeleteByEntityID))
	_, err = p.LoadProduct(ctx, "SKU-2")
	require.ErrorIs(t, err, product.ErrNotFound)

	_, err = p.LoadStockStatus(ctx, other, 0, 1)
	require.ErrorIs(t, err, product.ErrNotFound, "stock status should cascade with the product")

	err = p.DeleteStockItem(ctx, product.DeleteKey{EntityID: id}, product.DeleteStrategy(42))
	require.True(t, errors.Is(err, storage.ErrUnsupportedStrategy))
}
