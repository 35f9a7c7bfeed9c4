package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalog-import/internal/importer"
	"github.com/JonMunkholm/catalog-import/internal/product"
	_ "github.com/JonMunkholm/catalog-import/internal/product/callbacks"
	"github.com/JonMunkholm/catalog-import/internal/product/producttest"
)

var (
	attrName       = product.EavAttribute{AttributeID: 73, AttributeCode: "name", BackendType: product.TypeVarchar, FrontendInput: "text"}
	attrSKU        = product.EavAttribute{AttributeID: 74, AttributeCode: "sku", BackendType: product.TypeStatic, FrontendInput: "text"}
	attrPrice      = product.EavAttribute{AttributeID: 77, AttributeCode: "price", BackendType: product.TypeDecimal, FrontendInput: "price"}
	attrNewsFrom   = product.EavAttribute{AttributeID: 94, AttributeCode: "news_from_date", BackendType: product.TypeDatetime, FrontendInput: "date"}
	attrVisibility = product.EavAttribute{AttributeID: 99, AttributeCode: "visibility", BackendType: product.TypeInt, FrontendInput: "select"}
	attrColor      = product.EavAttribute{AttributeID: 200, AttributeCode: "color", BackendType: product.TypeInt, FrontendInput: "select", IsUserDefined: true}
)

func newStore() *producttest.Store {
	store := producttest.NewStore()
	store.AddAttributeSet(4, "Default", attrName, attrSKU, attrPrice, attrNewsFrom, attrVisibility, attrColor)
	store.AddOption(200, 11, 0, "Red")
	return store
}

func run(t *testing.T, im *importer.Importer, csv string) *importer.Result {
	t.Helper()
	res, err := im.Run(context.Background(), "products.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func TestRun_AddUpdate(t *testing.T) {
	store := newStore()
	im := importer.New(store, importer.Options{WebsiteID: 1})

	res := run(t, im, "sku,name,price,visibility,color,news_from_date,qty,is_in_stock,category_ids\n"+
		`P-1,Crème Tee,19.99,"Catalog, Search",Red,"3/14/24, 9:05 PM",5,1,"3,4"`+"\n")

	require.Equal(t, 1, res.TotalRows)
	require.Equal(t, 1, res.Imported)
	require.Empty(t, res.FailedRows)
	require.NotEmpty(t, res.RunID)
	require.Equal(t, importer.ModeAddUpdate, res.Mode)

	p, ok := store.Products["P-1"]
	require.True(t, ok)
	require.Equal(t, int64(4), p.AttributeSetID)
	require.Equal(t, "simple", p.TypeID)

	checks := []struct {
		bt   product.BackendType
		attr int64
		want any
	}{
		{product.TypeVarchar, 73, "Crème Tee"},
		{product.TypeDecimal, 77, "19.99"},
		{product.TypeInt, 99, int64(product.VisibilityBoth)},
		{product.TypeInt, 200, int64(11)},
		{product.TypeDatetime, 94, "2024-03-14 21:05:00"},
	}
	for _, c := range checks {
		got, ok := store.AttributeValue(c.bt, p.EntityID, c.attr, 0)
		require.True(t, ok, "attribute %d not stored", c.attr)
		require.Equal(t, c.want, got, "attribute %d", c.attr)
	}
	_, ok = store.AttributeValue(product.TypeStatic, p.EntityID, 74, 0)
	require.False(t, ok, "static attributes live on the entity row")

	require.Len(t, store.StockItems, 1)
	for _, item := range store.StockItems {
		require.Equal(t, 5.0, item.Values["qty"])
		require.Equal(t, int64(1), item.Values["is_in_stock"])
		require.Equal(t, int64(1), item.StockID)
	}
	require.Len(t, store.StockStatuses, 1)
	for _, st := range store.StockStatuses {
		require.Equal(t, 5.0, st.Qty)
		require.Equal(t, int64(1), st.StockStatus)
	}

	require.Len(t, store.ProductWebsites, 1)
	require.Len(t, store.CategoryProds, 2)
	require.Len(t, store.UrlRewriteCats, 2)

	paths := map[string]string{}
	for _, rw := range store.UrlRewrites {
		paths[rw.RequestPath] = rw.Metadata
		require.Equal(t, p.EntityID, rw.EntityID)
		require.True(t, rw.IsAutogenerated)
	}
	require.Equal(t, map[string]string{
		"creme-tee.html":            "",
		"category-3/creme-tee.html": `{"category_id":"3"}`,
		"category-4/creme-tee.html": `{"category_id":"4"}`,
	}, paths)
}

func TestRun_UpdateKeepsIdentity(t *testing.T) {
	store := newStore()
	im := importer.New(store, importer.Options{})

	run(t, im, "sku,name,price,url_key\nP-1,Tee,10,tee\n")
	first := store.Products["P-1"]

	res := run(t, im, "sku,name,price,url_key\nP-1,Tee,12.5,tee\n")
	require.Equal(t, 1, res.Imported)

	require.Len(t, store.Products, 1)
	require.Equal(t, first.EntityID, store.Products["P-1"].EntityID)

	got, _ := store.AttributeValue(product.TypeDecimal, first.EntityID, 77, 0)
	require.Equal(t, "12.5", got)
	require.Len(t, store.Attributes, 2)
	require.Len(t, store.UrlRewrites, 1)
}

func TestRun_RowErrorsContinue(t *testing.T) {
	store := newStore()
	im := importer.New(store, importer.Options{})

	res := run(t, im, strings.Join([]string{
		"sku,name,qty,visibility,attribute_set_code,color",
		",No SKU,1,,,",
		"P-2,Bad Vis,1,Hidden,,",
		"P-3,Bad Qty,abc,,,",
		"P-4,Bad Set,1,,Shoes,",
		"P-5,Bad Color,1,,,Teal",
		"P-6,Good,1,Catalog,,",
	}, "\n")+"\n")

	require.Equal(t, 6, res.TotalRows)
	require.Equal(t, 1, res.Imported)
	require.Len(t, res.FailedRows, 5)

	wantCodes := []string{"IMP004", "IMP001", "IMP003", "IMP007", "IMP006"}
	for i, fr := range res.FailedRows {
		require.Equal(t, wantCodes[i], fr.Code, "row %d: %s", i, fr.Reason)
		require.Equal(t, i+2, fr.LineNumber)
		require.Equal(t, "products.csv", fr.FileName)
	}
	require.Contains(t, res.FailedRows[1].Reason, "found invalid visibility Hidden in file products.csv on line 3")

	_, ok := store.Products["P-6"]
	require.True(t, ok)
}

func TestRun_SkipsDuplicateAndEmptyRows(t *testing.T) {
	store := newStore()
	im := importer.New(store, importer.Options{})

	res := run(t, im, "sku,name\nP-1,Tee\n,\nP-1,Tee\nP-1,Tee v2\n")

	require.Equal(t, 3, res.TotalRows)
	require.Equal(t, 1, res.Duplicates)
	require.Equal(t, 2, res.Imported)
}

func TestRun_Sanitizes(t *testing.T) {
	store := newStore()
	im := importer.New(store, importer.Options{})

	res := run(t, im, "\xEF\xBB\xBFSKU,Name\nP-1,Bad\xffName\n")
	require.Equal(t, 1, res.Imported)

	p := store.Products["P-1"]
	got, ok := store.AttributeValue(product.TypeVarchar, p.EntityID, 73, 0)
	require.True(t, ok)
	require.Equal(t, "Bad\uFFFDName", got)
}

func TestRun_CategoryIndexAccumulates(t *testing.T) {
	store := newStore()
	im := importer.New(store, importer.Options{})

	res := run(t, im, "sku,name,category_ids\nP-1,Tee,3\nP-1,Tee,5\n")
	require.Equal(t, 2, res.Imported)

	require.Len(t, store.CategoryProds, 2)
	require.Len(t, store.UrlRewrites, 3)
}

func TestRun_DeleteMode(t *testing.T) {
	store := newStore()
	run(t, importer.New(store, importer.Options{}), "sku,name\nP-1,Tee\n")
	id := store.Products["P-1"].EntityID

	im := importer.New(store, importer.Options{Mode: importer.ModeDelete})
	res := run(t, im, "sku\nP-1\nP-404\n")

	require.Equal(t, 1, res.Deleted)
	require.Equal(t, 1, res.Skipped)
	require.NotContains(t, store.Products, "P-1")

	var kinds []string
	for _, d := range store.Deletes {
		kinds = append(kinds, d.Kind)
		require.Equal(t, product.DeleteBySKU, d.Strategy)
		require.Equal(t, product.DeleteKey{SKU: "P-1", EntityID: id}, d.Key)
	}
	require.Equal(t, []string{"url_rewrite", "stock_status", "stock_item", "product_website", "category_product", "product"}, kinds)
}

func TestRun_ReplaceMode(t *testing.T) {
	store := newStore()
	run(t, importer.New(store, importer.Options{}), "sku,name\nP-1,Tee\n")
	oldID := store.Products["P-1"].EntityID

	res := run(t, importer.New(store, importer.Options{}).WithMode(importer.ModeReplace), "sku,name\nP-1,Tee\n")
	require.Equal(t, 1, res.Imported)
	require.Equal(t, importer.ModeReplace, res.Mode)
	require.NotEqual(t, oldID, store.Products["P-1"].EntityID)
}

func TestRun_Aborts(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		_, err := importer.New(newStore(), importer.Options{}).Run(context.Background(), "x.csv", strings.NewReader(""))
		require.ErrorIs(t, err, importer.ErrEmptyFile)
	})

	t.Run("no sku column", func(t *testing.T) {
		res, err := importer.New(newStore(), importer.Options{}).Run(context.Background(), "x.csv", strings.NewReader("name\nTee\n"))
		require.ErrorIs(t, err, importer.ErrNoSKUColumn)
		require.Equal(t, importer.ErrNoSKUColumn.Error(), res.Error)
	})

	t.Run("unknown callback", func(t *testing.T) {
		im := importer.New(newStore(), importer.Options{
			Callbacks: []map[string][]string{{"name": {"no_such_callback"}}},
		})
		_, err := im.Run(context.Background(), "x.csv", strings.NewReader("sku,name\nP-1,Tee\n"))
		var cbErr *product.UnknownCallbackError
		require.ErrorAs(t, err, &cbErr)
		require.Equal(t, "no_such_callback", cbErr.ID)
	})

	t.Run("store error", func(t *testing.T) {
		store := newStore()
		store.Err = errors.New("connection refused")
		res, err := importer.New(store, importer.Options{}).Run(context.Background(), "x.csv", strings.NewReader("sku\nP-1\n"))
		require.ErrorIs(t, err, store.Err)
		require.NotNil(t, res)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := importer.New(newStore(), importer.Options{}).Run(ctx, "x.csv", strings.NewReader("sku\nP-1\n"))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    importer.Mode
		wantErr bool
	}{
		{"", importer.ModeAddUpdate, false},
		{"add-update", importer.ModeAddUpdate, false},
		{"delete", importer.ModeDelete, false},
		{"replace", importer.ModeReplace, false},
		{"append", "", true},
	}
	for _, tt := range tests {
		got, err := importer.ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestImporter_CallbackMappings(t *testing.T) {
	im := importer.New(newStore(), importer.Options{
		Callbacks: []map[string][]string{{"name": {product.CallbackBoolean}}},
	})

	m, err := im.CallbackMappings(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{product.CallbackSelect}, m.Get("color"))
	require.Equal(t, []string{product.CallbackBoolean}, m.Get("name"))
	require.Equal(t, []string{product.CallbackVisibility}, m.Get("visibility"))
}

type recorder struct{ runs []*importer.Result }

func (r *recorder) RecordRun(ctx context.Context, result *importer.Result) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.runs = append(r.runs, result)
	return nil
}

func TestRun_RecordsHistory(t *testing.T) {
	rec := &recorder{}
	im := importer.New(newStore(), importer.Options{History: rec})

	res := run(t, im, "sku,name\nP-1,Tee\n")
	_, err := im.Run(context.Background(), "empty.csv", strings.NewReader(""))
	require.ErrorIs(t, err, importer.ErrEmptyFile)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = im.Run(ctx, "cancelled.csv", strings.NewReader("sku\nP-1\n"))
	require.Error(t, err)

	require.Len(t, rec.runs, 3)
	require.Same(t, res, rec.runs[0])
	require.Equal(t, importer.ErrEmptyFile.Error(), rec.runs[1].Error)
	require.Equal(t, context.Canceled.Error(), rec.runs[2].Error)
}

func TestRun_RejectedRunNotRecorded(t *testing.T) {
	rec := &recorder{}
	limiter := importer.NewLimiter(1, 10*time.Millisecond)
	require.NoError(t, limiter.Acquire(context.Background()))
	defer limiter.Release()

	im := importer.New(newStore(), importer.Options{History: rec, Limiter: limiter})
	_, err := im.Run(context.Background(), "x.csv", strings.NewReader("sku\nP-1\n"))
	require.ErrorIs(t, err, importer.ErrTooManyImports)
	require.Empty(t, rec.runs)
}
