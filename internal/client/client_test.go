package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Warehouse/internal/catalog"
	"Warehouse/internal/client"
)

func newClient(t *testing.T) *client.Client {
	t.Helper()

	s := &catalog.Server{
		Directory:  catalog.NewDirectory(),
		Categories: catalog.NewCategoryRegistry(),
		Log:        zap.NewNop(),
	}
	ts := httptest.NewServer(catalog.NewHandler(s, catalog.HTTPDeps{Log: zap.NewNop(), Service: "warehouse"}))
	t.Cleanup(ts.Close)

	return client.New(ts.URL + "/")
}

func TestClient_RoundTrip(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	wh, err := c.OpenWarehouse(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "main", wh.Name)
	assert.True(t, wh.Empty)

	id := uuid.New()
	added, err := c.AddProduct(ctx, "main", client.NewProduct{
		ID:       id,
		Name:     "Apple",
		Category: "fruit",
		Price:    decimal.NewNullDecimal(decimal.RequireFromString("1.50")),
	})
	require.NoError(t, err)
	assert.Equal(t, id, added.ID)
	assert.Equal(t, "Fruit", added.CategoryName)

	generated, err := c.AddProduct(ctx, "main", client.NewProduct{Name: "Pear", Category: "fruit"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, generated.ID)
	assert.True(t, generated.Price.IsZero())

	require.NoError(t, c.UpdatePrice(ctx, "main", id, decimal.RequireFromString("2")))

	got, err := c.Product(ctx, "main", id)
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("2")))

	all, err := c.Products(ctx, "main")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	changed, err := c.ChangedProducts(ctx, "main")
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, id, changed[0].ID)
	assert.True(t, changed[0].Price.Equal(decimal.RequireFromString("1.50")))
}

func TestClient_ErrorMapping(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	_, err := c.OpenWarehouse(ctx, "main")
	require.NoError(t, err)

	_, err = c.Products(ctx, "missing")
	assert.ErrorIs(t, err, client.ErrNotFound)

	_, err = c.Product(ctx, "main", uuid.New())
	assert.ErrorIs(t, err, client.ErrNotFound)

	err = c.UpdatePrice(ctx, "main", uuid.New(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, client.ErrNotFound)

	id := uuid.New()
	_, err = c.AddProduct(ctx, "main", client.NewProduct{ID: id, Name: "Apple", Category: "fruit"})
	require.NoError(t, err)
	_, err = c.AddProduct(ctx, "main", client.NewProduct{ID: id, Name: "Apple", Category: "fruit"})
	assert.ErrorIs(t, err, client.ErrConflict)
	assert.Contains(t, err.Error(), "already exists")

	_, err = c.AddProduct(ctx, "main", client.NewProduct{Name: "", Category: "fruit"})
	assert.ErrorIs(t, err, client.ErrBadRequest)

	err = c.UpdatePrice(ctx, "main", id, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, client.ErrBadRequest)
}

func TestClient_BadStatusAndUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	c := client.New(ts.URL)

	_, err := c.Products(context.Background(), "main")
	assert.ErrorIs(t, err, client.ErrBadStatus)

	ts.Close()
	_, err = c.Products(context.Background(), "main")
	assert.ErrorIs(t, err, client.ErrUnavailable)
}
