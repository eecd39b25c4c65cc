package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventario/app/models"
	"github.com/shashiranjanraj/inventario/app/services"
	"github.com/shashiranjanraj/inventario/pkg/cache"
	"github.com/shashiranjanraj/inventario/pkg/testkit"
)

func newProductService(t *testing.T) (*services.ProductService, *gorm.DB) {
	t.Helper()
	db := testkit.OpenDB(t)
	return services.NewProductService(db, cache.NewMemory(), services.ProductServiceConfig{
		CacheTTL:          time.Minute,
		LowStockThreshold: 10,
	}), db
}

func TestCreateAndFindProduct(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, services.ProductInput{Name: "  Teclado ", Price: 25.5, Stock: 8})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Teclado", p.Name)

	got, err := svc.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.5, got.Price)
	assert.Equal(t, 8, got.Stock)

	_, err = svc.Find(ctx, p.ID+100)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestCreateRejectsOutOfRange(t *testing.T) {
	svc, db := newProductService(t)

	for _, in := range []services.ProductInput{
		{Name: "", Price: 1, Stock: 1},
		{Name: "Mouse", Price: -1, Stock: 1},
		{Name: "Mouse", Price: 1, Stock: -1},
	} {
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, services.ErrValidation, "%+v", in)
	}

	var n int64
	require.NoError(t, db.Model(&models.Product{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestListIsOrderedAndCached(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.Create(ctx, services.ProductInput{Name: name, Price: 1, Stock: 20})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{list[0].Name, list[1].Name, list[2].Name})

	// A write behind the service's back is not seen until the cache entry goes.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", list[0].ID).Update("stock", 1).Error)
	cached, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, cached[0].Stock)

	// A write through the service invalidates.
	_, err = svc.Create(ctx, services.ProductInput{Name: "D", Price: 1, Stock: 20})
	require.NoError(t, err)
	fresh, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 4)
	assert.Equal(t, 1, fresh[0].Stock)
}

func TestListEmptyIsEmptySlice(t *testing.T) {
	svc, _ := newProductService(t)
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestLowStockBelowThreshold(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()
	for _, stock := range []int{10, 9, 0, 25} {
		_, err := svc.Create(ctx, services.ProductInput{Name: "P", Price: 1, Stock: stock})
		require.NoError(t, err)
	}

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, 0, low[0].Stock)
	assert.Equal(t, 9, low[1].Stock)
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := newProductService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, services.ProductInput{Name: "Monitor", Price: 100, Stock: 3})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, services.ProductInput{Name: "Monitor 27", Price: 150, Stock: 12})
	require.NoError(t, err)
	assert.Equal(t, "Monitor 27", updated.Name)

	got, err := svc.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.Price)
	assert.Equal(t, 12, got.Stock)

	_, err = svc.Update(ctx, p.ID, services.ProductInput{Name: "Monitor 27", Price: 150, Stock: 12})
	assert.NoError(t, err, "an unchanged update still succeeds")

	_, err = svc.Update(ctx, 999, services.ProductInput{Name: "X", Price: 1, Stock: 1})
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	_, err = svc.Update(ctx, p.ID, services.ProductInput{Name: "X", Price: 1, Stock: -4})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestDeleteProduct(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, services.ProductInput{Name: "Cable", Price: 2, Stock: 3})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Find(ctx, p.ID)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID), services.ErrProductNotFound)

	var n int64
	require.NoError(t, db.Model(&models.Product{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDeleteProductWithOrdersIsRefused(t *testing.T) {
	db := testkit.OpenDB(t)
	store := cache.NewMemory()
	products := services.NewProductService(db, store, services.ProductServiceConfig{})
	orders := services.NewOrderService(db, store, services.OrderServiceConfig{})
	ctx := context.Background()

	p, err := products.Create(ctx, services.ProductInput{Name: "Silla", Price: 40, Stock: 5})
	require.NoError(t, err)
	_, err = orders.PlaceOrder(ctx, p.ID, 2)
	require.NoError(t, err)

	assert.ErrorIs(t, products.Delete(ctx, p.ID), services.ErrProductInUse)

	got, err := products.Find(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)
}
