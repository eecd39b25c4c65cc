package services_test

import (
	"context"
	"errors"
	"sync"
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

func newOrderService(t *testing.T) (*services.OrderService, *gorm.DB) {
	t.Helper()
	db := testkit.OpenDB(t)
	return services.NewOrderService(db, cache.NewMemory(), services.OrderServiceConfig{
		Timeout:           5 * time.Second,
		LowStockThreshold: 10,
	}), db
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: "Producto_1", Price: 12.5, Stock: stock}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock
}

func countOrders(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func TestPlaceOrderDecrementsStockAndRecordsOrder(t *testing.T) {
	svc, db := newOrderService(t)
	p := seedProduct(t, db, 10)

	before := time.Now().Add(-time.Second)
	order, err := svc.PlaceOrder(context.Background(), p.ID, 3)
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.Equal(t, p.ID, order.ProductID)
	assert.Equal(t, 3, order.Quantity)
	assert.True(t, order.CreatedAt.After(before), "fecha is server-assigned")
	assert.Equal(t, 7, stockOf(t, db, p.ID))

	var stored []models.Order
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, p.ID, stored[0].ProductID)
	assert.Equal(t, 3, stored[0].Quantity)
}

func TestPlaceOrderInsufficientStockChangesNothing(t *testing.T) {
	svc, db := newOrderService(t)
	p := seedProduct(t, db, 2)

	_, err := svc.PlaceOrder(context.Background(), p.ID, 5)

	require.ErrorIs(t, err, services.ErrInsufficientStock)
	assert.Equal(t, 2, stockOf(t, db, p.ID))
	assert.Zero(t, countOrders(t, db))
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	svc, db := newOrderService(t)
	p := seedProduct(t, db, 4)

	_, err := svc.PlaceOrder(context.Background(), 999, 1)

	require.ErrorIs(t, err, services.ErrProductNotFound)
	assert.Equal(t, 4, stockOf(t, db, p.ID))
	assert.Zero(t, countOrders(t, db))
}

func TestPlaceOrderExactStockDrainsToZero(t *testing.T) {
	svc, db := newOrderService(t)
	p := seedProduct(t, db, 3)

	_, err := svc.PlaceOrder(context.Background(), p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, stockOf(t, db, p.ID))

	_, err = svc.PlaceOrder(context.Background(), p.ID, 1)
	assert.ErrorIs(t, err, services.ErrInsufficientStock)
}

func TestPlaceOrderValidatesBeforeStorage(t *testing.T) {
	svc, db := newOrderService(t)
	p := seedProduct(t, db, 5)

	for _, tc := range []struct {
		name      string
		productID uint
		quantity  int
	}{
		{"zero quantity", p.ID, 0},
		{"negative quantity", p.ID, -2},
		{"missing product id", 0, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(context.Background(), tc.productID, tc.quantity)
			assert.ErrorIs(t, err, services.ErrValidation)
		})
	}
	assert.Equal(t, 5, stockOf(t, db, p.ID))
	assert.Zero(t, countOrders(t, db))
}

func TestPlaceOrderConcurrentNeverOversells(t *testing.T) {
	svc, db := newOrderService(t)
	p := seedProduct(t, db, 5)

	const callers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		placed  int
		short   int
		unknown []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.PlaceOrder(context.Background(), p.ID, 1)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case errors.Is(err, services.ErrInsufficientStock):
				short++
			default:
				unknown = append(unknown, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Empty(t, unknown)
	assert.Equal(t, 5, placed)
	assert.Equal(t, 5, short)
	assert.Equal(t, 0, stockOf(t, db, p.ID))
	assert.Equal(t, int64(5), countOrders(t, db))
}

func TestPlaceOrderStockEqualsInitialMinusCommitted(t *testing.T) {
	svc, db := newOrderService(t)
	p := seedProduct(t, db, 20)

	committed := 0
	for _, qty := range []int{4, 9, 3, 6, 2, 1} {
		if _, err := svc.PlaceOrder(context.Background(), p.ID, qty); err == nil {
			committed += qty
		} else {
			require.ErrorIs(t, err, services.ErrInsufficientStock)
		}
		require.GreaterOrEqual(t, stockOf(t, db, p.ID), 0)
	}

	assert.Equal(t, 20-committed, stockOf(t, db, p.ID))
}

func TestPlaceOrderTimeoutIsStorageFailure(t *testing.T) {
	db := testkit.OpenDB(t)
	p := seedProduct(t, db, 5)
	svc := services.NewOrderService(db, cache.NewMemory(), services.OrderServiceConfig{Timeout: time.Nanosecond})

	_, err := svc.PlaceOrder(context.Background(), p.ID, 1)

	require.ErrorIs(t, err, services.ErrStorage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 5, stockOf(t, db, p.ID))
	assert.Zero(t, countOrders(t, db))
}

func TestPlaceOrderCancelledContext(t *testing.T) {
	svc, db := newOrderService(t)
	p := seedProduct(t, db, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.PlaceOrder(ctx, p.ID, 1)

	require.ErrorIs(t, err, services.ErrStorage)
	assert.Equal(t, 5, stockOf(t, db, p.ID))
}

func TestPlaceOrderInvalidatesProductListings(t *testing.T) {
	db := testkit.OpenDB(t)
	store := cache.NewMemory()
	cfg := services.ProductServiceConfig{CacheTTL: time.Minute, LowStockThreshold: 10}
	products := services.NewProductService(db, store, cfg)
	orders := services.NewOrderService(db, store, services.OrderServiceConfig{LowStockThreshold: 10})
	p := seedProduct(t, db, 12)

	list, err := products.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, list[0].Stock)
	low, err := products.LowStock(context.Background())
	require.NoError(t, err)
	require.Empty(t, low)

	_, err = orders.PlaceOrder(context.Background(), p.ID, 4)
	require.NoError(t, err)

	list, err = products.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, list[0].Stock)
	low, err = products.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, p.ID, low[0].ID)
}

func TestListOrders(t *testing.T) {
	svc, db := newOrderService(t)
	p := seedProduct(t, db, 10)
	for _, qty := range []int{1, 2} {
		_, err := svc.PlaceOrder(context.Background(), p.ID, qty)
		require.NoError(t, err)
	}

	orders, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, 1, orders[0].Quantity)
	assert.Equal(t, 2, orders[1].Quantity)
}

func TestPlaceOrderFailedInsertRollsBackDecrement(t *testing.T) {
	svc, db := newOrderService(t)
	p := seedProduct(t, db, 5)

	diskFull := errors.New("disk full")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_pedidos", func(tx *gorm.DB) {
		if tx.Statement.Table == "pedidos" {
			_ = tx.AddError(diskFull)
		}
	}))

	_, err := svc.PlaceOrder(context.Background(), p.ID, 3)

	require.ErrorIs(t, err, services.ErrStorage)
	assert.ErrorIs(t, err, diskFull)
	assert.Equal(t, 5, stockOf(t, db, p.ID), "the decrement is rolled back with the insert")
	assert.Zero(t, countOrders(t, db))
}

func TestPlaceOrderUnsetThresholdInvalidatesSameLowStockKey(t *testing.T) {
	db := testkit.OpenDB(t)
	store := cache.NewMemory()
	products := services.NewProductService(db, store, services.ProductServiceConfig{CacheTTL: time.Minute})
	orders := services.NewOrderService(db, store, services.OrderServiceConfig{})
	require.Equal(t, 10, products.LowStockThreshold())
	p := seedProduct(t, db, 12)

	low, err := products.LowStock(context.Background())
	require.NoError(t, err)
	require.Empty(t, low)

	_, err = orders.PlaceOrder(context.Background(), p.ID, 4)
	require.NoError(t, err)

	low, err = products.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, 8, low[0].Stock)
}
