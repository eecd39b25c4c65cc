package services

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/inventario/app/models"
	"github.com/shashiranjanraj/inventario/app/repositories"
	"github.com/shashiranjanraj/inventario/pkg/cache"
	"github.com/shashiranjanraj/inventario/pkg/logger"
	"github.com/shashiranjanraj/inventario/pkg/metrics"
	"gorm.io/gorm"
)

// OrderService places orders. It owns no state besides the injected pool, so
// one instance serves any number of concurrent callers.
type OrderService struct {
	db       *gorm.DB
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
	cache    cache.Store
	timeout  time.Duration
	lowStock int
}

type OrderServiceConfig struct {
	Timeout           time.Duration // bound on one placement, begin to commit
	LowStockThreshold int           // selects the cached low-stock listing to invalidate
}

func NewOrderService(db *gorm.DB, store cache.Store, cfg OrderServiceConfig) *OrderService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = defaultLowStockThreshold
	}
	return &OrderService{
		db:       db,
		products: repositories.NewProductRepository(db),
		orders:   repositories.NewOrderRepository(db),
		cache:    store,
		timeout:  cfg.Timeout,
		lowStock: cfg.LowStockThreshold,
	}
}

// PlaceOrder withdraws quantity units of a product and records the order, as
// one transaction. The stock check and the decrement are a single conditional
// UPDATE, so concurrent orders for the same product serialise on its row lock
// and stock can never go negative.
//
// It returns ErrValidation, ErrProductNotFound or ErrInsufficientStock with
// nothing written, or ErrStorage (wrapping the cause, including
// context.DeadlineExceeded) after a full rollback. Nothing is retried.
func (s *OrderService) PlaceOrder(ctx context.Context, productID uint, quantity int) (*models.Order, error) {
	start := time.Now()
	log := logger.WithCtx(ctx).With("producto_id", productID, "cantidad", quantity)

	if productID == 0 {
		metrics.RecordOrder("invalid", start)
		return nil, invalid("producto_id is required")
	}
	if quantity <= 0 {
		metrics.RecordOrder("invalid", start)
		return nil, invalid("cantidad must be greater than 0, got %d", quantity)
	}

	txCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	order := &models.Order{ProductID: productID, Quantity: quantity}
	err := s.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)

		n, err := products.DecrementStock(txCtx, productID, quantity)
		if err != nil {
			return storage("decrement stock", err)
		}
		if n == 0 {
			exists, err := products.Exists(txCtx, productID)
			if err != nil {
				return storage("check product", err)
			}
			if !exists {
				return ErrProductNotFound
			}
			return ErrInsufficientStock
		}

		if err := s.orders.WithTx(tx).Create(txCtx, order); err != nil {
			return storage("insert order", err)
		}
		return nil
	})

	switch {
	case err == nil:
		metrics.RecordOrder("placed", start)
		log.Info("order placed", "pedido_id", order.ID)
		forgetProductLists(ctx, s.cache, s.lowStock)
		return order, nil
	case errors.Is(err, ErrProductNotFound):
		metrics.RecordOrder("not_found", start)
		log.Info("order rejected: product not found")
		return nil, err
	case errors.Is(err, ErrInsufficientStock):
		metrics.RecordOrder("insufficient_stock", start)
		log.Info("order rejected: insufficient stock")
		return nil, err
	default:
		// begin and commit errors come back from gorm unwrapped
		err = storage("transaction", err)
		metrics.RecordOrder("storage_error", start)
		log.Error("order failed", "error", err)
		return nil, err
	}
}

// List returns every order, oldest first.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, storage("list orders", err)
	}
	return orders, nil
}
