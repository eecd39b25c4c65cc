package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shashiranjanraj/inventario/app/models"
	"github.com/shashiranjanraj/inventario/app/repositories"
	"github.com/shashiranjanraj/inventario/pkg/cache"
	"github.com/shashiranjanraj/inventario/pkg/logger"
	"gorm.io/gorm"
)

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name  string
	Price float64
	Stock int
}

func (in ProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return invalid("nombre is required")
	case in.Price < 0:
		return invalid("precio must not be negative, got %v", in.Price)
	case in.Stock < 0:
		return invalid("stock must not be negative, got %d", in.Stock)
	}
	return nil
}

type ProductServiceConfig struct {
	Timeout           time.Duration
	CacheTTL          time.Duration
	LowStockThreshold int
}

// ProductService is the catalogue CRUD. Listings are cached and invalidated
// on every write here and on every placed order.
type ProductService struct {
	db       *gorm.DB
	products *repositories.ProductRepository
	orders   *repositories.OrderRepository
	cache    cache.Store
	cfg      ProductServiceConfig
}

func NewProductService(db *gorm.DB, store cache.Store, cfg ProductServiceConfig) *ProductService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = defaultLowStockThreshold
	}
	return &ProductService{
		db:       db,
		products: repositories.NewProductRepository(db),
		orders:   repositories.NewOrderRepository(db),
		cache:    store,
		cfg:      cfg,
	}
}

// LowStockThreshold is the bound used by LowStock.
func (s *ProductService) LowStockThreshold() int { return s.cfg.LowStockThreshold }

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	p := &models.Product{Name: strings.TrimSpace(in.Name), Price: in.Price, Stock: in.Stock}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, storage("create product", err)
	}
	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("product created", "producto_id", p.ID)
	return p, nil
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	products, err := cache.Remember(ctx, s.cache, keyAllProducts, s.cfg.CacheTTL, s.products.All)
	if err != nil {
		return nil, storage("list products", err)
	}
	return products, nil
}

// LowStock lists products with stock strictly below the configured threshold.
func (s *ProductService) LowStock(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	threshold := s.cfg.LowStockThreshold
	products, err := cache.Remember(ctx, s.cache, keyLowStock(threshold), s.cfg.CacheTTL,
		func(ctx context.Context) ([]models.Product, error) {
			return s.products.LowStock(ctx, threshold)
		})
	if err != nil {
		return nil, storage("list low stock", err)
	}
	return products, nil
}

func (s *ProductService) Find(ctx context.Context, id uint) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	p, err := s.products.Find(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, storage("find product", err)
	}
	return &p, nil
}

// Update replaces name, price and stock. Setting stock here is the
// administrative path; orders never go through it.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	p := &models.Product{ID: id, Name: strings.TrimSpace(in.Name), Price: in.Price, Stock: in.Stock}
	err := s.products.Update(ctx, p)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, storage("update product", err)
	}
	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("product updated", "producto_id", id)
	return p, nil
}

// Delete removes a product that no order references. The check and the
// delete share a transaction; the RESTRICT foreign key backs it up.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.orders.WithTx(tx).CountByProduct(ctx, id)
		if err != nil {
			return storage("count orders", err)
		}
		if n > 0 {
			return ErrProductInUse
		}
		err = s.products.WithTx(tx).Delete(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return storage("delete product", err)
		}
		return nil
	})
	if err != nil {
		if !isDomain(err) {
			err = storage("transaction", err)
		}
		return err
	}
	s.invalidate(ctx)
	logger.WithCtx(ctx).Info("product deleted", "producto_id", id)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	forgetProductLists(ctx, s.cache, s.cfg.LowStockThreshold)
}
