package repositories

import (
	"context"

	"github.com/shashiranjanraj/inventario/app/models"
	"gorm.io/gorm"
)

// OrderRepository handles database operations for Order. There is no update
// or delete: orders are immutable.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Omit("Product").Create(o).Error
}

// All returns every order, oldest first.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).Order("id").Find(&orders).Error
	return orders, err
}

// ByProduct returns the orders placed against one product, oldest first.
func (r *OrderRepository) ByProduct(ctx context.Context, productID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).Where("producto_id = ?", productID).Order("id").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) CountByProduct(ctx context.Context, productID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("producto_id = ?", productID).Count(&n).Error
	return n, err
}

// Count returns the total number of orders.
func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}
