package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/inventario/app/models"
	"gorm.io/gorm"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// CreateBatch inserts products in chunks of size.
func (r *ProductRepository) CreateBatch(ctx context.Context, products []models.Product, size int) error {
	return r.db.WithContext(ctx).CreateInBatches(products, size).Error
}

// All returns every product ordered by id.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).Order("id").Find(&products).Error
	return products, err
}

// LowStock returns products whose stock is strictly below threshold, lowest first.
func (r *ProductRepository) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).
		Where("stock < ?", threshold).
		Order("stock, id").
		Find(&products).Error
	return products, err
}

func (r *ProductRepository) Find(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, ErrNotFound
	}
	return p, err
}

func (r *ProductRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// Update overwrites name, price and stock of the product with p.ID.
// It returns ErrNotFound when no such product exists.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"nombre": p.Name,
			"precio": p.Price,
			"stock":  p.Stock,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL reports zero affected rows when nothing changed.
	ok, err := r.Exists(ctx, p.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Delete removes the product. It returns ErrNotFound when nothing was deleted.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock subtracts qty from the product's stock only if at least qty
// is on hand, as a single conditional UPDATE. It returns the number of rows
// changed: 1 on success, 0 when the product is missing or short.
func (r *ProductRepository) DecrementStock(ctx context.Context, id uint, qty int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumns(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}
