package order

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/agriconnect/agrimarket/internal/domain"
)

// Repository handles database operations for orders
type Repository interface {
	// Create inserts a new order with its line items
	Create(ctx context.Context, o *domain.Order) error

	// GetByID retrieves an order with its line items
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// UpdateStatus writes the new status; returns false when no order matched
	UpdateStatus(ctx context.Context, id int64, status string) (bool, error)

	// ListByCustomer returns the orders placed under a customer name
	ListByCustomer(ctx context.Context, customerName string) ([]domain.Order, error)

	// ListByFarmer returns the orders addressed to a farmer
	ListByFarmer(ctx context.Context, farmerName string) ([]domain.Order, error)
}

// GormRepository is the GORM implementation of Repository
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepository) ListByCustomer(ctx context.Context, customerName string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_name = ?", customerName).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *GormRepository) ListByFarmer(ctx context.Context, farmerName string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("farmer = ?", farmerName).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}
