package cart

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agriconnect/agrimarket/internal/domain"
	"github.com/agriconnect/agrimarket/pkg/common"
)

// Repository handles database operations for user carts
type Repository interface {
	// UserExists reports whether the cart owner resolves
	UserExists(ctx context.Context, userID int64) (bool, error)

	// Upsert increments the quantity of an existing (user, product) line or
	// appends a new one, as one atomic statement.
	Upsert(ctx context.Context, userID, productID int64, qty int) error

	// Items returns the stored cart lines in insertion order
	Items(ctx context.Context, userID int64) ([]domain.CartItem, error)

	// Remove deletes all lines matching the product; absent lines are a no-op
	Remove(ctx context.Context, userID, productID int64) error

	// Clear empties the cart unconditionally
	Clear(ctx context.Context, userID int64) error

	// ProductsByID resolves products for the read view; deleted products are
	// simply missing from the result.
	ProductsByID(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
}

// GormRepository is the GORM implementation of Repository
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new GORM-based repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *GormRepository) Upsert(ctx context.Context, userID, productID int64, qty int) error {
	now := time.Now()
	item := domain.CartItem{
		ID:        common.UUIDint64(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("mkt_cart_item.quantity + ?", qty),
			"updated_at": now,
		}),
	}).Create(&item).Error
}

func (r *GormRepository) Items(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *GormRepository) Remove(ctx context.Context, userID, productID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? and product_id = ?", userID, productID).
		Delete(&domain.CartItem{}).Error
}

func (r *GormRepository) Clear(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.CartItem{}).Error
}

func (r *GormRepository) ProductsByID(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	result := make(map[int64]*domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var products []domain.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}
