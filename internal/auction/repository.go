package auction

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/agriconnect/agrimarket/internal/domain"
)

// ProductRepository handles database operations for auction products
type ProductRepository interface {
	// GetByID retrieves a product with its bid history in submission order
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// PlaceBid applies a bid as a single conditional update: the price and
	// highest bidder change and the bid row is appended only when amount is
	// still strictly greater than the stored current price at write time.
	// Returns false when the guard rejected the write.
	PlaceBid(ctx context.Context, productID, bidder int64, amount float64, ts time.Time) (bool, error)
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Preload("Bids", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) PlaceBid(ctx context.Context, productID, bidder int64, amount float64, ts time.Time) (applied bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The price check runs inside the store so two concurrent bidders can
		// never both pass it against the same stale value.
		res := tx.Model(&domain.Product{}).
			Where("id = ? and buy_type = ? and current_price < ?",
				productID, domain.BuyTypeAuction, amount).
			Updates(map[string]interface{}{
				"current_price":  amount,
				"highest_bidder": bidder,
				"updated_at":     ts,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		applied = true
		return tx.Create(&domain.Bid{
			ProductID: productID,
			Bidder:    bidder,
			Amount:    amount,
			Timestamp: ts,
		}).Error
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}
