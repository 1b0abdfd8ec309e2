package auction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agriconnect/agrimarket/internal/domain"
	"github.com/agriconnect/agrimarket/pkg/common"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func newService(db *gorm.DB, now time.Time) *BiddingService {
	s := NewBiddingService(NewGormProductRepository(db))
	s.now = func() time.Time { return now }
	return s
}

func seedAuction(t *testing.T, db *gorm.DB, start, end time.Time, startingBid float64) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:               common.UUIDint64(),
		Name:             "Alphonso Mangoes",
		Description:      "A crate of ripe mangoes",
		ImageUrl:         "https://example.com/mangoes.jpg",
		Location:         "Ratnagiri",
		Farmer:           "Ravi",
		Category:         "Fruits",
		BuyType:          domain.BuyTypeAuction,
		AuctionStartTime: &start,
		AuctionEndTime:   &end,
		StartingBid:      startingBid,
		CurrentPrice:     startingBid,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestPlaceBidRaisesPrice(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	svc := newService(db, now)
	p := seedAuction(t, db, now.Add(-time.Hour), now.Add(time.Hour), 100)

	updated, err := svc.PlaceBid(context.Background(), p.ID, 11, 150)
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.CurrentPrice)
	assert.Equal(t, int64(11), updated.HighestBidder)
	require.Len(t, updated.Bids, 1)
	assert.Equal(t, 150.0, updated.Bids[0].Amount)
}

func TestPlaceBidSequenceIsMonotonic(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	svc := newService(db, now)
	p := seedAuction(t, db, now.Add(-time.Hour), now.Add(time.Hour), 100)

	_, err := svc.PlaceBid(context.Background(), p.ID, 1, 120)
	require.NoError(t, err)
	_, err = svc.PlaceBid(context.Background(), p.ID, 2, 140)
	require.NoError(t, err)
	updated, err := svc.PlaceBid(context.Background(), p.ID, 3, 160)
	require.NoError(t, err)

	assert.Equal(t, 160.0, updated.CurrentPrice)
	assert.Equal(t, int64(3), updated.HighestBidder)
	require.Len(t, updated.Bids, 3)
	for i := 1; i < len(updated.Bids); i++ {
		assert.Greater(t, updated.Bids[i].Amount, updated.Bids[i-1].Amount)
	}
}

func TestPlaceBidTooLowLeavesStateUntouched(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	svc := newService(db, now)
	p := seedAuction(t, db, now.Add(-time.Hour), now.Add(time.Hour), 100)

	_, err := svc.PlaceBid(context.Background(), p.ID, 1, 150)
	require.NoError(t, err)

	_, err = svc.PlaceBid(context.Background(), p.ID, 2, 120)
	var tooLow *BidTooLowError
	require.ErrorAs(t, err, &tooLow)
	assert.Equal(t, 150.0, tooLow.CurrentPrice)
	assert.Contains(t, tooLow.Error(), "150")

	fresh, err := NewGormProductRepository(db).GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, fresh.CurrentPrice)
	assert.Equal(t, int64(1), fresh.HighestBidder)
	assert.Len(t, fresh.Bids, 1)
}

func TestPlaceBidEqualToCurrentPriceRejected(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	svc := newService(db, now)
	p := seedAuction(t, db, now.Add(-time.Hour), now.Add(time.Hour), 100)

	_, err := svc.PlaceBid(context.Background(), p.ID, 1, 100)
	var tooLow *BidTooLowError
	require.ErrorAs(t, err, &tooLow)
	assert.Equal(t, 100.0, tooLow.CurrentPrice)
}

func TestPlaceBidOutsideWindow(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	before := seedAuction(t, db, now.Add(time.Hour), now.Add(2*time.Hour), 100)
	svc := newService(db, now)
	_, err := svc.PlaceBid(context.Background(), before.ID, 1, 150)
	assert.ErrorIs(t, err, ErrAuctionInactive)

	after := seedAuction(t, db, now.Add(-2*time.Hour), now.Add(-time.Hour), 100)
	_, err = svc.PlaceBid(context.Background(), after.ID, 1, 150)
	assert.ErrorIs(t, err, ErrAuctionInactive)
}

func TestPlaceBidMissingProduct(t *testing.T) {
	db := newTestDB(t)
	svc := newService(db, time.Now())

	_, err := svc.PlaceBid(context.Background(), 999, 1, 150)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceBidOnNonAuctionProduct(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	svc := newService(db, now)

	p := &domain.Product{
		ID:       common.UUIDint64(),
		Name:     "Tomatoes",
		Farmer:   "Ravi",
		Category: "Vegetables",
		BuyType:  domain.BuyTypeDirect,
		Price:    40,
	}
	require.NoError(t, db.Create(p).Error)

	_, err := svc.PlaceBid(context.Background(), p.ID, 1, 150)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaceBidLosingStoreRaceReportsFreshPrice(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	svc := newService(db, now)
	p := seedAuction(t, db, now.Add(-time.Hour), now.Add(time.Hour), 100)

	// Another bidder lands between this bidder's read and write.
	repo := raceRepository{
		ProductRepository: NewGormProductRepository(db),
		db:                db,
		productID:         p.ID,
	}
	svc.repo = &repo

	_, err := svc.PlaceBid(context.Background(), p.ID, 2, 130)
	var tooLow *BidTooLowError
	require.ErrorAs(t, err, &tooLow)
	assert.Equal(t, 180.0, tooLow.CurrentPrice)

	fresh, err := NewGormProductRepository(db).GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 180.0, fresh.CurrentPrice)
	assert.Equal(t, int64(7), fresh.HighestBidder)
}

// raceRepository injects a competing bid right before the guarded write.
type raceRepository struct {
	ProductRepository
	db        *gorm.DB
	productID int64
	fired     bool
}

func (r *raceRepository) PlaceBid(ctx context.Context, productID, bidder int64, amount float64, ts time.Time) (bool, error) {
	if !r.fired {
		r.fired = true
		inner := NewGormProductRepository(r.db)
		if _, err := inner.PlaceBid(ctx, r.productID, 7, 180, ts); err != nil {
			return false, err
		}
	}
	return r.ProductRepository.PlaceBid(ctx, productID, bidder, amount, ts)
}
