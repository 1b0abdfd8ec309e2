package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agriconnect/agrimarket/internal/domain"
)

var (
	// ErrNotFound means the product does not exist or is not an auction listing
	ErrNotFound = errors.New("auction product not found")

	// ErrAuctionInactive means the bid arrived outside the auction window
	ErrAuctionInactive = errors.New("auction is not currently active")
)

// BidTooLowError rejects a bid that does not beat the current price. The
// price it was rejected against is carried for the caller's error message.
type BidTooLowError struct {
	CurrentPrice float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid must be higher than the current price of %v", e.CurrentPrice)
}

// BiddingService validates and applies bids against a product's auction state
type BiddingService struct {
	repo ProductRepository
	now  func() time.Time
}

// NewBiddingService creates a new bidding service
func NewBiddingService(repo ProductRepository) *BiddingService {
	return &BiddingService{repo: repo, now: time.Now}
}

// PlaceBid validates a bid and applies it. Checks run in order: the product
// must be an auction listing, the auction window must be open, and the amount
// must be strictly greater than the current price. The final price compare is
// re-evaluated by the store at write time; losing that race reports
// BidTooLow with the fresh price rather than overwriting a higher bid.
func (s *BiddingService) PlaceBid(ctx context.Context, productID, bidderID int64, amount float64) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !product.IsAuction() {
		return nil, ErrNotFound
	}

	now := s.now()
	if !product.AuctionActiveAt(now) {
		return nil, ErrAuctionInactive
	}

	if amount <= product.CurrentPrice {
		return nil, &BidTooLowError{CurrentPrice: product.CurrentPrice}
	}

	applied, err := s.repo.PlaceBid(ctx, productID, bidderID, amount, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		// A concurrent bid moved the price past ours between read and write.
		fresh, err := s.repo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		return nil, &BidTooLowError{CurrentPrice: fresh.CurrentPrice}
	}

	updated, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	zap.L().Info("bid accepted",
		zap.Int64("product_id", productID),
		zap.Int64("bidder", bidderID),
		zap.Float64("amount", amount),
	)
	return updated, nil
}
