package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/agriconnect/agrimarket/internal/domain"
)

// ErrUserNotFound means the cart owner id does not resolve
var ErrUserNotFound = errors.New("user not found")

// Line is one cart entry in the read view, with the product resolved.
type Line struct {
	Product  *domain.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Service merges cart line items for a user
type Service struct {
	repo Repository
}

// NewService creates a new cart service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddItem adds qty of a product to the user's cart. An existing line for the
// same product has its quantity incremented in place; the cart never holds
// two lines for one product. Returns the filtered cart view.
func (s *Service) AddItem(ctx context.Context, userID, productID int64, qty int) ([]Line, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if qty < 1 {
		qty = 1
	}
	if err := s.repo.Upsert(ctx, userID, productID, qty); err != nil {
		return nil, err
	}
	return s.view(ctx, userID)
}

// GetCart returns the user's cart filtered to items whose product still
// resolves. Dangling lines stay in storage; they are only dropped from the view.
func (s *Service) GetCart(ctx context.Context, userID int64) ([]Line, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.view(ctx, userID)
}

// RemoveItem removes all lines matching productID. Absent lines are a no-op,
// not an error.
func (s *Service) RemoveItem(ctx context.Context, userID, productID int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	return s.repo.Remove(ctx, userID, productID)
}

// Clear empties the user's cart unconditionally.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, userID); err != nil {
		return err
	}
	zap.L().Debug("cart cleared", zap.Int64("user_id", userID))
	return nil
}

func (s *Service) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func (s *Service) view(ctx context.Context, userID int64) ([]Line, error) {
	items, err := s.repo.Items(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.repo.ProductsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(items))
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			// product deleted after it was carted
			continue
		}
		lines = append(lines, Line{Product: p, Quantity: it.Quantity})
	}
	return lines, nil
}
