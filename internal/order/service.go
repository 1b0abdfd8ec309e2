package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agriconnect/agrimarket/internal/domain"
	"github.com/agriconnect/agrimarket/pkg/common"
)

// TopicStatusChanged is published on the event bus after a status transition
// commits. Subscribers run asynchronously and their failures never reach the
// caller of SetStatus.
const TopicStatusChanged = "order.status.changed"

// ErrNotFound means the order id does not resolve
var ErrNotFound = errors.New("order not found")

// InvalidStatusError rejects a status outside the enumerated set
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status value %q, must be one of: %s",
		e.Status, strings.Join(domain.OrderStatuses, ", "))
}

// ValidationError carries the missing or malformed fields of a checkout request
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// ItemInput is one product snapshot of a checkout request
type ItemInput struct {
	ProductID int64   `json:"productId,string"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// CreateInput is a checkout request
type CreateInput struct {
	CustomerName        string      `json:"name"`
	CustomerEmail       string      `json:"email"`
	CustomerPhone       string      `json:"phone"`
	PreferredPickupTime string      `json:"preferredPickupTime"`
	PaymentMethod       string      `json:"paymentMethod"`
	SpecialInstructions string      `json:"specialInstructions"`
	Items               []ItemInput `json:"products"`
	TotalAmount         float64     `json:"totalAmount"`
	Farmer              string      `json:"farmer"`
}

// LifecycleService owns order creation and status transitions
type LifecycleService struct {
	repo Repository
	bus  EventBus.Bus
}

// NewLifecycleService creates a new order lifecycle service
func NewLifecycleService(repo Repository, bus EventBus.Bus) *LifecycleService {
	return &LifecycleService{repo: repo, bus: bus}
}

// Create validates and persists a checkout. New orders always start Confirmed.
func (s *LifecycleService) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	var missing []string
	if strings.TrimSpace(in.CustomerName) == "" {
		missing = append(missing, "customerDetails.name")
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		missing = append(missing, "customerDetails.email")
	}
	if strings.TrimSpace(in.CustomerPhone) == "" {
		missing = append(missing, "customerDetails.phone")
	}
	if len(in.Items) == 0 {
		missing = append(missing, "products")
	}
	if in.TotalAmount <= 0 {
		missing = append(missing, "totalAmount")
	}
	if strings.TrimSpace(in.Farmer) == "" {
		missing = append(missing, "farmer")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	payment := in.PaymentMethod
	if payment != domain.PaymentMethodOnline {
		payment = domain.PaymentMethodPickup
	}

	o := &domain.Order{
		ID:                  common.UUIDint64(),
		Reference:           strings.ToUpper(uuid.NewString()[:8]),
		CustomerName:        strings.TrimSpace(in.CustomerName),
		CustomerEmail:       strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
		CustomerPhone:       strings.TrimSpace(in.CustomerPhone),
		PreferredPickupTime: strings.TrimSpace(in.PreferredPickupTime),
		PaymentMethod:       payment,
		SpecialInstructions: strings.TrimSpace(in.SpecialInstructions),
		TotalAmount:         in.TotalAmount,
		Farmer:              strings.TrimSpace(in.Farmer),
		Status:              domain.OrderStatusConfirmed,
	}
	for _, it := range in.Items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		o.Items = append(o.Items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      strings.TrimSpace(it.Name),
			Price:     it.Price,
			Quantity:  qty,
		})
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	zap.L().Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("reference", o.Reference),
		zap.String("farmer", o.Farmer),
	)
	return o, nil
}

// SetStatus applies a status transition. Any member of the status set is
// accepted regardless of the prior status; the set is flat, not ordered.
// After the write commits a status-changed event is published for the
// notification subscriber; the operation's outcome is the persisted write
// alone.
func (s *LifecycleService) SetStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, &InvalidStatusError{Status: status}
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotFound
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(TopicStatusChanged, o)
	}

	zap.L().Info("order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", status),
	)
	return o, nil
}

// Get returns a single order with its line items.
func (s *LifecycleService) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return o, err
}

// ListByCustomer returns a customer's order history.
func (s *LifecycleService) ListByCustomer(ctx context.Context, customerName string) ([]domain.Order, error) {
	return s.repo.ListByCustomer(ctx, customerName)
}

// ListByFarmer returns the orders addressed to a farmer.
func (s *LifecycleService) ListByFarmer(ctx context.Context, farmerName string) ([]domain.Order, error) {
	return s.repo.ListByFarmer(ctx, farmerName)
}
