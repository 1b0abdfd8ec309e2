package domain

import "time"

// Order statuses. Membership is validated on every transition; the set is
// flat, there is no enforced progression between members.
const (
	OrderStatusConfirmed      = "Confirmed"
	OrderStatusReadyForPickup = "Ready for Pickup"
	OrderStatusCompleted      = "Completed"
)

var OrderStatuses = []string{
	OrderStatusConfirmed,
	OrderStatusReadyForPickup,
	OrderStatusCompleted,
}

// ValidOrderStatus reports whether s is a member of the order status set.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Payment methods accepted at checkout.
const (
	PaymentMethodOnline = "online"
	PaymentMethodPickup = "pickup"
)

// Order is a checkout record. Customer details and line items are snapshots
// taken at checkout time; only Status mutates afterwards.
type Order struct {
	ID        int64  `json:"id,string" gorm:"primaryKey"`
	Reference string `gorm:"index;size:16" json:"reference"`

	CustomerName        string `gorm:"index;size:200" json:"customer_name"`
	CustomerEmail       string `gorm:"size:200" json:"customer_email"`
	CustomerPhone       string `gorm:"size:32" json:"customer_phone"`
	PreferredPickupTime string `gorm:"size:100" json:"preferred_pickup_time"`
	PaymentMethod       string `gorm:"size:16;default:'pickup'" json:"payment_method"`
	SpecialInstructions string `gorm:"type:text" json:"special_instructions"`

	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount float64     `json:"total_amount"`
	// Farmer is the selling farmer's display name, matched against mkt_user.name
	// when notifications need a reply-to address.
	Farmer string `gorm:"index;size:200" json:"farmer"`
	Status string `gorm:"index;size:32" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "mkt_order"
}

// OrderItem is a product snapshot inside an order. Name and price are copied
// at checkout so later product edits never rewrite history.
type OrderItem struct {
	ID        int64     `json:"id,string" gorm:"primaryKey;autoIncrement"`
	OrderID   int64     `gorm:"index" json:"order_id,string"`
	ProductID int64     `json:"product_id,string"`
	Name      string    `gorm:"size:200" json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `gorm:"default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "mkt_order_item"
}
