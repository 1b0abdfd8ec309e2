package domain

import "time"

// User is a marketplace account. Farmers and customers share the same table;
// a farmer is simply a user whose name products/orders reference.
type User struct {
	ID        int64     `json:"id,string" gorm:"primaryKey"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Email     string    `gorm:"uniqueIndex;size:200" json:"email" form:"email"`
	Password  string    `json:"-" form:"-"`
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (User) TableName() string {
	return "mkt_user"
}

// CartItem is one line of a user's cart. A (user_id, product_id) pair is
// unique; quantity aggregation happens in place of duplicate rows.
type CartItem struct {
	ID        int64     `json:"id,string" gorm:"primaryKey"`
	UserID    int64     `gorm:"index;uniqueIndex:idx_cart_user_product" json:"user_id,string"`
	ProductID int64     `gorm:"uniqueIndex:idx_cart_user_product" json:"product_id,string"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (CartItem) TableName() string {
	return "mkt_cart_item"
}
