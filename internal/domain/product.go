package domain

import (
	"fmt"
	"time"
)

// Buy type variants. The buy type selects which product fields are mandatory,
// see ValidateProductForBuyType.
const (
	BuyTypeDirect  = "direct_buy"
	BuyTypeEnquiry = "enquiry"
	BuyTypeAuction = "auction"
)

var BuyTypes = []string{BuyTypeDirect, BuyTypeEnquiry, BuyTypeAuction}

var Categories = []string{
	"Vegetables",
	"Fruits",
	"Grains & Pulses",
	"Spices & Herbs",
	"Dairy & Milk Products",
	"Animal",
	"Fertilizers",
	"Seeds",
	"Plants",
	"Bio-Fertilizers",
	"Homemade Foods",
	"Farm Tools & Equipment",
	"Dry Fruits & Nuts",
	"Honey & Bee Products",
}

// Product is a marketplace listing. Auction fields are only meaningful when
// BuyType is auction; Price only when direct_buy.
type Product struct {
	ID          int64  `json:"id,string" gorm:"primaryKey"`
	Name        string `gorm:"index;size:200" json:"name" form:"name"`
	Description string `gorm:"type:text" json:"description" form:"description"`
	ImageUrl    string `gorm:"size:1024" json:"imageUrl" form:"imageUrl"`
	Location    string `gorm:"size:200" json:"location" form:"location"`
	// Farmer is the listing farmer's display name, not a foreign key. Orders
	// and dashboards match on it.
	Farmer   string `gorm:"index;size:200" json:"farmer" form:"farmer"`
	Category string `gorm:"index;size:64" json:"category" form:"category"`
	BuyType  string `gorm:"index;size:16" json:"buyType" form:"buyType"`

	// direct_buy
	Price float64 `json:"price"`

	// auction
	AuctionStartTime *time.Time `json:"auctionStartTime,omitempty"`
	AuctionEndTime   *time.Time `json:"auctionEndTime,omitempty"`
	StartingBid      float64    `json:"startingBid"`
	CurrentPrice     float64    `gorm:"index" json:"currentPrice"`
	HighestBidder    int64      `json:"highestBidder,string"`
	Bids             []Bid      `gorm:"foreignKey:ProductID" json:"bids"`

	InStock   bool      `gorm:"default:true" json:"inStock"`
	Organic   bool      `gorm:"default:false" json:"organic"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "mkt_product"
}

// IsAuction reports whether the product is an auction listing.
func (p *Product) IsAuction() bool {
	return p.BuyType == BuyTypeAuction
}

// AuctionActiveAt reports whether t falls inside the auction window.
func (p *Product) AuctionActiveAt(t time.Time) bool {
	if p.AuctionStartTime == nil || p.AuctionEndTime == nil {
		return false
	}
	return !t.Before(*p.AuctionStartTime) && !t.After(*p.AuctionEndTime)
}

// Bid is one recorded bid on an auction product. Rows are append-only and
// insertion order is chronological order.
type Bid struct {
	ID        int64     `json:"id,string" gorm:"primaryKey;autoIncrement"`
	ProductID int64     `gorm:"index" json:"product_id,string"`
	Bidder    int64     `gorm:"index" json:"bidder,string"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// TableName Specify table name
func (Bid) TableName() string {
	return "mkt_product_bid"
}

// ValidateProductForBuyType checks the variant-specific fields of a product.
// The switch is exhaustive over BuyTypes; an unknown buy type is an error in
// itself, it never falls through to a partial check.
func ValidateProductForBuyType(p *Product) error {
	switch p.BuyType {
	case BuyTypeDirect:
		if p.Price <= 0 {
			return fmt.Errorf("price is required for direct buy products")
		}
		return nil
	case BuyTypeEnquiry:
		return nil
	case BuyTypeAuction:
		if p.StartingBid <= 0 {
			return fmt.Errorf("starting bid is required for auction products")
		}
		if p.AuctionStartTime == nil || p.AuctionEndTime == nil {
			return fmt.Errorf("auction start and end time are required for auction products")
		}
		if !p.AuctionEndTime.After(*p.AuctionStartTime) {
			return fmt.Errorf("auction end time must be after start time")
		}
		return nil
	default:
		return fmt.Errorf("invalid buy type %q", p.BuyType)
	}
}
