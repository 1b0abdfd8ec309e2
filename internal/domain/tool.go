package domain

import "time"

var ToolCategories = []string{
	"Vehicles",
	"Tools",
	"Soil Preparation",
	"power Tools",
}

// Tool is a rental listing owned by a user.
type Tool struct {
	ID          int64     `json:"id,string" gorm:"primaryKey"`
	Name        string    `gorm:"index;size:200" json:"name" form:"name"`
	Description string    `gorm:"type:text" json:"description" form:"description"`
	Category    string    `gorm:"index;size:64" json:"category" form:"category"`
	ImageUrl    string    `gorm:"size:1024" json:"imageUrl" form:"imageUrl"`
	PricePerDay float64   `json:"pricePerDay" form:"pricePerDay"`
	Location    string    `gorm:"size:200" json:"location" form:"location"`
	Available   bool      `gorm:"default:true" json:"available"`
	ListedBy    int64     `gorm:"index" json:"listedBy,string"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Tool) TableName() string {
	return "mkt_tool"
}
