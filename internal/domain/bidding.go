package domain

import "time"

// BiddingEntry Model, a farmer's produce listing open for bids
type BiddingEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FarmerID      uint      `gorm:"not null;index" json:"farmer_id"`
	Farmer        *User     `gorm:"foreignKey:FarmerID" json:"-"`
	CropName      string    `gorm:"size:128;not null" json:"crop_name"`
	BasePrice     float64   `gorm:"not null" json:"base_price"`
	ImageURL      *string   `gorm:"size:1024" json:"image_url"`
	ContactNumber string    `gorm:"size:32" json:"contact_number"`
	Address       string    `gorm:"size:255" json:"address"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	EndDate       time.Time `gorm:"not null" json:"end_date"`
	Bids          []Bid     `gorm:"foreignKey:EntryID" json:"bids"`
	CreatedAt     time.Time `json:"created_at"`
}

// Bid Model
type Bid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EntryID   uint      `gorm:"not null;index" json:"entry_id"`
	BuyerID   uint      `gorm:"not null;index" json:"buyer_id"`
	Buyer     *User     `gorm:"foreignKey:BuyerID" json:"-"`
	Amount    float64   `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
