package domain

import "time"

// CropType classifies crops by growing period
type CropType string

// Supported crop types
const (
	CropShortTerm CropType = "SHORT_TERM"
	CropSeasonal  CropType = "SEASONAL"
	CropLongTerm  CropType = "LONG_TERM"
)

// Valid reports whether t is a supported crop type
func (t CropType) Valid() bool {
	return t == CropShortTerm || t == CropSeasonal || t == CropLongTerm
}

// MarketPrice Model, an immutable price observation
type MarketPrice struct {
	ID         uint      `gorm:"primaryKey" json:"id"`                       // Primary key
	CropName   string    `gorm:"size:128;not null;index" json:"crop_name"`   // Crop observed
	MarketName string    `gorm:"size:191;not null;index" json:"market_name"` // Market observed
	Price      float64   `gorm:"not null" json:"price"`                      // Price per quintal
	Date       time.Time `gorm:"not null;index" json:"date"`                 // Observation date
	CropType   CropType  `gorm:"size:16;not null;index" json:"crop_type"`    // Growing period class
	ImageURL   *string   `gorm:"size:1024" json:"image_url"`                 // Optional photo
	AgentID    uint      `gorm:"not null;index" json:"agent_id"`             // Reporting market agent
	Agent      *User     `gorm:"foreignKey:AgentID" json:"-"`                // Reporting agent record
	CreatedAt  time.Time `json:"created_at"`                                 // Insert time
}
