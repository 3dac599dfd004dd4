package domain

import "time"

// CropFeed Model
type CropFeed struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ImageURL    *string   `gorm:"size:1024" json:"image_url"`
	IsAIQuery   bool      `gorm:"not null;default:false" json:"is_ai_query"`
	AIResponse  *string   `gorm:"type:text" json:"ai_response"`
	AISource    *string   `gorm:"size:64" json:"ai_source"` // Label of the responder that produced AIResponse
	WasHelpful  *bool     `json:"was_helpful"`
	Comments    []Comment `gorm:"foreignKey:CropFeedID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Comment Model
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CropFeedID uint      `gorm:"not null;index" json:"crop_feed_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
