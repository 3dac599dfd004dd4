package domain

import "time"

// SoilTestStatus is the lifecycle state of a soil test request
type SoilTestStatus string

// Lifecycle states: PENDING -> ACCEPTED -> COMPLETED
const (
	SoilTestPending   SoilTestStatus = "PENDING"
	SoilTestAccepted  SoilTestStatus = "ACCEPTED"
	SoilTestCompleted SoilTestStatus = "COMPLETED"
)

// KrishiStarsPerReport is the reputation awarded for a completed soil report
const KrishiStarsPerReport = 5

// SoilTestRequest Model
type SoilTestRequest struct {
	ID             uint             `gorm:"primaryKey" json:"id"`                                 // Primary key
	FarmerID       uint             `gorm:"not null;index" json:"farmer_id"`                      // Owning farmer
	Farmer         *User            `gorm:"foreignKey:FarmerID" json:"-"`                         // Owning farmer record
	Location       string           `gorm:"size:255;not null" json:"location"`                    // Field location
	ContactNumber  string           `gorm:"size:32;not null" json:"contact_number"`               // Farmer contact
	AdditionalInfo *string          `gorm:"type:text" json:"additional_info"`                     // Free-form notes
	Status         SoilTestStatus   `gorm:"size:16;not null;default:PENDING;index" json:"status"` // Lifecycle state
	AcceptedByID   *uint            `gorm:"index" json:"accepted_by_id"`                          // Company that accepted it
	Reports        []SoilTestReport `gorm:"foreignKey:RequestID" json:"reports,omitempty"`        // Filed reports
	CreatedAt      time.Time        `json:"created_at"`                                           // Submission time
	UpdatedAt      time.Time        `json:"updated_at"`                                           // Last transition time
}

// SoilTestReport Model
type SoilTestReport struct {
	ID                uint      `gorm:"primaryKey" json:"id"`                                                 // Primary key
	RequestID         uint      `gorm:"not null;uniqueIndex:idx_report_request_tester" json:"request_id"`     // Parent request
	SoilTesterID      uint      `gorm:"not null;uniqueIndex:idx_report_request_tester" json:"soil_tester_id"` // Submitting company
	SoilTester        *User     `gorm:"foreignKey:SoilTesterID" json:"-"`                                     // Submitting company record
	ReportURL         string    `gorm:"size:1024;not null" json:"report_url"`                                 // Uploaded report document
	SoilCollectionURL string    `gorm:"size:1024;not null" json:"soil_collection_url"`                        // Soil collection photo
	FarmerPhotoURL    string    `gorm:"size:1024;not null" json:"farmer_photo_url"`                           // Photo with the farmer
	CreatedAt         time.Time `json:"created_at"`                                                           // Filing time
}
