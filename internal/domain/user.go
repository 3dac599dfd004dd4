package domain

import "time"

// Role is the marketplace role a user registered with
type Role string

// Supported roles
const (
	RoleFarmer          Role = "FARMER"
	RoleSoilTestCompany Role = "SOIL_TEST_COMPANY"
	RoleSeedProvider    Role = "SEED_PROVIDER"
	RoleMarketAgent     Role = "MARKET_AGENT"
	RoleBuyer           Role = "BUYER"
)

// Valid reports whether r is one of the supported roles
func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleSoilTestCompany, RoleSeedProvider, RoleMarketAgent, RoleBuyer:
		return true
	}
	return false
}

// IsCompany reports whether the role registers with a company name
func (r Role) IsCompany() bool {
	return r == RoleSoilTestCompany || r == RoleSeedProvider || r == RoleMarketAgent
}

// User Model
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`                          // Primary key
	Email            string    `gorm:"uniqueIndex;size:191;not null" json:"email"`    // Unique login email
	Password         string    `gorm:"not null" json:"-"`                             // Hashed password
	Role             Role      `gorm:"size:32;not null;index" json:"role"`            // Marketplace role
	Name             *string   `gorm:"size:128" json:"name"`                          // Display name
	FarmerCardNumber *string   `gorm:"uniqueIndex;size:64" json:"farmer_card_number"` // Farmers only
	CompanyName      *string   `gorm:"size:191" json:"company_name"`                  // Company roles only
	Address          *string   `gorm:"size:255" json:"address"`                       // Postal address
	ContactNumber    *string   `gorm:"size:32" json:"contact_number"`                 // Phone number
	KrishiStars      int       `gorm:"not null;default:0" json:"krishi_stars"`        // Reputation counter
	CreatedAt        time.Time `json:"created_at"`                                    // Registration time
	UpdatedAt        time.Time `json:"updated_at"`                                    // Last update time
}

// UserSummary is the public subset of a user embedded in other resources
type UserSummary struct {
	ID          uint    `json:"id"`
	Name        *string `json:"name"`
	CompanyName *string `json:"company_name"`
	Email       string  `json:"email"`
	Role        Role    `json:"role"`
}

// Summary returns the public subset of u
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, CompanyName: u.CompanyName, Email: u.Email, Role: u.Role}
}
