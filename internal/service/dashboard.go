package service

import (
	"context" // Request scoped cancellation

	"krishisaarthi/internal/domain" // Domain models
	"krishisaarthi/internal/market" // Bid ranking

	"gorm.io/gorm" // GORM ORM library
)

// Stat is one counter tile on the dashboard
type Stat struct {
	Title string `json:"title"`
	Value int64  `json:"value"`
}

// Dashboard is the signed-in user's landing page model
type Dashboard struct {
	User  domain.User `json:"user"`
	Stats []Stat      `json:"stats"`
}

// DashboardService computes per-role dashboard counters
type DashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a DashboardService
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// statQuery is a dashboard tile backed by a COUNT query
type statQuery struct {
	title string
	query *gorm.DB
}

// Get returns the viewer's profile and the counters for the viewer's stored role
func (s *DashboardService) Get(ctx context.Context, viewerID uint) (*Dashboard, error) {
	db := s.db.WithContext(ctx)
	var user domain.User
	if err := db.First(&user, viewerID).Error; err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	var queries []statQuery
	switch user.Role {
	case domain.RoleFarmer:
		queries = []statQuery{
			{"Soil Test Requests", db.Model(&domain.SoilTestRequest{}).Where("farmer_id = ?", user.ID)},
			{"Completed Soil Tests", db.Model(&domain.SoilTestRequest{}).Where("farmer_id = ? AND status = ?", user.ID, domain.SoilTestCompleted)},
			{"Crop Feeds", db.Model(&domain.CropFeed{}).Where("user_id = ?", user.ID)},
			{"Bidding Entries", db.Model(&domain.BiddingEntry{}).Where("farmer_id = ?", user.ID)},
		}
	case domain.RoleSoilTestCompany:
		queries = []statQuery{
			{"Pending Requests", db.Model(&domain.SoilTestRequest{}).Where("status = ?", domain.SoilTestPending)},
			{"Accepted Requests", db.Model(&domain.SoilTestRequest{}).Where("status = ? AND accepted_by_id = ?", domain.SoilTestAccepted, user.ID)},
			{"Reports Submitted", db.Model(&domain.SoilTestReport{}).Where("soil_tester_id = ?", user.ID)},
		}
	case domain.RoleMarketAgent:
		queries = []statQuery{
			{"Prices Reported", db.Model(&domain.MarketPrice{}).Where("agent_id = ?", user.ID)},
		}
	case domain.RoleBuyer:
		queries = []statQuery{
			{"Bids Placed", db.Model(&domain.Bid{}).Where("buyer_id = ?", user.ID)},
		}
	case domain.RoleSeedProvider:
		queries = []statQuery{
			{"Crop Feeds", db.Model(&domain.CropFeed{}).Where("user_id = ?", user.ID)},
		}
	}
	stats := make([]Stat, 0, len(queries)+1)
	for _, q := range queries {
		var n int64
		if err := q.query.Count(&n).Error; err != nil {
			return nil, err
		}
		stats = append(stats, Stat{Title: q.title, Value: n})
	}
	if user.Role == domain.RoleBuyer {
		n, err := s.leadingBids(db, user.ID)
		if err != nil {
			return nil, err
		}
		stats = append(stats, Stat{Title: "Leading Bids", Value: n})
	}
	return &Dashboard{User: user, Stats: stats}, nil
}

// leadingBids counts the listings on which buyerID currently holds the highest bid
func (s *DashboardService) leadingBids(db *gorm.DB, buyerID uint) (int64, error) {
	bidOn := db.Model(&domain.Bid{}).Select("entry_id").Where("buyer_id = ?", buyerID)
	var entries []domain.BiddingEntry
	if err := db.Preload("Bids").Where("id IN (?)", bidOn).Find(&entries).Error; err != nil {
		return 0, err
	}
	var n int64
	for _, e := range entries {
		if b, ok := market.HighestBid(e.Bids); ok && b.BuyerID == buyerID {
			n++
		}
	}
	return n, nil
}
