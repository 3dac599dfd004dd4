package service

import (
	"context" // Request scoped cancellation
	"strings" // Input normalisation
	"time"    // Listing deadlines

	"krishisaarthi/internal/domain" // Domain models
	"krishisaarthi/internal/market" // Bid ranking

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// CreateEntryInput is a farmer's produce listing
type CreateEntryInput struct {
	CropName      string
	BasePrice     float64
	ImageURL      *string
	ContactNumber string
	Address       string
	EndDate       time.Time
}

// EntryView is a listing with its farmer and leading bid
type EntryView struct {
	domain.BiddingEntry
	Farmer       domain.UserSummary `json:"farmer"`
	HighestBid   *domain.Bid        `json:"highest_bid"`
	CurrentPrice float64            `json:"current_price"`
	BidCount     int                `json:"bid_count"`
}

// BiddingService runs produce auctions between farmers and buyers
type BiddingService struct {
	db  *gorm.DB
	now func() time.Time // Clock, replaced in tests
}

// NewBiddingService creates a BiddingService
func NewBiddingService(db *gorm.DB) *BiddingService {
	return &BiddingService{db: db, now: time.Now}
}

// CreateEntry opens a listing for bids until in.EndDate
func (s *BiddingService) CreateEntry(ctx context.Context, farmerID uint, in CreateEntryInput) (*EntryView, error) {
	fe := fieldErrors{}
	fe.minLen("crop_name", in.CropName, 2, "must be at least 2 characters")
	if in.BasePrice <= 0 {
		fe["base_price"] = "must be greater than 0"
	}
	if !in.EndDate.After(s.now()) {
		fe["end_date"] = "must be in the future"
	}
	if err := fe.err(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	farmer, err := authorize(db, farmerID, "Only farmers can list produce for bidding", domain.RoleFarmer)
	if err != nil {
		return nil, err
	}
	entry := domain.BiddingEntry{
		FarmerID:      farmerID,
		CropName:      strings.TrimSpace(in.CropName),
		BasePrice:     in.BasePrice,
		ImageURL:      trimmedPtr(in.ImageURL),
		ContactNumber: strings.TrimSpace(in.ContactNumber),
		Address:       strings.TrimSpace(in.Address),
		IsActive:      true,
		EndDate:       in.EndDate.UTC(),
		Bids:          []domain.Bid{},
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"entry_id":   entry.ID,        // New listing
		"farmer_id":  farmerID,        // Listing farmer
		"base_price": entry.BasePrice, // Opening price
	}).Info("Bidding entry created")
	return &EntryView{BiddingEntry: entry, Farmer: farmer.Summary(), CurrentPrice: entry.BasePrice}, nil
}

// List returns open listings ranked by current price
func (s *BiddingService) List(ctx context.Context) ([]EntryView, error) {
	var entries []domain.BiddingEntry
	err := s.db.WithContext(ctx).
		Preload("Farmer").
		Preload("Bids", func(tx *gorm.DB) *gorm.DB { return tx.Order("amount DESC").Order("created_at ASC").Order("id ASC") }).
		Where("is_active = ? AND end_date > ?", true, s.now().UTC()).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	ranked := market.RankEntries(entries)
	out := make([]EntryView, len(ranked))
	for i, e := range ranked {
		out[i] = entryView(e)
	}
	return out, nil
}

// PlaceBid records a buyer's bid. The amount must beat the base price and the
// listing must still be open.
func (s *BiddingService) PlaceBid(ctx context.Context, buyerID, entryID uint, amount float64) (*domain.Bid, error) {
	var bid domain.Bid
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := authorize(tx, buyerID, "Only buyers can place bids", domain.RoleBuyer); err != nil {
			return err
		}
		var entry domain.BiddingEntry
		if err := tx.First(&entry, entryID).Error; err != nil {
			return notFoundOr(err, "Bidding entry not found")
		}
		if !entry.IsActive || !s.now().Before(entry.EndDate) {
			return domain.InvalidState("Bidding has closed for this entry")
		}
		if amount <= entry.BasePrice {
			return domain.Invalid("amount", "Bid amount must be higher than base price")
		}
		bid = domain.Bid{EntryID: entryID, BuyerID: buyerID, Amount: amount}
		return tx.Create(&bid).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"bid_id":   bid.ID,  // New bid
		"entry_id": entryID, // Target listing
		"buyer_id": buyerID, // Bidding buyer
		"amount":   amount,  // Bid amount
	}).Info("Bid placed")
	return &bid, nil
}

// Close stops a listing from taking further bids; only its farmer may close it
func (s *BiddingService) Close(ctx context.Context, farmerID, entryID uint) (*EntryView, error) {
	db := s.db.WithContext(ctx)
	var entry domain.BiddingEntry
	if err := db.Preload("Farmer").Preload("Bids").First(&entry, entryID).Error; err != nil {
		return nil, notFoundOr(err, "Bidding entry not found")
	}
	if entry.FarmerID != farmerID {
		return nil, domain.Forbidden("Only the listing farmer can close bidding")
	}
	res := db.Model(&domain.BiddingEntry{}).Where("id = ? AND is_active = ?", entryID, true).Update("is_active", false)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.InvalidState("Bidding is already closed for this entry")
	}
	entry.IsActive = false
	view := entryView(entry)
	logrus.WithFields(logrus.Fields{
		"entry_id":      entryID,           // Closed listing
		"farmer_id":     farmerID,          // Listing farmer
		"current_price": view.CurrentPrice, // Winning price
	}).Info("Bidding closed")
	return &view, nil
}

func entryView(e domain.BiddingEntry) EntryView {
	if e.Bids == nil {
		e.Bids = []domain.Bid{}
	}
	v := EntryView{BiddingEntry: e, CurrentPrice: market.CurrentPrice(e), BidCount: len(e.Bids)}
	if e.Farmer != nil {
		v.Farmer = e.Farmer.Summary()
	}
	if b, ok := market.HighestBid(e.Bids); ok {
		v.HighestBid = &b
	}
	return v
}
