package service

import (
	"context" // Request scoped cancellation
	"fmt"     // Cache key formatting
	"strings" // Input normalisation
	"time"    // Observation dates

	"krishisaarthi/internal/domain" // Domain models
	"krishisaarthi/internal/market" // Price aggregation
	"krishisaarthi/internal/utils"  // Cache helpers

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Price list caching
const (
	PriceCacheNamespace = "market:prices"
	PriceCacheTTL       = 60 * time.Second
)

// TopVolatilityLimit is the number of crops shown on the volatility chart
const TopVolatilityLimit = 5

// CreatePriceInput is a market agent's price observation
type CreatePriceInput struct {
	CropName   string
	MarketName string
	Price      float64
	Date       time.Time
	CropType   domain.CropType
	ImageURL   *string
}

// PriceFilter narrows the price list; zero fields match everything
type PriceFilter struct {
	CropName   string
	CropType   domain.CropType
	MarketName string
	From       *time.Time
	To         *time.Time
}

func (f PriceFilter) cacheKey(version string) string {
	var from, to string
	if f.From != nil {
		from = f.From.Format(time.RFC3339)
	}
	if f.To != nil {
		to = f.To.Format(time.RFC3339)
	}
	return fmt.Sprintf("%s:v%s:crop=%s:type=%s:market=%s:from=%s:to=%s",
		PriceCacheNamespace, version, strings.ToLower(f.CropName), f.CropType, strings.ToLower(f.MarketName), from, to)
}

// PriceView is a price observation with its reporting agent
type PriceView struct {
	domain.MarketPrice
	Agent domain.UserSummary `json:"agent"`
}

// Overview is the market dashboard read model
type Overview struct {
	ByCropType    map[domain.CropType][]domain.MarketPrice `json:"by_crop_type"`
	TopVolatility []market.CropVolatility                  `json:"top_volatility"`
	LatestPrices  []domain.MarketPrice                     `json:"latest_prices"`
	Trends        map[string][]market.TrendPoint           `json:"trends"`
	TotalCrops    int                                      `json:"total_crops"`
}

// MarketService records and serves crop price observations
type MarketService struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewMarketService creates a MarketService; rdb may be nil to disable caching
func NewMarketService(db *gorm.DB, rdb *redis.Client) *MarketService {
	return &MarketService{db: db, rdb: rdb}
}

// Create stores an observation and invalidates cached price lists
func (s *MarketService) Create(ctx context.Context, agentID uint, in CreatePriceInput) (*PriceView, error) {
	fe := fieldErrors{}
	fe.minLen("crop_name", in.CropName, 2, "must be at least 2 characters")
	fe.minLen("market_name", in.MarketName, 2, "must be at least 2 characters")
	if in.Price <= 0 {
		fe["price"] = "must be greater than 0"
	}
	if in.Date.IsZero() {
		fe["date"] = "is required"
	}
	if !in.CropType.Valid() {
		fe["crop_type"] = "must be one of SHORT_TERM SEASONAL LONG_TERM"
	}
	if err := fe.err(); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	agent, err := authorize(db, agentID, "Only market agents can add prices", domain.RoleMarketAgent)
	if err != nil {
		return nil, err
	}
	price := domain.MarketPrice{
		CropName:   strings.TrimSpace(in.CropName),
		MarketName: strings.TrimSpace(in.MarketName),
		Price:      in.Price,
		Date:       in.Date.UTC(),
		CropType:   in.CropType,
		ImageURL:   trimmedPtr(in.ImageURL),
		AgentID:    agentID,
	}
	if err := db.Create(&price).Error; err != nil {
		return nil, err
	}
	// Invalidate every cached filter combination at once
	if err := utils.BumpCacheVersion(ctx, s.rdb, PriceCacheNamespace); err != nil {
		logrus.WithFields(logrus.Fields{
			"namespace": PriceCacheNamespace, // Cache namespace
			"error":     err.Error(),         // Error message
		}).Warn("Failed to invalidate price cache")
	}
	logrus.WithFields(logrus.Fields{
		"price_id":  price.ID,       // New observation
		"agent_id":  agentID,        // Reporting agent
		"crop_name": price.CropName, // Crop observed
		"price":     price.Price,    // Observed price
	}).Info("Market price added")
	return &PriceView{MarketPrice: price, Agent: agent.Summary()}, nil
}

// List returns matching observations newest first. The bool reports whether
// the result came from the cache.
func (s *MarketService) List(ctx context.Context, f PriceFilter) ([]PriceView, bool, error) {
	key := f.cacheKey(utils.CacheVersion(ctx, s.rdb, PriceCacheNamespace))
	var cached []PriceView
	if found, err := utils.GetCache(ctx, s.rdb, key, &cached); err == nil && found {
		return cached, true, nil
	}

	q := s.db.WithContext(ctx).Preload("Agent")
	if f.CropName != "" {
		q = q.Where("LOWER(crop_name) LIKE ?", "%"+strings.ToLower(f.CropName)+"%")
	}
	if f.CropType != "" {
		q = q.Where("crop_type = ?", f.CropType)
	}
	if f.MarketName != "" {
		q = q.Where("LOWER(market_name) LIKE ?", "%"+strings.ToLower(f.MarketName)+"%")
	}
	if f.From != nil {
		q = q.Where("date >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("date <= ?", f.To.UTC())
	}
	var prices []domain.MarketPrice
	if err := q.Order("date DESC").Order("id DESC").Find(&prices).Error; err != nil {
		return nil, false, err
	}
	out := make([]PriceView, len(prices))
	for i, p := range prices {
		out[i] = PriceView{MarketPrice: p}
		if p.Agent != nil {
			out[i].Agent = p.Agent.Summary()
		}
	}
	if err := utils.SetCache(ctx, s.rdb, key, out, PriceCacheTTL); err != nil {
		logrus.WithFields(logrus.Fields{
			"key":   key,         // Cache key
			"error": err.Error(), // Error message
		}).Warn("Failed to cache price list")
	}
	return out, false, nil
}

// Overview aggregates every observation for the market dashboard
func (s *MarketService) Overview(ctx context.Context) (*Overview, error) {
	views, _, err := s.List(ctx, PriceFilter{})
	if err != nil {
		return nil, err
	}
	prices := make([]domain.MarketPrice, len(views))
	for i, v := range views {
		prices[i] = v.MarketPrice
	}
	latest := market.LatestPrices(prices)
	return &Overview{
		ByCropType:    market.GroupByCropType(prices),
		TopVolatility: market.RankVolatility(market.Volatility(prices), TopVolatilityLimit),
		LatestPrices:  latest,
		Trends:        market.Trends(prices),
		TotalCrops:    len(latest),
	}, nil
}
