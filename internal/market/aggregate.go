// Package market computes the read models shown on the market and bidding
// dashboards. Every function is pure and returns an empty result for empty input.
package market

import (
	"math" // Rounding and absolute change
	"sort" // Ordering groups and rankings
	"time" // Observation dates

	"krishisaarthi/internal/domain" // Domain models
)

// CropVolatility is a crop's average absolute percentage price change
type CropVolatility struct {
	CropName   string  `json:"crop_name"`
	Volatility float64 `json:"volatility"`
}

// TrendPoint is one observation on a crop's price trend line
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// byCrop groups observations by crop name, each group sorted oldest first.
// Observations sharing a date keep insertion order by ID.
func byCrop(prices []domain.MarketPrice) map[string][]domain.MarketPrice {
	groups := make(map[string][]domain.MarketPrice)
	for _, p := range prices {
		groups[p.CropName] = append(groups[p.CropName], p)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			if !g[i].Date.Equal(g[j].Date) {
				return g[i].Date.Before(g[j].Date)
			}
			return g[i].ID < g[j].ID
		})
	}
	return groups
}

// Volatility scores each observed crop by the mean of |p[i]-p[i-1]|/p[i-1]*100
// over chronologically consecutive observations, rounded to two decimals.
// A crop with a single observation scores 0.
func Volatility(prices []domain.MarketPrice) map[string]float64 {
	scores := make(map[string]float64)
	for crop, g := range byCrop(prices) {
		var sum float64
		var n int
		for i := 1; i < len(g); i++ {
			prev := g[i-1].Price
			if prev == 0 {
				continue
			}
			sum += math.Abs(g[i].Price-prev) / prev * 100
			n++
		}
		if n == 0 {
			scores[crop] = 0
			continue
		}
		scores[crop] = math.Round(sum/float64(n)*100) / 100
	}
	return scores
}

// RankVolatility orders scores highest first (ties by crop name) and keeps at
// most limit entries; limit <= 0 keeps all
func RankVolatility(scores map[string]float64, limit int) []CropVolatility {
	out := make([]CropVolatility, 0, len(scores))
	for crop, v := range scores {
		out = append(out, CropVolatility{CropName: crop, Volatility: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Volatility != out[j].Volatility {
			return out[i].Volatility > out[j].Volatility
		}
		return out[i].CropName < out[j].CropName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// LatestPrices returns the most recent observation of every crop, newest first
func LatestPrices(prices []domain.MarketPrice) []domain.MarketPrice {
	groups := byCrop(prices)
	out := make([]domain.MarketPrice, 0, len(groups))
	for _, g := range groups {
		out = append(out, g[len(g)-1])
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CropName < out[j].CropName
	})
	return out
}

// GroupByCropType buckets observations by crop type, preserving input order
func GroupByCropType(prices []domain.MarketPrice) map[domain.CropType][]domain.MarketPrice {
	out := map[domain.CropType][]domain.MarketPrice{
		domain.CropShortTerm: {},
		domain.CropSeasonal:  {},
		domain.CropLongTerm:  {},
	}
	for _, p := range prices {
		out[p.CropType] = append(out[p.CropType], p)
	}
	return out
}

// Trends returns each crop's price series, oldest first
func Trends(prices []domain.MarketPrice) map[string][]TrendPoint {
	out := make(map[string][]TrendPoint)
	for crop, g := range byCrop(prices) {
		points := make([]TrendPoint, len(g))
		for i, p := range g {
			points[i] = TrendPoint{Date: p.Date, Price: p.Price}
		}
		out[crop] = points
	}
	return out
}

// HighestBid returns the bid with the largest amount; the earliest bid wins a tie
func HighestBid(bids []domain.Bid) (domain.Bid, bool) {
	if len(bids) == 0 {
		return domain.Bid{}, false
	}
	best := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > best.Amount || (b.Amount == best.Amount && b.CreatedAt.Before(best.CreatedAt)) {
			best = b
		}
	}
	return best, true
}

// CurrentPrice is the highest bid amount, or the base price when nobody has bid
func CurrentPrice(e domain.BiddingEntry) float64 {
	if b, ok := HighestBid(e.Bids); ok {
		return b.Amount
	}
	return e.BasePrice
}

// RankEntries orders listings by current price, highest first, then by end date
func RankEntries(entries []domain.BiddingEntry) []domain.BiddingEntry {
	out := append([]domain.BiddingEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := CurrentPrice(out[i]), CurrentPrice(out[j])
		if pi != pj {
			return pi > pj
		}
		return out[i].EndDate.Before(out[j].EndDate)
	})
	return out
}
