package api

import (
	"net/http" // HTTP status codes
	"strings"  // Query normalisation
	"time"     // Date parsing

	"krishisaarthi/internal/domain"     // Domain models
	"krishisaarthi/internal/middleware" // Context keys
	"krishisaarthi/internal/service"    // Business rules

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// xlsxContentType is the MIME type of the price export
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MarketPriceRequest is a market agent's price observation
type MarketPriceRequest struct {
	CropName   string          `json:"crop_name" binding:"required"`                                     // Crop observed
	MarketName string          `json:"market_name" binding:"required"`                                   // Market observed
	Price      float64         `json:"price" binding:"required,gt=0"`                                    // Price per quintal
	Date       string          `json:"date" binding:"required"`                                          // YYYY-MM-DD or RFC3339
	CropType   domain.CropType `json:"crop_type" binding:"required,oneof=SHORT_TERM SEASONAL LONG_TERM"` // Growing period class
	ImageURL   *string         `json:"image_url"`                                                        // Optional photo
}

// parseDate accepts a calendar date or an RFC3339 timestamp
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

const dateMessage = "must be a date (YYYY-MM-DD) or RFC3339 timestamp"

// priceFilter reads the list filters from the query, writing a 400 for malformed dates
func priceFilter(c *gin.Context) (service.PriceFilter, bool) {
	f := service.PriceFilter{
		CropName:   strings.TrimSpace(c.Query("crop_name")),
		CropType:   domain.CropType(strings.ToUpper(strings.TrimSpace(c.Query("crop_type")))),
		MarketName: strings.TrimSpace(c.Query("market_name")),
	}
	details := gin.H{}
	if f.CropType != "" && !f.CropType.Valid() {
		details["crop_type"] = "must be one of SHORT_TERM SEASONAL LONG_TERM"
	}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{{"from_date", &f.From}, {"to_date", &f.To}} {
		v := c.Query(q.name)
		if v == "" {
			continue
		}
		t, ok := parseDate(v)
		if !ok {
			details[q.name] = dateMessage
			continue
		}
		*q.dst = &t
	}
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": details})
		return f, false
	}
	return f, true
}

// CreatePriceHandler records a price observation for the signed-in market agent
func CreatePriceHandler(svc *service.MarketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MarketPriceRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		date, ok := parseDate(req.Date)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": gin.H{"date": dateMessage}})
			return
		}
		price, err := svc.Create(c.Request.Context(), c.GetUint(middleware.ContextUserID), service.CreatePriceInput{
			CropName:   req.CropName,
			MarketName: req.MarketName,
			Price:      req.Price,
			Date:       date,
			CropType:   req.CropType,
			ImageURL:   req.ImageURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Market price added successfully", "price": price})
	}
}

// ListPricesHandler returns filtered observations, newest first
func ListPricesHandler(svc *service.MarketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := priceFilter(c)
		if !ok {
			return
		}
		prices, cached, err := svc.List(c.Request.Context(), f)
		if err != nil {
			respondError(c, err)
			return
		}
		page, pageSize := pagination(c)
		items, totalPages := paginate(prices, page, pageSize)
		c.JSON(http.StatusOK, gin.H{
			"prices":      items,       // Requested page of observations
			"page":        page,        // Current page
			"page_size":   pageSize,    // Page size
			"total":       len(prices), // Total number of observations
			"total_pages": totalPages,  // Total pages
			"cached":      cached,      // Indicate response is from cache
		})
	}
}

// ExportPricesHandler streams the filtered observations as an XLSX workbook
func ExportPricesHandler(svc *service.MarketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, ok := priceFilter(c)
		if !ok {
			return
		}
		prices, _, err := svc.List(c.Request.Context(), f)
		if err != nil {
			respondError(c, err)
			return
		}
		buf, err := pricesWorkbook(prices)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"rows":  len(prices), // Rows requested
				"error": err.Error(), // Error message
			}).Error("Failed to build price export")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export prices"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="market-prices.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

// MarketOverviewHandler returns the market dashboard aggregates
func MarketOverviewHandler(svc *service.MarketService) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := svc.Overview(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, overview)
	}
}
