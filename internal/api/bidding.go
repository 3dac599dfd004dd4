package api

import (
	"net/http" // HTTP status codes

	"krishisaarthi/internal/middleware" // Context keys
	"krishisaarthi/internal/service"    // Business rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// BiddingEntryRequest is a farmer's produce listing
type BiddingEntryRequest struct {
	CropName      string  `json:"crop_name" binding:"required"`       // Produce on offer
	BasePrice     float64 `json:"base_price" binding:"required,gt=0"` // Opening price
	ImageURL      *string `json:"image_url"`                          // Optional uploaded photo
	ContactNumber string  `json:"contact_number"`                     // Farmer contact
	Address       string  `json:"address"`                            // Pickup address
	EndDate       string  `json:"end_date" binding:"required"`        // YYYY-MM-DD or RFC3339
}

// BidRequest is a buyer's offer
type BidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"` // Offered price
}

// CreateBiddingEntryHandler opens a listing for the signed-in farmer
func CreateBiddingEntryHandler(svc *service.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BiddingEntryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		endDate, ok := parseDate(req.EndDate)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data", "details": gin.H{"end_date": dateMessage}})
			return
		}
		entry, err := svc.CreateEntry(c.Request.Context(), c.GetUint(middleware.ContextUserID), service.CreateEntryInput{
			CropName:      req.CropName,
			BasePrice:     req.BasePrice,
			ImageURL:      req.ImageURL,
			ContactNumber: req.ContactNumber,
			Address:       req.Address,
			EndDate:       endDate,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Bidding entry created successfully", "entry": entry})
	}
}

// ListBiddingEntriesHandler returns open listings ranked by current price
func ListBiddingEntriesHandler(svc *service.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	}
}

// PlaceBidHandler records a bid from the signed-in buyer
func PlaceBidHandler(svc *service.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req BidRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		bid, err := svc.PlaceBid(c.Request.Context(), c.GetUint(middleware.ContextUserID), id, req.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Bid placed successfully", "bid": bid})
	}
}

// CloseBiddingHandler stops a listing from taking further bids
func CloseBiddingHandler(svc *service.BiddingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		entry, err := svc.Close(c.Request.Context(), c.GetUint(middleware.ContextUserID), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Bidding closed", "entry": entry})
	}
}
