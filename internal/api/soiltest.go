package api

import (
	"net/http" // HTTP status codes

	"krishisaarthi/internal/domain"     // Domain models
	"krishisaarthi/internal/middleware" // Context keys
	"krishisaarthi/internal/service"    // Business rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// SoilTestRequestBody is a farmer's soil test request form
type SoilTestRequestBody struct {
	Location       string  `json:"location" binding:"required"`       // Field location
	ContactNumber  string  `json:"contact_number" binding:"required"` // Farmer contact
	AdditionalInfo *string `json:"additional_info"`                   // Free-form notes
}

// SoilReportBody carries the uploaded report artifacts
type SoilReportBody struct {
	ReportURL         string `json:"report_url" binding:"required"`          // Uploaded report document
	SoilCollectionURL string `json:"soil_collection_url" binding:"required"` // Soil collection photo
	FarmerPhotoURL    string `json:"farmer_photo_url" binding:"required"`    // Photo with the farmer
}

// soilTestResponse is a request with its farmer's public summary
type soilTestResponse struct {
	domain.SoilTestRequest
	Farmer *domain.UserSummary `json:"farmer,omitempty"`
}

func soilTestView(r *domain.SoilTestRequest) soilTestResponse {
	v := soilTestResponse{SoilTestRequest: *r}
	if r.Farmer != nil {
		s := r.Farmer.Summary()
		v.Farmer = &s
	}
	return v
}

func soilTestViews(rs []domain.SoilTestRequest) []soilTestResponse {
	out := make([]soilTestResponse, len(rs))
	for i := range rs {
		out[i] = soilTestView(&rs[i])
	}
	return out
}

// SubmitSoilTestHandler files a soil test request for the signed-in farmer
func SubmitSoilTestHandler(svc *service.SoilTestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SoilTestRequestBody // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		created, err := svc.Submit(c.Request.Context(), c.GetUint(middleware.ContextUserID), service.SubmitSoilTestInput{
			Location:       req.Location,
			ContactNumber:  req.ContactNumber,
			AdditionalInfo: req.AdditionalInfo,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Soil test request submitted successfully", "request": soilTestView(created)})
	}
}

// AcceptSoilTestHandler claims a pending request for the signed-in company
func AcceptSoilTestHandler(svc *service.SoilTestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		accepted, err := svc.Accept(c.Request.Context(), c.GetUint(middleware.ContextUserID), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Request accepted successfully", "request": soilTestView(accepted)})
	}
}

// SubmitSoilReportHandler completes an accepted request with its report
func SubmitSoilReportHandler(svc *service.SoilTestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req SoilReportBody // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		report, err := svc.SubmitReport(c.Request.Context(), c.GetUint(middleware.ContextUserID), id, service.ReportArtifacts{
			ReportURL:         req.ReportURL,
			SoilCollectionURL: req.SoilCollectionURL,
			FarmerPhotoURL:    req.FarmerPhotoURL,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Report submitted successfully", "report": report})
	}
}

// GetSoilTestHandler returns one request if the caller may see it
func GetSoilTestHandler(svc *service.SoilTestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		req, err := svc.Get(c.Request.Context(), c.GetUint(middleware.ContextUserID), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"request": soilTestView(req)})
	}
}

// ListSoilTestsHandler returns the caller's soil test board
func ListSoilTestsHandler(svc *service.SoilTestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		board, err := svc.ListForViewer(c.Request.Context(), c.GetUint(middleware.ContextUserID))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"pending":   soilTestViews(board.Pending),   // Awaiting action
			"accepted":  soilTestViews(board.Accepted),  // Report outstanding
			"completed": soilTestViews(board.Completed), // Report filed
		})
	}
}
