package api

import (
	"net/http" // HTTP status codes
	"strconv"  // Query parsing

	"krishisaarthi/internal/middleware" // Context keys
	"krishisaarthi/internal/service"    // Business rules

	"github.com/gin-gonic/gin" // Gin web framework
)

// CropFeedRequest is a new community post
type CropFeedRequest struct {
	Title       string  `json:"title" binding:"required"`       // Post title
	Description string  `json:"description" binding:"required"` // Problem description
	ImageURL    *string `json:"image_url"`                      // Optional uploaded photo
	IsAIQuery   bool    `json:"is_ai_query"`                    // Ask the advisor
}

// CommentRequest is a reply to a post
type CommentRequest struct {
	Content string `json:"content" binding:"required"` // Comment text
}

// CreateCropFeedHandler publishes a post for the signed-in user
func CreateCropFeedHandler(svc *service.CropFeedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CropFeedRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		feed, err := svc.Create(c.Request.Context(), c.GetUint(middleware.ContextUserID), service.CreateCropFeedInput{
			Title:       req.Title,
			Description: req.Description,
			ImageURL:    req.ImageURL,
			IsAIQuery:   req.IsAIQuery,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Crop feed created successfully", "feed": feed})
	}
}

// ListCropFeedsHandler returns posts newest first, optionally for one author
func ListCropFeedsHandler(svc *service.CropFeedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var author *uint
		if v := c.Query("user_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
				return
			}
			uid := uint(id)
			author = &uid
		}
		feeds, err := svc.List(c.Request.Context(), author)
		if err != nil {
			respondError(c, err)
			return
		}
		page, pageSize := pagination(c)
		items, totalPages := paginate(feeds, page, pageSize)
		c.JSON(http.StatusOK, gin.H{
			"feeds":       items,      // Requested page of posts
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       len(feeds), // Total number of posts
			"total_pages": totalPages, // Total pages
		})
	}
}

// GetCropFeedHandler returns a post with its comments
func GetCropFeedHandler(svc *service.CropFeedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		feed, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"feed": feed})
	}
}

// AddCommentHandler replies to a post
func AddCommentHandler(svc *service.CropFeedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req CommentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		comment, err := svc.AddComment(c.Request.Context(), c.GetUint(middleware.ContextUserID), id, req.Content)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"comment": comment})
	}
}

// ListCommentsHandler returns a post's comments, oldest first
func ListCommentsHandler(svc *service.CropFeedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		comments, err := svc.ListComments(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"comments": comments})
	}
}

// FeedbackHandler records whether the advisor's answer helped. The form field
// helpful must be "true" or "false".
func FeedbackHandler(svc *service.CropFeedService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		var helpful bool
		switch c.PostForm("helpful") {
		case "true":
			helpful = true
		case "false":
			helpful = false
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid input data",
				"details": gin.H{"helpful": "must be true or false"},
			})
			return
		}
		feed, err := svc.RecordFeedback(c.Request.Context(), c.GetUint(middleware.ContextUserID), id, helpful)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Feedback recorded successfully", "feed": feed})
	}
}
