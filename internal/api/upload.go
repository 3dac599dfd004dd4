package api

import (
	"net/http" // HTTP status codes
	"strings"  // Input normalisation

	"krishisaarthi/internal/middleware" // Context keys
	"krishisaarthi/internal/storage"    // Object storage

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// PresignRequest asks for a direct upload slot
type PresignRequest struct {
	FileName    string `json:"file_name" binding:"required"`    // Original file name, for its extension
	ContentType string `json:"content_type" binding:"required"` // MIME type the client will PUT
	Folder      string `json:"folder" binding:"required"`       // Logical folder such as soil-reports
}

// PresignUploadHandler returns a presigned PUT URL under the caller's folder
func PresignUploadHandler(presigner storage.Presigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PresignRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		userID := c.GetUint(middleware.ContextUserID)
		key, err := storage.ObjectKey(strings.TrimSpace(req.Folder), userID, strings.TrimSpace(req.FileName))
		if err != nil {
			respondError(c, err)
			return
		}
		upload, err := presigner.PresignUpload(key, req.ContentType)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Uploading user
				"key":     key,         // Object key
				"error":   err.Error(), // Error message
			}).Error("Failed to presign upload")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate upload URL"})
			return
		}
		c.JSON(http.StatusOK, upload)
	}
}
