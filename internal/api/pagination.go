package api

import (
	"strconv" // String conversion

	"github.com/gin-gonic/gin" // Gin web framework
)

// Page size limits for list endpoints
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagination reads page and page_size from the query, falling back to defaults
func pagination(c *gin.Context) (page, pageSize int) {
	page = 1                   // Default page number
	pageSize = defaultPageSize // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// Check and set page size within limits
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= maxPageSize {
			pageSize = v // Set page size
		}
	}
	return page, pageSize
}

// paginate slices items down to the requested page and returns the page count
func paginate[T any](items []T, page, pageSize int) ([]T, int) {
	totalPages := (len(items) + pageSize - 1) / pageSize // Calculate total pages
	if page > totalPages {
		return []T{}, totalPages // Past the last page
	}
	offset := (page - 1) * pageSize // Calculate offset
	end := min(offset+pageSize, len(items))
	return items[offset:end], totalPages
}
