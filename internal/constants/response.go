package constants

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Standard Response Field Keys
const (
	ResponseFieldSuccess = "success"
	ResponseFieldData    = "data"
	ResponseFieldMessage = "message"
	ResponseFieldError   = "error"
	ResponseFieldCode    = "code"
	ResponseFieldDetails = "details"
	ResponseFieldMeta    = "meta"

	// Pagination meta fields
	ResponseFieldTotal      = "total"
	ResponseFieldPage       = "page"
	ResponseFieldLimit      = "limit"
	ResponseFieldTotalPages = "total_pages"
)

// PaginationParams holds page/limit parsed from the query string
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
	Search string
	Status string
}

// ParsePaginationParams parses page, limit, search and status. Limit is capped at MaxLimit.
func ParsePaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery(QueryParamPage, DefaultPage))
	limit, _ := strconv.Atoi(c.DefaultQuery(QueryParamLimit, DefaultLimit))

	if page < MinPage {
		page = MinPage
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	status := strings.ToLower(c.DefaultQuery(QueryParamStatus, StatusAll))

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Search: strings.TrimSpace(c.DefaultQuery(QueryParamSearch, DefaultSearch)),
		Status: status,
	}
}

// TotalPages returns the number of pages needed for total rows
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Response Format Functions

// BuildDataResponse wraps data in the success envelope
func BuildDataResponse(message string, data any) map[string]any {
	response := map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldData:    data,
	}
	if message != "" {
		response[ResponseFieldMessage] = message
	}
	return response
}

// BuildListResponse wraps a page of rows with pagination meta
func BuildListResponse(total int64, page, limit int, data any) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldData:    data,
		ResponseFieldMeta: map[string]any{
			ResponseFieldTotal:      total,
			ResponseFieldPage:       page,
			ResponseFieldLimit:      limit,
			ResponseFieldTotalPages: TotalPages(total, limit),
		},
	}
}

// BuildErrorResponse wraps an error code and message in the failure envelope
func BuildErrorResponse(code, message string, details any) map[string]any {
	errBody := map[string]any{
		ResponseFieldCode:    code,
		ResponseFieldMessage: message,
	}
	if details != nil {
		errBody[ResponseFieldDetails] = details
	}

	return map[string]any{
		ResponseFieldSuccess: false,
		ResponseFieldError:   errBody,
	}
}

// BuildSuccessResponse returns a success envelope carrying only a message
func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldMessage: message,
	}
}
