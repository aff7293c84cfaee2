// File: internal/common/pagination.go
package common

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 200
	// MaxPage keeps (page-1)*MaxLimit inside int range.
	MaxPage      = math.MaxInt32
)

// PaginationQuery holds normalized page/limit values.
type PaginationQuery struct {
	Page  int
	Limit int
}

// NewPaginationQuery coerces raw query values. Missing, non-numeric or
// non-positive input falls back to the defaults; limit is capped at MaxLimit
// and page at MaxPage.
func NewPaginationQuery(rawPage, rawLimit string) PaginationQuery {
	rawPage = strings.TrimSpace(rawPage)
	page, err := strconv.Atoi(rawPage)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(rawPage, "-"):
		page = MaxPage
	case err != nil || page < 1:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}
	limit, err := strconv.Atoi(strings.TrimSpace(rawLimit))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return PaginationQuery{Page: page, Limit: limit}
}

// GetPaginationParams extracts pagination parameters from Gin context.
func GetPaginationParams(c *gin.Context) PaginationQuery {
	return NewPaginationQuery(c.Query("page"), c.Query("limit"))
}

// Offset calculates the offset for database queries.
func (pq PaginationQuery) Offset() int {
	if pq.Page <= 0 {
		return 0
	}
	return (pq.Page - 1) * pq.Limit
}
