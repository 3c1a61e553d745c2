package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PaginationMeta describes one page of a larger result set.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// PaginatedResponse wraps one page of results of any type.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// ParsePageParams reads the page and limit query parameters, clamping both
// to sane bounds.
func ParsePageParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// Paginate runs a counted offset/limit query over db and wraps the
// requested page. page and limit are assumed clamped (ParsePageParams).
func Paginate[T any](db *gorm.DB, page, limit int) (*PaginatedResponse[T], error) {
	var totalItems int64
	if err := db.Model(new(T)).Count(&totalItems).Error; err != nil {
		return nil, err
	}

	var rows []T
	if err := db.Offset((page - 1) * limit).Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	return &PaginatedResponse[T]{
		Data: rows,
		Meta: PaginationMeta{
			TotalItems:  totalItems,
			TotalPages:  int((totalItems + int64(limit) - 1) / int64(limit)),
			CurrentPage: page,
			PageSize:    limit,
		},
	}, nil
}
