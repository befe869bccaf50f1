package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// Pagination describes one page of an admin listing
type Pagination struct {
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
	Total    int64 `json:"total"`
	LastPage int   `json:"last_page"`
}

// PaginationFromQuery reads ?page=&limit=. It reports false when the client
// asked for no page, in which case the whole listing is returned.
func PaginationFromQuery(c *gin.Context) (*Pagination, bool) {
	pageStr, ok := c.GetQuery("page")
	if !ok {
		return nil, false
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > maxPageSize {
		limit = 20
	}
	return &Pagination{Page: page, Limit: limit}, true
}

// Window records total and returns the slice bounds of the current page
func (p *Pagination) Window(total int) (start, end int) {
	p.Total = int64(total)
	p.LastPage = (total + p.Limit - 1) / p.Limit

	start = (p.Page - 1) * p.Limit
	if start > total {
		start = total
	}
	end = start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}
