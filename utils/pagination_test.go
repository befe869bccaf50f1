package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/orders?"+rawQuery, nil)
	return c
}

func TestPaginationFromQuery(t *testing.T) {
	_, ok := PaginationFromQuery(queryContext(""))
	assert.False(t, ok)

	page, ok := PaginationFromQuery(queryContext("page=3&limit=5"))
	require.True(t, ok)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 5, page.Limit)

	page, ok = PaginationFromQuery(queryContext("page=zero&limit=500"))
	require.True(t, ok)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
}

func TestPaginationWindow(t *testing.T) {
	page := &Pagination{Page: 2, Limit: 10}
	start, end := page.Window(25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)
	assert.EqualValues(t, 25, page.Total)
	assert.Equal(t, 3, page.LastPage)

	page = &Pagination{Page: 3, Limit: 10}
	start, end = page.Window(25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	page = &Pagination{Page: 9, Limit: 10}
	start, end = page.Window(25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)
}
