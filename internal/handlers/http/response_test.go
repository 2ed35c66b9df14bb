package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"vidtube/internal/core/query"
)

func testContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return c
}

func TestParsePageRequestDefaults(t *testing.T) {
	c := testContext(t, "")
	page := parsePageRequest(c, PaginationLimits{DefaultLimit: 10, MaxLimit: 100})

	assert.Equal(t, query.PageRequest{Page: 1, Limit: 10}, page)
}

func TestParsePageRequestClampsOversizedLimit(t *testing.T) {
	c := testContext(t, "page=3&limit=5000")
	page := parsePageRequest(c, PaginationLimits{DefaultLimit: 10, MaxLimit: 100})

	assert.Equal(t, query.PageRequest{Page: 3, Limit: 100}, page)
}

func TestParsePageRequestMalformedValuesFallBack(t *testing.T) {
	c := testContext(t, "page=banana&limit=-4")
	page := parsePageRequest(c, PaginationLimits{DefaultLimit: 10, MaxLimit: 100})

	assert.Equal(t, query.PageRequest{Page: 1, Limit: 10}, page)
}
