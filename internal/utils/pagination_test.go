package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

func paramsForQuery(t *testing.T, query string) *PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
		sort     string
		order    string
	}{
		{"defaults", "", 1, DefaultPageSize, "created_at", "desc"},
		{"explicit", "page=3&page_size=50&sort=price_per_day&order=asc", 3, 50, "price_per_day", "asc"},
		{"negative page clamps", "page=-2", 1, DefaultPageSize, "created_at", "desc"},
		{"oversized page_size clamps", "page_size=9999", 1, MaxPageSize, "created_at", "desc"},
		{"unknown sort falls back", "sort=password", 1, DefaultPageSize, "created_at", "desc"},
		{"bad order falls back", "order=sideways", 1, DefaultPageSize, "created_at", "desc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := paramsForQuery(t, tc.query)
			if p.Page != tc.page || p.PageSize != tc.pageSize {
				t.Fatalf("got page=%d size=%d, want page=%d size=%d", p.Page, p.PageSize, tc.page, tc.pageSize)
			}
			if p.Sort != tc.sort || p.Order != tc.order {
				t.Fatalf("got sort=%q order=%q, want sort=%q order=%q", p.Sort, p.Order, tc.sort, tc.order)
			}
		})
	}
}

func TestGetSearchFilter(t *testing.T) {
	p := &PaginationParams{Search: "honda"}

	filter := p.GetSearchFilter([]string{"name", "description"})
	clauses, ok := filter["$or"].([]bson.M)
	if !ok || len(clauses) != 2 {
		t.Fatalf("expected two $or clauses, got %v", filter)
	}

	empty := (&PaginationParams{}).GetSearchFilter([]string{"name"})
	if len(empty) != 0 {
		t.Fatalf("expected empty filter without a search term, got %v", empty)
	}
}
