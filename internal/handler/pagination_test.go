package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListQueryDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/shipments", nil)
	q := parseListQuery(r)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Empty(t, q.Search)
	assert.Empty(t, q.Status)
}

func TestParseListQueryAllMeansNoFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/shipments?status=All&region=All", nil)
	q := parseListQuery(r)
	assert.Empty(t, q.Status)
	assert.Empty(t, q.Region)

	r = httptest.NewRequest("GET", "/shipments?status=Delivered", nil)
	assert.Equal(t, "Delivered", parseListQuery(r).Status)
}

func TestParseListQueryIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/shipments?page=-3&limit=abc", nil)
	q := parseListQuery(r)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
}

func TestParseListQueryCapsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/shipments?limit=5000", nil)
	assert.Equal(t, maxLimit, parseListQuery(r).Limit)
}

func TestPaginationMeta(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		page      int
		limit     int
		wantPages int
	}{
		{"exact fit", 20, 1, 10, 2},
		{"remainder adds a page", 21, 1, 10, 3},
		{"empty set", 0, 1, 10, 0},
		{"single partial page", 3, 1, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination(tt.total, tt.page, tt.limit)
			assert.Equal(t, tt.wantPages, meta.TotalPages)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.limit, meta.Limit)
		})
	}
}
