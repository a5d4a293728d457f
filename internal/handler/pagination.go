package handler

import (
	"net/http"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type listQuery struct {
	Page   int
	Limit  int
	Search string
	Status string
	Region string
}

// parseListQuery reads the shared list parameters. The literal filter value
// "All" means no filter, matching what the admin UI sends for the default
// dropdown option.
func parseListQuery(r *http.Request) listQuery {
	q := listQuery{
		Page:   defaultPage,
		Limit:  defaultLimit,
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
		Region: r.URL.Query().Get("region"),
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		q.Limit = v
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Status == "All" {
		q.Status = ""
	}
	if q.Region == "All" {
		q.Region = ""
	}
	return q
}

func pagination(total int64, page, limit int) pageMeta {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pageMeta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
