package repository

import "github.com/maxviazov/prosante-admin/internal/pagination"

// Page is a limit/offset window for SQL listings.
type Page struct {
	Limit  int
	Offset int
}

// PageFromRequest converts a 1-based page request to a SQL window.
func PageFromRequest(req pagination.Request) Page {
	req = req.Normalize()
	return Page{Limit: req.PageSize, Offset: (req.Page - 1) * req.PageSize}
}

// PageResult carries a slice of items and the total count matching the query.
type PageResult[T any] struct {
	Items []T
	Total int
}
