package macrowire

import (
	"github.com/cognicore/macrowire/pkg/macrowire/config"
	"github.com/cognicore/macrowire/pkg/macrowire/store"
)

// Page is one slice of the feed.
type Page struct {
	Items       []store.Item `json:"items"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	TotalItems  int          `json:"totalItems"`
}

// Paginate slices items into pages of perPage. The requested page is
// clamped into [1, TotalPages] and TotalPages is at least 1, so any page
// number yields a valid page. perPage <= 0 selects the default of 30.
func Paginate(items []store.Item, page, perPage int) Page {
	if perPage <= 0 {
		perPage = config.DefaultPerPage
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	current := page
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}

	start := (current - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	out := make([]store.Item, end-start)
	copy(out, items[start:end])

	return Page{
		Items:       out,
		TotalPages:  totalPages,
		CurrentPage: current,
		TotalItems:  total,
	}
}
