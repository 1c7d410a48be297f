package catalog

import (
	"strings"

	"github.com/unikiala/unikiala-api/internal/model"
)

// SearchResult splits matching events into highlighted and regular ones,
// each keeping catalog order.
type SearchResult struct {
	Featured []model.Event `json:"featured"`
	Regular  []model.Event `json:"regular"`
}

// Search filters events by a case-insensitive term over title, location,
// description and category, and by exact category. An empty category or
// model.CategoryAll matches everything.
func Search(events []model.Event, query, category string) SearchResult {
	term := strings.ToLower(strings.TrimSpace(query))
	res := SearchResult{Featured: []model.Event{}, Regular: []model.Event{}}

	for _, e := range events {
		if category != "" && category != model.CategoryAll && e.Category != category {
			continue
		}
		if term != "" && !matches(e, term) {
			continue
		}
		if e.Highlighted {
			res.Featured = append(res.Featured, e)
		} else {
			res.Regular = append(res.Regular, e)
		}
	}
	return res
}

func matches(e model.Event, term string) bool {
	for _, field := range []string{e.Title, e.Location, e.Description, e.Category} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Categories lists the category filters, model.CategoryAll first.
func Categories() []string {
	return append([]string(nil), model.Categories...)
}
