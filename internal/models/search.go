// internal/models/search.go
package models

// SearchFilters carries the parsed query parameters of GET /api/jobs.
// Multi-value filters are OR-sets within the field and AND across fields.
type SearchFilters struct {
	Search             string   `json:"search,omitempty"`
	Cities             []string `json:"cities,omitempty"`
	JobTypes           []string `json:"jobTypes,omitempty"`
	Categories         []string `json:"categories,omitempty"`
	PlatformCategories []string `json:"platformCategories,omitempty"`
	Diaspora           *bool    `json:"diaspora,omitempty"`
	Page               int      `json:"page"`
	Limit              int      `json:"limit"`
}

// Offset returns the zero-based result offset for the requested page.
func (f SearchFilters) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}

// SearchResult is a single page of search hits plus pagination metadata.
type SearchResult struct {
	Jobs       []Job `json:"jobs"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}
