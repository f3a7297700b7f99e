package pagination

// Page-number pagination over stable orderings. Out-of-range and invalid page
// requests clamp instead of failing, matching the browsing UX: page 0 or a
// negative page serves page 1, a page past the end serves the last page.

const (
	// DefaultProductPageSize is the catalog listing page size.
	DefaultProductPageSize = 12
	// DefaultPostPageSize is the blog listing page size.
	DefaultPostPageSize = 10
	// MaxPageSize caps how many rows any listing can request.
	MaxPageSize = 100
)

// Params holds page inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Result describes one resolved page of a listing.
type Result struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NormalizePageSize enforces the provided default and the global maximum.
func NormalizePageSize(size, fallback int) int {
	if size <= 0 {
		return fallback
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Resolve clamps the requested page against the total row count and returns
// the page descriptor plus the query offset.
func Resolve(params Params, fallbackSize int, totalItems int64) (Result, int) {
	pageSize := NormalizePageSize(params.PageSize, fallbackSize)

	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	result := Result{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
	return result, (page - 1) * pageSize
}
