package utils

const (
	// DefaultPageLimit applies when a listing request names no usable limit.
	DefaultPageLimit = 20
	// MaxPageLimit caps the page size a client may ask for.
	MaxPageLimit = 100
)

// PaginationParams selects one page of a listing. A zero Limit selects every item.
type PaginationParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// PaginationMeta describes the page returned with a listing
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// GetPaginationParams normalises client supplied paging. Pages start at 1; a missing or
// out of range limit falls back to DefaultPageLimit.
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > MaxPageLimit {
		limit = DefaultPageLimit
	}
	return PaginationParams{Page: page, Limit: limit}
}

// CalculateOffset is the number of rows skipped before the page.
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// CalculateMeta builds the metadata of a page. Unlimited listings are a single page.
func CalculateMeta(totalCount int64, page, limit int) PaginationMeta {
	if limit <= 0 {
		return PaginationMeta{Page: 1, Limit: int(totalCount), TotalCount: totalCount, TotalPages: 1}
	}

	pages := (totalCount + int64(limit) - 1) / int64(limit)
	if pages < 0 {
		pages = 0
	}
	return PaginationMeta{Page: page, Limit: limit, TotalCount: totalCount, TotalPages: int(pages)}
}
