package search

const DefaultPageSize = 5

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices items into the 1-based page. Page in the result is the
// request clamped into [1, TotalPages] for building navigation links; the
// slice itself uses the raw request, so an out-of-range page is empty.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	result := Page[T]{
		Items:      []T{},
		Page:       min(max(page, 1), totalPages),
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}

	if page < 1 || page > totalPages {
		return result
	}
	start := (page - 1) * pageSize
	if start >= total {
		return result
	}
	end := min(start+pageSize, total)
	result.Items = items[start:end:end]
	return result
}
