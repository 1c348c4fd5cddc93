package stats

// Page is one slice of a newest-first history.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Paginate returns page (1-based) of items split into pages of size.
// There is always at least one page; a page past the end is empty and a
// page below 1 is treated as 1.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = len(items)
		if size == 0 {
			size = 1
		}
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	p := Page[T]{
		Items:      []T{},
		Page:       page,
		TotalItems: total,
		TotalPages: totalPages,
	}

	// Compared before multiplying so a huge page cannot overflow start.
	if page > totalPages {
		return p
	}
	start := (page - 1) * size
	if start >= total {
		return p
	}
	end := min(start+size, total)
	p.Items = items[start:end:end]
	return p
}
