package pagination

// DefaultPageSize is used when a list request does not name one.
const DefaultPageSize = 20

// MaxPageSize caps page_size; Shopify listings are fetched 250 at a time.
const MaxPageSize = 250

// Controls is everything a renderer needs for one page control.
type Controls struct {
	CurrentPage int     `json:"current_page"`
	TotalPages  int     `json:"total_pages"`
	Labels      []Token `json:"labels"`
	CanPrevious bool    `json:"can_previous"`
	CanNext     bool    `json:"can_next"`
}

// NewControls computes labels and navigation flags for a valid range.
func NewControls(current, total int) (Controls, error) {
	labels, err := Labels(current, total)
	if err != nil {
		return Controls{}, err
	}
	return Controls{
		CurrentPage: current,
		TotalPages:  total,
		Labels:      labels,
		CanPrevious: CanPrevious(current),
		CanNext:     CanNext(current, total),
	}, nil
}

// ClampedControls never fails: invalid bounds fall back to the nearest valid
// range, so a bad ?page= still renders a usable control.
func ClampedControls(current, total int) Controls {
	c, t := Clamp(current, total)
	out, _ := NewControls(c, t)
	return out
}

// Request is a 1-based page request as parsed from a query string.
type Request struct {
	Page     int
	PageSize int
}

// Normalize applies defaults: page >= 1 and 1 <= page_size <= MaxPageSize.
func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	return r
}

// TotalPages returns how many pages totalItems spans; an empty listing is one page.
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 1
	}
	return (totalItems + pageSize - 1) / pageSize
}

// Result is one page of an in-memory listing with its control.
type Result[T any] struct {
	Items      []T      `json:"items"`
	Total      int      `json:"total"`
	Pagination Controls `json:"pagination"`
}

// Paginate cuts the requested page out of items. Out-of-range pages are clamped.
func Paginate[T any](items []T, req Request) Result[T] {
	req = req.Normalize()
	total := len(items)
	ctrl := ClampedControls(req.Page, TotalPages(total, req.PageSize))

	start := (ctrl.CurrentPage - 1) * req.PageSize
	end := start + req.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	page := make([]T, 0, end-start)
	page = append(page, items[start:end]...)
	return Result[T]{Items: page, Total: total, Pagination: ctrl}
}
