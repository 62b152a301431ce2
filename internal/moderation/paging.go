package moderation

// PageRequest is a 1-indexed pagination request.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize fills defaults and bounds-checks the request. A zero page or
// size means "use the default"; anything else out of range is rejected so
// callers never silently get a different window than they asked for.
func (p PageRequest) Normalize(defaultSize, maxSize int) (PageRequest, error) {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Page < 1 {
		return p, NewValidationError("page", "must be at least 1")
	}
	if p.PageSize == 0 {
		p.PageSize = defaultSize
	}
	if p.PageSize < 1 || p.PageSize > maxSize {
		return p, NewValidationError("limit", "must be between 1 and the configured maximum")
	}
	return p, nil
}

// Offset converts the request into a row offset.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages computes the page count for a filtered total.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
