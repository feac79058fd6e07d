package model

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination describes a page of a listing
type Pagination struct {
	Total          int64 `json:"total"`
	NextOffset     *int  `json:"nextOffset"`
	PreviousOffset *int  `json:"previousOffset"`
	Limit          int   `json:"limit"`
}

// NormalizePage clamps offset and limit to sane values
func NormalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return offset, limit
}

// NewPagination builds pagination info for a page starting at offset
func NewPagination(total int64, offset, limit int) Pagination {
	p := Pagination{Total: total, Limit: limit}
	if int64(offset+limit) < total {
		next := offset + limit
		p.NextOffset = &next
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		p.PreviousOffset = &prev
	}
	return p
}
