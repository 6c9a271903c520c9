package port

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number  int
	PerPage int
}

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Number - 1) * n.PerPage
}

func (p Page) Limit() int {
	return p.Normalize().PerPage
}

// TotalPages returns the number of pages needed for total items.
func (p Page) TotalPages(total int) int {
	per := p.Limit()
	if total == 0 {
		return 0
	}
	return (total + per - 1) / per
}
