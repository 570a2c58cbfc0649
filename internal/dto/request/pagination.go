package request

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// PaginatedRequest is the page/per_page query of list endpoints. Pages are 1-based.
type PaginatedRequest struct {
	Page    int `json:"page" validate:"min=1"`
	PerPage int `json:"per_page" validate:"min=1,max=100"`
}

// Normalize fills defaults and clamps per_page to MaxPerPage.
func (p PaginatedRequest) Normalize() PaginatedRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
	return p
}

func (p PaginatedRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

func (p PaginatedRequest) Limit() int {
	return p.Normalize().PerPage
}
