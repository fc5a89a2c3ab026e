package dto

// ErrorResponse is the uniform error envelope. Details carries
// per-field validation messages when the handler has them.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginatedResponse wraps one page of results together with the paging
// bookkeeping the client needs to fetch the rest.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// PaginationParams come from the page and per_page query parameters.
type PaginationParams struct {
	Page    int
	PerPage int
}

// Normalize clamps the parameters to sane values: pages start at 1 and
// page size defaults to 20, capped at 100.
func (p *PaginationParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 20
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}
