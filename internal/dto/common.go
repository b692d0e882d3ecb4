package dto

// Response is the envelope returned by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK wraps a payload in a successful envelope.
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// OKWithMessage wraps a payload in a successful envelope with a message.
func OKWithMessage(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail creates an unsuccessful envelope with the given message.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListParams carries page-number pagination parameters for list endpoints.
type ListParams struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// Normalize clamps the parameters to sane values.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

// Offset returns the SQL offset for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ListMeta is the pagination metadata attached to list responses.
type ListMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int64 `json:"totalPages"`
}

// NewListMeta builds pagination metadata from the params and a total count.
func NewListMeta(p ListParams, totalCount int64) ListMeta {
	totalPages := totalCount / int64(p.PageSize)
	if totalCount%int64(p.PageSize) != 0 {
		totalPages++
	}
	return ListMeta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
