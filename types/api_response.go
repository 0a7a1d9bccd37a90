package types

// Response is the standard success envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// PaginatedResponse wraps a list payload with paging metadata.
type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// Success wraps data in the standard envelope.
func Success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// Paginated wraps a list in the paginated envelope.
func Paginated(data interface{}, limit, offset, total int) PaginatedResponse {
	return PaginatedResponse{
		Success:    true,
		Data:       data,
		Pagination: Pagination{Limit: limit, Offset: offset, Total: total},
	}
}
