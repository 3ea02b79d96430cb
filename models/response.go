package models

// Response is the envelope every endpoint returns. Exactly one of Data and
// Error is set: success carries data with a null error, failure the reverse.
type Response struct {
	Data    any     `json:"data"`
	Error   *string `json:"error"`
	Warning string  `json:"warning,omitempty"`
}

// ListResponse is the Data payload of list endpoints.
type ListResponse[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

func OK(data any) Response {
	return Response{Data: data}
}

func Fail(message string) Response {
	return Response{Error: &message}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UploadResult struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}
