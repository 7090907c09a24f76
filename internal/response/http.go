package response

type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// ErrorResponse is the structured error envelope for aggregation endpoints:
// a stable machine-readable code plus a human message.
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error codes returned by the financial endpoints.
const (
	CodeNoClientCode   = "NO_CLIENT_CODE"
	CodeNoProjectMatch = "NO_PROJECT_MATCH"
	CodeNotFound       = "NOT_FOUND"
	CodeBadRequest     = "BAD_REQUEST"
	CodeInternal       = "INTERNAL"
)
