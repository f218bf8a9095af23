package dto

// APIResponse is the standard envelope for API responses. Exactly one of
// Data and Error is set.
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}
