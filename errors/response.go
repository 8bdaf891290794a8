package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON body returned to clients on failure.
// Message and Error always carry the same text.
type ErrorResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Error   string         `json:"error"`
	Code    ErrorCode      `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: e.Message,
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// NewResponse builds a bare failure envelope from a message.
func NewResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message, Error: message}
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
