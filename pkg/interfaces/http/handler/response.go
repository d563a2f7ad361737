package handler

import (
	"github.com/gin-gonic/gin"
)

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success   bool      `json:"success"`
	Error     ErrorInfo `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeDataUnavailable  = "DATA_UNAVAILABLE"
	CodeDocumentDecoding = "DOCUMENT_DECODING_FAILED"
	CodeRunFailed        = "RATEIO_FAILED"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error: ErrorInfo{
			Code:    code,
			Message: message,
		},
		RequestID: c.GetString("request_id"),
	})
}
