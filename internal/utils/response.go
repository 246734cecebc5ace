package utils

import "github.com/gin-gonic/gin"

// ErrorResponse is the JSON failure body used across the API.
// Detalle carries the underlying error text for diagnostics when present.
type ErrorResponse struct {
	Error   string `json:"error"`
	Detalle string `json:"detalle,omitempty"`
}

// MessageResponse is the JSON body for plain confirmation messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// Error writes a failure response with the given status and message.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// ErrorDetail writes a failure response including the underlying error text.
func ErrorDetail(c *gin.Context, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Detalle = err.Error()
	}
	c.JSON(status, resp)
}

// Message writes a confirmation message with the given status.
func Message(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Message: message})
}
