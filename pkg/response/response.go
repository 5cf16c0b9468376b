package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the wire format for every endpoint:
// success mirrors the HTTP status class, data is null unless the
// operation produced a payload.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Success writes a 2xx envelope.
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Error writes a non-2xx envelope. details carries field-level validation
// errors when present.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, Envelope{Success: false, Message: message, Errors: details})
}

// AbortError writes the envelope and stops the middleware chain.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
