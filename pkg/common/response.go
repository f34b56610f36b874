package common

import (
	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint responds with
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse writes a 200 response with the given payload
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{
		Success: true,
		Data:    data,
	})
}

// CreatedResponse writes a 201 response with the given payload
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(201, APIResponse{
		Success: true,
		Data:    data,
	})
}

// ErrorResponse writes an error response with the given status code
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   message,
	})
}
