package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meddesk/clinic-api/pkg/apperr"
)

// Response is the envelope on every API reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, &Response{Success: true, Data: data})
}

// Error writes the error with its application status mapping: 404 for
// missing resources, 500 for storage failures, 422 for everything the
// domain rejected. Non-application errors become opaque 500s.
func Error(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.StatusCode(), &Response{Success: false, Message: appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, &Response{Success: false, Message: "internal server error"})
}

// BindError reports a malformed or invalid request body.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, &Response{Success: false, Message: err.Error()})
}
