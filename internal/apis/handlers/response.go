package handlers

import (
	"agenthub/internal/apis/dtos"
	"agenthub/internal/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, statusCode uint, err error) {
	errorMsg := err.Error()
	c.JSON(int(statusCode), dtos.Response{
		Success: false,
		Error:   &errorMsg,
	})
}

func writeSuccess(c *gin.Context, statusCode uint, data interface{}) {
	c.JSON(int(statusCode), dtos.Response{
		Success: true,
		Data:    data,
	})
}

// writeBareError answers with the {error, details} shape of the proxy
// and link preview endpoints.
func writeBareError(c *gin.Context, err error) {
	var httpErr *services.HTTPError
	if errors.As(err, &httpErr) {
		c.JSON(httpErr.Status, dtos.ProxyError{Error: httpErr.Message, Details: httpErr.Details})
		return
	}
	c.JSON(http.StatusInternalServerError, dtos.ProxyError{Error: "internal server error", Details: err.Error()})
}
