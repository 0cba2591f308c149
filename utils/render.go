package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RenderError writes the HTML error page and stops the handler chain.
func RenderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
	c.Abort()
}
