package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/librosapp/authkit/version"
)

// Version returns a handler reporting the build information.
func Version(serviceName string) gin.HandlerFunc {
	info := version.Get()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"version": info,
		})
	}
}
