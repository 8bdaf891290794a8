package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/librosapp/authkit/errors"
	"github.com/librosapp/authkit/logger"
)

// Recovery returns middleware that recovers from panics in later handlers,
// logs the stack and answers 500 with the failure envelope.
func Recovery(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logPanic(log, r, err)
					writeJSON(w, http.StatusInternalServerError, apperrors.Internal(nil).ToResponse())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// GinRecovery is Recovery for the Gin engine.
func GinRecovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logPanic(log, c.Request, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.Internal(nil).ToResponse())
			}
		}()
		c.Next()
	}
}

func logPanic(log *logger.Logger, r *http.Request, err interface{}) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log.WithContext(r.Context()).Error("Panic recovered", map[string]interface{}{
		"error":  fmt.Sprintf("%v", err),
		"stack":  string(debug.Stack()),
		"path":   r.URL.Path,
		"method": r.Method,
	})
}
