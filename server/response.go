package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/librosapp/authkit/errors"
)

// RespondSuccess sends status with a flat success envelope:
// {"success": true, ...fields}. A "success" key in fields is overridden.
func RespondSuccess(c *gin.Context, status int, fields gin.H) {
	body := make(gin.H, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	c.JSON(status, body)
}

// RespondError inspects err: if it is an *apperrors.AppError the status and
// structured body are derived automatically; otherwise a generic 500 is sent.
// The cause is never serialized.
func RespondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.Internal(err).ToResponse())
}
