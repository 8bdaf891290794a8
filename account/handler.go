package account

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/librosapp/authkit/errors"
	"github.com/librosapp/authkit/logger"
	"github.com/librosapp/authkit/server"
	"github.com/librosapp/authkit/server/middleware"
	"github.com/librosapp/authkit/validation"
)

// Handler exposes Service over HTTP.
type Handler struct {
	svc      *Service
	verifier middleware.TokenVerifier
	log      *logger.Logger
}

// NewHandler returns a Handler. verifier guards the profile route.
func NewHandler(svc *Service, verifier middleware.TokenVerifier, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{svc: svc, verifier: verifier, log: log}
}

// Mount registers the routes under /api/auth. Register and login share
// one per-IP rate limiter; the profile route is limited per user. The
// limiters' sweepers stop with ctx.
func (h *Handler) Mount(ctx context.Context, r gin.IRouter, limit middleware.RateLimitConfig) {
	g := r.Group("/api/auth")
	limited := middleware.RateLimit(ctx, limit)
	perUser := middleware.RateLimit(ctx, middleware.RateLimitConfig{
		RequestsPerMinute: limit.RequestsPerMinute,
		KeyFunc:           middleware.UserBasedKey,
	})

	g.POST("/register", limited, h.register)
	g.POST("/login", limited, h.login)
	g.GET("/me", middleware.GinAuth(h.verifier, h.log), perUser, h.me)
}

func (h *Handler) register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		server.RespondError(c, apperrors.Validation(validation.MsgInvalidInput))
		return
	}
	sess, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		server.RespondError(c, err)
		return
	}
	server.RespondSuccess(c, http.StatusCreated, gin.H{"token": sess.Token, "user": sess.User})
}

func (h *Handler) login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		server.RespondError(c, apperrors.Validation(validation.MsgInvalidInput))
		return
	}
	sess, err := h.svc.Login(c.Request.Context(), in)
	if err != nil {
		server.RespondError(c, err)
		return
	}
	server.RespondSuccess(c, http.StatusOK, gin.H{"token": sess.Token, "user": sess.User})
}

func (h *Handler) me(c *gin.Context) {
	claims, _ := middleware.CurrentUser(c)
	profile, err := h.svc.Profile(c.Request.Context(), claims)
	if err != nil {
		server.RespondError(c, err)
		return
	}
	server.RespondSuccess(c, http.StatusOK, gin.H{"user": profile})
}
