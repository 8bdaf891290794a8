package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/librosapp/authkit/auth/authctx"
	"github.com/librosapp/authkit/auth/jwt"
	apperrors "github.com/librosapp/authkit/errors"
	"github.com/librosapp/authkit/logger"
)

// Client-facing messages of the auth guard. They are the only text a client
// sees on rejection; the failure kind is logged instead.
const (
	MsgTokenRequired = "Token de acceso requerido"
	MsgTokenInvalid  = "Token inválido o expirado"
	MsgAuthError     = "Error de autenticación"
)

// UserKey is the Gin context key holding the verified *jwt.Claims.
const UserKey = "user"

const bearerPrefix = "Bearer "

// TokenVerifier verifies a raw token and returns its claims.
// *jwt.Service satisfies it.
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// TokenVerifierFunc adapts an ordinary function to the TokenVerifier interface.
type TokenVerifierFunc func(token string) (*jwt.Claims, error)

// Verify implements TokenVerifier.
func (f TokenVerifierFunc) Verify(token string) (*jwt.Claims, error) {
	return f(token)
}

// ExtractBearerToken returns everything after a literal, case-sensitive
// "Bearer " prefix. The remainder is not trimmed, so "Bearer  abc" yields
// " abc". The boolean is false when the header is empty or lacks the prefix.
func ExtractBearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	return header[len(bearerPrefix):], true
}

// authResult is the terminal state of one authentication attempt.
// msg is empty on success.
type authResult struct {
	claims *jwt.Claims
	msg    string
	kind   string
	reason string
}

// authenticate runs extraction and verification for one header value.
// A panic in either step is converted to MsgAuthError.
func authenticate(v TokenVerifier, header string) (res authResult) {
	defer func() {
		if r := recover(); r != nil {
			res = authResult{msg: MsgAuthError, kind: "panic", reason: fmt.Sprint(r)}
		}
	}()

	token, ok := ExtractBearerToken(header)
	switch {
	case header == "":
		return authResult{msg: MsgTokenRequired, kind: "no_header"}
	case !ok:
		return authResult{msg: MsgTokenRequired, kind: "no_bearer"}
	case token == "":
		return authResult{msg: MsgTokenRequired, kind: jwt.KindMissingToken.String()}
	}

	claims, err := v.Verify(token)
	if err != nil {
		res = authResult{msg: MsgTokenInvalid, kind: jwt.KindInvalidToken.String(), reason: err.Error()}
		if k, ok := jwt.ErrorKind(err); ok {
			res.kind = k.String()
		}
		return res
	}
	if !claims.Complete() {
		return authResult{msg: MsgTokenInvalid, kind: jwt.KindInvalidToken.String(), reason: "incomplete payload"}
	}
	return authResult{claims: claims}
}

func logRejection(log *logger.Logger, r *http.Request, res authResult) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	fields := map[string]interface{}{
		logger.FieldMethod: r.Method,
		logger.FieldPath:   r.URL.Path,
		logger.FieldKind:   res.kind,
	}
	if res.reason != "" {
		fields[logger.FieldReason] = res.reason
	}
	if res.msg == MsgAuthError {
		log.WithContext(r.Context()).Error("Authentication failed", fields)
		return
	}
	log.WithContext(r.Context()).Debug("Request rejected", fields)
}

// withIdentity attaches claims to the request context for handlers and logs.
func withIdentity(r *http.Request, claims *jwt.Claims) *http.Request {
	ctx := authctx.Set(r.Context(), claims)
	ctx = logger.ContextWithUserID(ctx, claims.UserID)
	return r.WithContext(ctx)
}

// RequireAuth returns middleware that only lets requests with a valid
// Bearer token through. Rejections are answered with 401 and the standard
// failure envelope; the next handler is never invoked for them. On success
// the claims are available via authctx.Get and next runs exactly once.
func RequireAuth(v TokenVerifier, log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := authenticate(v, r.Header.Get("Authorization"))
			if res.msg != "" {
				logRejection(log, r, res)
				writeJSON(w, http.StatusUnauthorized, apperrors.NewResponse(res.msg))
				return
			}
			next.ServeHTTP(w, withIdentity(r, res.claims))
		})
	}
}

// AuthenticatedRequest is a request that passed RequireAuth.
type AuthenticatedRequest struct {
	*http.Request
	Identity *jwt.Claims
}

// Guard wraps a handler that needs the verified identity as a typed value.
func Guard(v TokenVerifier, log *logger.Logger, fn func(http.ResponseWriter, *AuthenticatedRequest)) http.Handler {
	return RequireAuth(v, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fn(w, &AuthenticatedRequest{Request: r, Identity: authctx.MustGet(r.Context())})
	}))
}

// GinAuth is RequireAuth for Gin routes. The claims are stored under UserKey
// in the Gin context and in the request context.
func GinAuth(v TokenVerifier, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := authenticate(v, c.GetHeader("Authorization"))
		if res.msg != "" {
			logRejection(log, c.Request, res)
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.NewResponse(res.msg))
			return
		}
		c.Set(UserKey, res.claims)
		c.Request = withIdentity(c.Request, res.claims)
		c.Next()
	}
}

// CurrentUser returns the claims stored by GinAuth.
func CurrentUser(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok && claims != nil
}
