package jwt

import "errors"

// Kind classifies a verification failure. The set is closed; callers
// switch over it exhaustively.
type Kind int

const (
	KindMissingToken Kind = iota + 1
	KindSecretMissing
	KindExpiredToken
	KindNotBeforeToken
	KindInvalidToken
)

// String returns the snake_case name used in logs.
func (k Kind) String() string {
	switch k {
	case KindMissingToken:
		return "missing_token"
	case KindSecretMissing:
		return "secret_missing"
	case KindExpiredToken:
		return "expired_token"
	case KindNotBeforeToken:
		return "not_before_token"
	case KindInvalidToken:
		return "invalid_token"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against a *VerifyError.
var (
	ErrMissingToken   = errors.New("jwt: token missing")
	ErrExpiredToken   = errors.New("jwt: token expired")
	ErrNotBeforeToken = errors.New("jwt: token not valid yet")
	ErrInvalidToken   = errors.New("jwt: token invalid")
)

// VerifyError is the only error type returned by Service.Verify.
// Reason is a diagnostic for logs; it never contains the secret.
type VerifyError struct {
	Kind   Kind
	Reason string
}

func (e *VerifyError) Error() string {
	if e.Reason != "" {
		return "jwt: " + e.Kind.String() + ": " + e.Reason
	}
	return "jwt: " + e.Kind.String()
}

// Is lets errors.Is match a VerifyError against the kind sentinels.
func (e *VerifyError) Is(target error) bool {
	switch target {
	case ErrMissingToken:
		return e.Kind == KindMissingToken
	case ErrSecretMissing:
		return e.Kind == KindSecretMissing
	case ErrExpiredToken:
		return e.Kind == KindExpiredToken
	case ErrNotBeforeToken:
		return e.Kind == KindNotBeforeToken
	case ErrInvalidToken:
		return e.Kind == KindInvalidToken
	}
	return false
}

// ErrorKind extracts the Kind from err. The second result is false when err
// is not a *VerifyError.
func ErrorKind(err error) (Kind, bool) {
	var ve *VerifyError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return 0, false
}

func verifyErr(kind Kind, reason string) *VerifyError {
	return &VerifyError{Kind: kind, Reason: reason}
}
