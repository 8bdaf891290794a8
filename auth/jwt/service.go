// Package jwt issues and verifies the signed, time-limited identity tokens
// used by the auth service.
//
// Verify is the canonical operation and returns either decoded Claims or a
// *VerifyError tagged with a Kind. VerifyOrNil and Validate are projections
// kept for call sites that only need "valid or not".
//
// Usage:
//
//	svc, err := jwt.NewService(jwt.Config{Secret: os.Getenv("JWT_SECRET")})
//	token, err := svc.Issue(jwt.Identity{ID: id, Email: email, Name: name})
//	claims, err := svc.Verify(token)
//	switch kind, _ := jwt.ErrorKind(err); kind {
//	case jwt.KindExpiredToken:
//	    ...
//	}
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Service issues and verifies tokens. It is immutable after construction
// and safe for concurrent use.
type Service struct {
	cfg    Config
	key    []byte
	ttl    time.Duration
	now    func() time.Time
	parser *gojwt.Parser
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService validates cfg and builds a Service. It returns ErrSecretMissing
// when no secret is configured so the process can refuse to start.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Service{
		cfg: cfg,
		key: []byte(cfg.Secret),
		ttl: cfg.TTL(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	parserOpts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{cfg.signingMethod().Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, gojwt.WithIssuer(cfg.Issuer))
	}
	s.parser = gojwt.NewParser(parserOpts...)

	return s, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for id that expires after the configured lifetime.
func (s *Service) Issue(id Identity) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: id.ID,
		Email:  id.Email,
		Name:   id.Name,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   id.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and time claims of token and decodes it.
// Every failure is a *VerifyError; Verify never panics.
func (s *Service) Verify(token string) (claims *Claims, err error) {
	if token == "" {
		return nil, verifyErr(KindMissingToken, "")
	}
	if len(s.key) == 0 {
		return nil, verifyErr(KindSecretMissing, "")
	}

	defer func() {
		if r := recover(); r != nil {
			claims, err = nil, verifyErr(KindInvalidToken, "token could not be parsed")
		}
	}()

	parsed, perr := s.parser.ParseWithClaims(token, &Claims{}, s.keyFunc)
	if perr != nil {
		return nil, classify(perr)
	}

	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, verifyErr(KindInvalidToken, "unexpected claims")
	}
	if !c.Complete() {
		return nil, verifyErr(KindInvalidToken, "incomplete payload")
	}
	return c, nil
}

// VerifyOrNil returns the claims of a valid token and nil otherwise.
func (s *Service) VerifyOrNil(token string) *Claims {
	claims, err := s.Verify(token)
	if err != nil {
		return nil
	}
	return claims
}

// Validate is VerifyOrNil with an explicit re-check of the identity fields.
func (s *Service) Validate(token string) *Claims {
	claims := s.VerifyOrNil(token)
	if !claims.Complete() {
		return nil
	}
	return claims
}

func (s *Service) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return s.key, nil
}

// classify maps golang-jwt errors onto the Kind taxonomy. The library
// verifies the signature before time claims, so expired and not-before
// are only reported for authentic tokens.
func classify(err error) *VerifyError {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return verifyErr(KindExpiredToken, "")
	case errors.Is(err, gojwt.ErrTokenNotValidYet):
		return verifyErr(KindNotBeforeToken, "")
	case errors.Is(err, gojwt.ErrTokenMalformed):
		return verifyErr(KindInvalidToken, "malformed token")
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return verifyErr(KindInvalidToken, "signature invalid")
	case errors.Is(err, gojwt.ErrTokenUnverifiable):
		return verifyErr(KindInvalidToken, "unverifiable token")
	case errors.Is(err, gojwt.ErrTokenRequiredClaimMissing):
		return verifyErr(KindInvalidToken, "required claim missing")
	case errors.Is(err, gojwt.ErrTokenInvalidIssuer):
		return verifyErr(KindInvalidToken, "invalid issuer")
	default:
		return verifyErr(KindInvalidToken, "invalid claims")
	}
}
