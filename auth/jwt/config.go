package jwt

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines supported JWT signing algorithms.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// DefaultExpiresIn is the token lifetime used when none is configured.
const DefaultExpiresIn = "7d"

// ErrSecretMissing is returned by NewService when no signing secret is set.
var ErrSecretMissing = errors.New("jwt: secret is required")

// Config configures the token service.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// Secret is the HMAC signing key (required).
	Secret string `mapstructure:"secret"`

	// ExpiresIn is the token lifetime (default: "7d"). Accepts Go durations
	// ("12h"), a day suffix ("7d") or a bare number of seconds ("3600").
	ExpiresIn string `mapstructure:"expires_in"`

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `mapstructure:"method"`

	// Issuer is the "iss" claim (optional). When set, tokens from other
	// issuers are rejected.
	Issuer string `mapstructure:"issuer"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if strings.TrimSpace(c.ExpiresIn) == "" {
		c.ExpiresIn = DefaultExpiresIn
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return ErrSecretMissing
	}
	switch c.Method {
	case HS256, HS384, HS512:
	default:
		return fmt.Errorf("jwt: unsupported signing method: %s", c.Method)
	}
	if _, err := ParseExpiry(c.ExpiresIn); err != nil {
		return err
	}
	return nil
}

// TTL returns the parsed token lifetime. Call after Validate.
func (c *Config) TTL() time.Duration {
	d, _ := ParseExpiry(c.ExpiresIn)
	return d
}

// ParseExpiry parses a token lifetime. The result must be positive.
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var (
		d   time.Duration
		err error
	)
	switch {
	case s == "":
		err = errors.New("empty value")
	case isDigits(s):
		var n int64
		n, err = strconv.ParseInt(s, 10, 64)
		if err == nil {
			d, err = scale(n, time.Second)
		}
	case strings.HasSuffix(s, "d") && isDigits(s[:len(s)-1]):
		var n int64
		n, err = strconv.ParseInt(s[:len(s)-1], 10, 64)
		if err == nil {
			d, err = scale(n, 24*time.Hour)
		}
	default:
		d, err = time.ParseDuration(s)
	}
	if err != nil {
		return 0, fmt.Errorf("jwt: invalid expires_in %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("jwt: expires_in must be positive (got: %q)", s)
	}
	return d, nil
}

// scale multiplies n by unit, refusing results a Duration cannot hold.
func scale(n int64, unit time.Duration) (time.Duration, error) {
	if n > math.MaxInt64/int64(unit) {
		return 0, errors.New("value out of range")
	}
	return time.Duration(n) * unit, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// signingMethod returns the golang-jwt SigningMethod instance.
func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}
