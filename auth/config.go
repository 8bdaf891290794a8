package auth

import (
	"fmt"

	"github.com/librosapp/authkit/auth/jwt"
	"github.com/librosapp/authkit/auth/password"
)

// Config holds all authentication configuration.
// It composes subpackage configs for loading from YAML/env via mapstructure.
type Config struct {
	// JWT configures the token service.
	JWT jwt.Config `mapstructure:"jwt"`

	// Password configures argon2id cost parameters.
	Password password.Config `mapstructure:"password"`
}

// ApplyDefaults sets sensible defaults for both sub-configurations.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks both sub-configurations.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	return nil
}

// Describe returns a human-readable one-liner for the startup summary.
// Example: "JWT(HS256) TTL=7d argon2id(m=65536,t=3,p=1)"
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(%s) TTL=%s argon2id(m=%d,t=%d,p=%d)",
		c.JWT.Method, c.JWT.ExpiresIn,
		c.Password.Memory, c.Password.Time, c.Password.Parallelism)
}
