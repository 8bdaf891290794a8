package password

import "fmt"

const (
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 8
	minKeyLength   uint32 = 16
)

// Config configures argon2id cost parameters.
// Loadable from YAML/env via mapstructure tags.
type Config struct {
	// Memory is the memory cost in KiB (default: 65536 = 64MiB).
	Memory uint32 `mapstructure:"memory_cost"`

	// Time is the number of iterations (default: 3).
	Time uint32 `mapstructure:"time_cost"`

	// Parallelism is the number of lanes (default: 1).
	Parallelism uint8 `mapstructure:"parallelism"`

	// SaltLength is the random salt size in bytes (default: 16).
	SaltLength uint32 `mapstructure:"salt_length"`

	// KeyLength is the derived digest size in bytes (default: 32).
	KeyLength uint32 `mapstructure:"key_length"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Memory == 0 {
		c.Memory = 64 * 1024
	}
	if c.Time == 0 {
		c.Time = 3
	}
	if c.Parallelism == 0 {
		c.Parallelism = 1
	}
	if c.SaltLength == 0 {
		c.SaltLength = 16
	}
	if c.KeyLength == 0 {
		c.KeyLength = 32
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Parallelism < minParallelism {
		return fmt.Errorf("parallelism must be >= %d (got: %d)", minParallelism, c.Parallelism)
	}
	if c.Memory < 8*uint32(c.Parallelism) {
		return fmt.Errorf("memory_cost must be >= %d KiB (got: %d)", 8*uint32(c.Parallelism), c.Memory)
	}
	if c.Time < minTimeCost {
		return fmt.Errorf("time_cost must be >= %d (got: %d)", minTimeCost, c.Time)
	}
	if c.SaltLength < minSaltLength {
		return fmt.Errorf("salt_length must be >= %d (got: %d)", minSaltLength, c.SaltLength)
	}
	if c.KeyLength < minKeyLength {
		return fmt.Errorf("key_length must be >= %d (got: %d)", minKeyLength, c.KeyLength)
	}
	return nil
}
