// Package users persists accounts for the auth service.
//
// Store has three backends selected by Config.Driver: an in-process map
// (memory), GORM over sqlite (sqlite) and Redis (redis). Every backend
// enforces email uniqueness atomically and returns ErrEmailTaken on a
// duplicate Create.
package users

import (
	"context"
	"fmt"
	"io"

	"github.com/librosapp/authkit/database"
	"github.com/librosapp/authkit/logger"
	"github.com/librosapp/authkit/redis"
)

// Store persists users. Implementations are safe for concurrent use.
type Store interface {
	// Create assigns an ID when u.ID is empty, sets timestamps and stores u.
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// Driver names accepted by Config.Driver.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config selects and configures the store backend.
type Config struct {
	// Driver is one of memory, sqlite or redis (default: sqlite).
	Driver   string          `mapstructure:"driver"`
	Database database.Config `mapstructure:"database"`
	Redis    redis.Config    `mapstructure:"redis"`
}

// ApplyDefaults fills in zero-value fields for the selected backend.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverSQLite
	}
	switch c.Driver {
	case DriverSQLite:
		c.Database.ApplyDefaults()
	case DriverRedis:
		c.Redis.ApplyDefaults()
	}
}

// Validate checks the driver and the selected backend's settings.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverMemory:
		return nil
	case DriverSQLite:
		if err := c.Database.Validate(); err != nil {
			return fmt.Errorf("users.database: %w", err)
		}
		return nil
	case DriverRedis:
		if err := c.Redis.Validate(); err != nil {
			return fmt.Errorf("users.redis: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("users: unknown driver %q", c.Driver)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Open builds the configured Store. The returned Closer releases the
// backend connection and is never nil.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (Store, io.Closer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	switch cfg.Driver {
	case DriverSQLite:
		db, err := database.Open(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, err
		}
		store, err := NewGormStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store, db, nil
	case DriverRedis:
		client, err := redis.New(cfg.Redis, log)
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return NewRedisStore(client), client, nil
	default:
		return NewMemoryStore(), closerFunc(func() error { return nil }), nil
	}
}
