// Command librosauth serves the Libros account API: registration, login
// and the authenticated profile route.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/librosapp/authkit/account"
	"github.com/librosapp/authkit/auth"
	"github.com/librosapp/authkit/auth/jwt"
	"github.com/librosapp/authkit/auth/password"
	"github.com/librosapp/authkit/config"
	"github.com/librosapp/authkit/logger"
	"github.com/librosapp/authkit/server"
	"github.com/librosapp/authkit/server/endpoint"
	"github.com/librosapp/authkit/users"
	"github.com/librosapp/authkit/version"
)

const serviceName = "librosauth"

// AppConfig is the full service configuration.
type AppConfig struct {
	config.ServiceConfig `mapstructure:",squash"`
	Auth                 auth.Config   `mapstructure:"auth"`
	Server               server.Config `mapstructure:"server"`
	Users                users.Config  `mapstructure:"users"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Users.ApplyDefaults()
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Users.Validate()
}

// envAliases keeps the variable names the existing deployments set.
var envAliases = map[string]string{
	"JWT_SECRET":         "auth.jwt.secret",
	"JWT_EXPIRES_IN":     "auth.jwt.expires_in",
	"ARGON2_MEMORY_COST": "auth.password.memory_cost",
	"ARGON2_TIME_COST":   "auth.password.time_cost",
	"ARGON2_PARALLELISM": "auth.password.parallelism",
	"PORT":               "server.port",
	"DATABASE_PATH":      "users.database.dsn",
	"REDIS_ADDR":         "users.redis.addr",
}

func loadConfig(opts ...config.LoaderOption) (*AppConfig, error) {
	var cfg AppConfig
	opts = append([]config.LoaderOption{config.WithEnvAliases(envAliases)}, opts...)
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Init(&cfg.Logging)
	log := logger.GetGlobalLogger()

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", logger.ErrorFields("validate", err))
		return err
	}

	hasher, err := password.NewHasher(cfg.Auth.Password)
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}
	tokens, err := jwt.NewService(cfg.Auth.JWT)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closer, err := users.Open(ctx, cfg.Users, log)
	if err != nil {
		return fmt.Errorf("user store: %w", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn("User store close failed", logger.ErrorFields("close", err))
		}
	}()

	srv := server.New(cfg.Server, log)
	srv.ApplyDefaults(cfg.Name, endpoint.PingChecker(2*time.Second, map[string]func(context.Context) error{
		"users": store.Ping,
	}))
	svc := account.NewService(store, hasher, tokens, log)
	account.NewHandler(svc, tokens, log).Mount(ctx, srv.GinEngine(), cfg.Server.RateLimit)

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("Service started", map[string]interface{}{
		"version":     version.Get().Short(),
		"environment": cfg.Environment,
		"addr":        srv.Addr(),
		"auth":        cfg.Auth.Describe(),
		"users":       cfg.Users.Driver,
	})

	<-ctx.Done()
	log.Info("Shutdown signal received")
	stop()

	return srv.Stop(context.Background())
}
