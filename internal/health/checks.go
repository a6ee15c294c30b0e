package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/ecommerce-demo-backend/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const (
	componentName    = "ecommerce-demo-backend"
	componentVersion = "1.0.0"
)

// Option adds or replaces checks, mainly for tests.
type Option func(*[]health.Config)

func WithCheck(name string, timeout time.Duration, check func(ctx context.Context) error) Option {
	return func(checks *[]health.Config) {
		*checks = append(*checks, health.Config{Name: name, Timeout: timeout, Check: check})
	}
}

// NewHealthHandler checks postgres and redis. Passing options replaces the default checks.
func NewHealthHandler(cfg *config.Config, opts ...Option) (*health.Health, error) {
	var checks []health.Config

	if len(opts) == 0 {
		checks = defaultChecks(cfg)
	}

	for _, opt := range opts {
		opt(&checks)
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    componentName,
			Version: componentVersion,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

func defaultChecks(cfg *config.Config) []health.Config {
	return []health.Config{
		{
			Name:    "database",
			Timeout: 3 * time.Second,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		},
		{
			Name:    "redis",
			Timeout: 2 * time.Second,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		},
	}
}
