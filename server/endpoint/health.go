// Package endpoint provides the operational HTTP endpoints mounted next to
// the API routes.
package endpoint

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Status is the health of one dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// Check is the result of probing one dependency.
type Check struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker returns health status for the service dependencies.
type HealthChecker func(ctx context.Context) []Check

// PingChecker builds a HealthChecker from named ping functions. Each ping
// gets its own timeout; results are ordered by name.
func PingChecker(timeout time.Duration, pings map[string]func(context.Context) error) HealthChecker {
	return func(ctx context.Context) []Check {
		checks := make([]Check, 0, len(pings))
		for name, ping := range pings {
			pctx, cancel := context.WithTimeout(ctx, timeout)
			err := ping(pctx)
			cancel()

			ch := Check{Name: name, Status: StatusHealthy}
			if err != nil {
				ch.Status = StatusUnhealthy
				ch.Message = err.Error()
			}
			checks = append(checks, ch)
		}
		sort.Slice(checks, func(i, j int) bool { return checks[i].Name < checks[j].Name })
		return checks
	}
}

func healthy(checks []Check) bool {
	for _, ch := range checks {
		if ch.Status == StatusUnhealthy {
			return false
		}
	}
	return true
}

// Health returns a handler that reports service health including
// dependency statuses.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var checks []Check
		if checker != nil {
			checks = checker(c.Request.Context())
		}

		status, httpStatus := StatusHealthy, http.StatusOK
		if !healthy(checks) {
			status, httpStatus = StatusUnhealthy, http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": checks,
		})
	}
}
