package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeMaintenance runs the periodic maintenance worker (reset
	// token purge, company drive deadline enforcement).
	ServiceModeMaintenance ServiceMode = "maintenance"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeHTTP, ServiceModeMaintenance}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeMaintenance:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, maintenance)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// MaintenanceConfig contains maintenance worker configuration.
type MaintenanceConfig struct {
	// Interval is the maintenance tick interval.
	Interval time.Duration `env:"MAINTENANCE_INTERVAL" envDefault:"5m"`

	// ResetTokenMaxAge is how long expired or used password reset tokens are
	// kept before deletion. Retention aids incident review.
	ResetTokenMaxAge time.Duration `env:"MAINTENANCE_RESET_TOKEN_MAX_AGE" envDefault:"168h"` // 7 days

	// CloseExpiredDrives controls whether company drives whose application
	// deadline has passed are automatically moved to the closed status.
	CloseExpiredDrives bool `env:"MAINTENANCE_CLOSE_EXPIRED_DRIVES" envDefault:"true"`

	// BatchSize is the maximum number of rows to process per operation.
	// Batching prevents long locks and I/O spikes on large tables.
	BatchSize int `env:"MAINTENANCE_BATCH_SIZE" envDefault:"500"`
}

// Sanitize applies guardrails to maintenance configuration values.
func (m *MaintenanceConfig) Sanitize() {
	// Enforce minimum intervals to prevent excessive database load
	if m.Interval < time.Minute {
		m.Interval = time.Minute
	}
	if m.ResetTokenMaxAge < time.Hour {
		m.ResetTokenMaxAge = time.Hour
	}
	if m.BatchSize < 1 {
		m.BatchSize = 1
	}
	if m.BatchSize > 10000 {
		m.BatchSize = 10000
	}
}
