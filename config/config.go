// Package config defines the environment-driven application configuration.
//
// Values are parsed with github.com/caarlos0/env. Each domain keeps its
// settings in its own file: auth.go for authentication, database.go for
// Postgres and Redis, http.go for the API server, services.go for service
// modes and the maintenance worker, observability.go for metrics and
// failure notifications.
package config

import (
	"os"
	"strings"
)

// AppConfig composes every domain-specific configuration section.
type AppConfig struct {
	// IsDev relaxes auth and enables seed data. Set DEV=true, or
	// APP_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth AuthConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP HTTPConfig

	// Services is a comma-delimited list of enabled services.
	// Valid values: http, maintenance
	Services string `env:"SERVICES" envDefault:"http"`

	Maintenance MaintenanceConfig

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to values loaded from the environment. Call it
// once, right after parsing.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.HTTP.Sanitize()
	c.Maintenance.Sanitize()
	c.Observability.Sanitize()

	if !c.IsDev {
		appEnv := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}

// GetEnabledServices parses the Services field into the set of enabled modes.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled reports whether the HTTP API service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	return c.serviceOn(ServiceModeHTTP)
}

// IsMaintenanceEnabled reports whether the maintenance worker is enabled.
func (c *AppConfig) IsMaintenanceEnabled() bool {
	return c.serviceOn(ServiceModeMaintenance)
}

func (c *AppConfig) serviceOn(mode ServiceMode) bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[mode]
}
