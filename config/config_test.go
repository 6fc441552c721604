package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[ServiceMode]bool
		wantErr bool
	}{
		{
			name:  "single service - http",
			input: "http",
			want:  map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:  "single service - maintenance",
			input: "maintenance",
			want:  map[ServiceMode]bool{ServiceModeMaintenance: true},
		},
		{
			name:  "all services",
			input: "http,maintenance",
			want:  map[ServiceMode]bool{ServiceModeHTTP: true, ServiceModeMaintenance: true},
		},
		{
			name:  "services with spaces",
			input: " http , maintenance ",
			want:  map[ServiceMode]bool{ServiceModeHTTP: true, ServiceModeMaintenance: true},
		},
		{
			name:  "duplicate services",
			input: "http,http,maintenance",
			want:  map[ServiceMode]bool{ServiceModeHTTP: true, ServiceModeMaintenance: true},
		},
		{name: "empty string", input: "", wantErr: true},
		{name: "only spaces and commas", input: " , , ", wantErr: true},
		{name: "invalid service name", input: "http,invalid-service", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestAppConfigServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		services        string
		wantHTTP        bool
		wantMaintenance bool
	}{
		{services: "http", wantHTTP: true},
		{services: "maintenance", wantMaintenance: true},
		{services: "http,maintenance", wantHTTP: true, wantMaintenance: true},
		{services: "invalid-service"},
	}

	for _, tt := range tests {
		t.Run(tt.services, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services}
			assert.Equal(t, tt.wantHTTP, cfg.IsHTTPServerEnabled())
			assert.Equal(t, tt.wantMaintenance, cfg.IsMaintenanceEnabled())
		})
	}
}

func TestAppConfigParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("AUTH_GROUP_ADMIN_GROUP", "cn=placement-admins,ou=groups,dc=campus,dc=edu")
	t.Setenv("AUTH_GROUP_PLACEMENT_CELL_GROUP", "cn=placement-cell,ou=groups,dc=campus,dc=edu")
	t.Setenv("AUTH_GROUP_STUDENT_GROUP", "cn=students,ou=groups,dc=campus,dc=edu")
	t.Setenv("OAUTH_CLIENT_ID", "portal-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://portal.campus.edu/api/v1/auth/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.campus.edu/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("DEV_AUTH_USER_ID", "dev-user")
	t.Setenv("DEV_AUTH_EMAIL", "dev@campus.edu")
	t.Setenv("DEV_AUTH_ROLES", "admin;student")
	t.Setenv("AUTH_SESSION_TTL", "4h")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))

	assert.Equal(t, AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "portal-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://portal.campus.edu/api/v1/auth/callback",
			Scope:        "openid profile email",
			DiscoveryURL: "https://login.campus.edu/.well-known/openid-configuration",
		},
		DevAuth: DevAuthConfig{
			UserID:    "dev-user",
			Email:     "dev@campus.edu",
			FirstName: "Dev",
			LastName:  "User",
			Roles:     []string{"admin", "student"},
		},
		Groups: GroupMappingConfig{
			AdminGroup:         "cn=placement-admins,ou=groups,dc=campus,dc=edu",
			PlacementCellGroup: "cn=placement-cell,ou=groups,dc=campus,dc=edu",
			StudentGroup:       "cn=students,ou=groups,dc=campus,dc=edu",
		},
		SessionTTL:    4 * time.Hour,
		ResetTokenTTL: 30 * time.Minute,
	}, cfg.Auth)
}

func TestAppConfigDevModeFromAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)

	t.Setenv("APP_ENV", "production")
	cfg = AppConfig{}
	cfg.Sanitize()
	assert.False(t, cfg.IsDev)
}

func TestAuthConfigSanitizeClampsTTLs(t *testing.T) {
	cfg := AuthConfig{
		SessionTTL:    time.Second,
		ResetTokenTTL: -time.Minute,
	}
	cfg.Sanitize()

	assert.Equal(t, time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Minute, cfg.ResetTokenTTL)
}

func TestMaintenanceConfigSanitizeClampsBounds(t *testing.T) {
	cfg := MaintenanceConfig{
		Interval:         time.Second,
		ResetTokenMaxAge: time.Minute,
		BatchSize:        0,
	}
	cfg.Sanitize()

	assert.Equal(t, time.Minute, cfg.Interval)
	assert.Equal(t, time.Hour, cfg.ResetTokenMaxAge)
	assert.Equal(t, 1, cfg.BatchSize)

	cfg = MaintenanceConfig{
		Interval:         5 * time.Minute,
		ResetTokenMaxAge: 24 * time.Hour,
		BatchSize:        50000,
	}
	cfg.Sanitize()

	assert.Equal(t, 10000, cfg.BatchSize)
}

func TestHTTPConfigSanitizeDefaults(t *testing.T) {
	cfg := HTTPConfig{}
	cfg.Sanitize()

	assert.Positive(t, cfg.ReadTimeout)
	assert.Positive(t, cfg.WriteTimeout)
	assert.Positive(t, cfg.ShutdownTimeout)
}

func TestObservabilityMetricsConfigSanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: " "}
	cfg.Sanitize()
	assert.False(t, cfg.IsEnabled())

	cfg = ObservabilityMetricsConfig{Enabled: true, StatsdAddress: " statsd:1234 "}
	cfg.Sanitize()
	assert.True(t, cfg.IsEnabled())
	assert.Equal(t, "statsd:1234", cfg.StatsdAddress)
}

func TestObservabilityNotificationsConfigSanitize(t *testing.T) {
	t.Run("missing credentials disable destinations", func(t *testing.T) {
		cfg := ObservabilityNotificationsConfig{
			Enabled:    true,
			Timeout:    0,
			RetryLimit: -1,
			Slack:      SlackNotificationConfig{Enabled: true, WebhookURL: " "},
			PagerDuty:  PagerDutyNotificationConfig{Enabled: true, RoutingKey: " "},
		}
		cfg.Sanitize()

		assert.Positive(t, cfg.Timeout)
		assert.GreaterOrEqual(t, cfg.RetryLimit, 0)
		assert.False(t, cfg.Slack.Enabled)
		assert.False(t, cfg.PagerDuty.Enabled)
		assert.Equal(t, "portal-api", cfg.PagerDuty.Source)
		assert.Equal(t, "portal-api", cfg.PagerDuty.Component)
	})

	t.Run("master switch disables configured destinations", func(t *testing.T) {
		cfg := ObservabilityNotificationsConfig{
			Enabled:   false,
			Slack:     SlackNotificationConfig{Enabled: true, WebhookURL: "https://hooks.slack.com/services/test"},
			PagerDuty: PagerDutyNotificationConfig{Enabled: true, RoutingKey: "abc"},
		}
		cfg.Sanitize()

		assert.False(t, cfg.Slack.Enabled)
		assert.False(t, cfg.PagerDuty.Enabled)
	})
}
