package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/hirespherex/portal-api/config"
	"github.com/hirespherex/portal-api/internal/adapters/authroles"
	"github.com/hirespherex/portal-api/internal/adapters/credauth"
	"github.com/hirespherex/portal-api/internal/adapters/devauth"
	"github.com/hirespherex/portal-api/internal/adapters/oidc"
	redisadapter "github.com/hirespherex/portal-api/internal/adapters/redis"
	"github.com/hirespherex/portal-api/internal/data"
	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	// Sessions and pending role selections live in Redis so every replica
	// sees the same state.
	sessionStore := redisadapter.NewSessionStore(cfg.RedisClient)
	pendingStore := redisadapter.NewPendingLoginStore(cfg.RedisClient)

	roleMapper := authroles.StaticRoleMapper{
		AdminGroup:         cfg.Auth.Groups.AdminGroup,
		PlacementCellGroup: cfg.Auth.Groups.PlacementCellGroup,
		StudentGroup:       cfg.Auth.Groups.StudentGroup,
	}

	switch cfg.Auth.Mode {
	case config.AuthModeCredentials:
		return buildCredentialsAuthService(cfg, sessionStore, pendingStore)

	case config.AuthModeOAuth:
		return buildOAuthService(cfg, sessionStore, pendingStore, roleMapper)

	case config.AuthModeMock:
		return buildDevAuthService(cfg, sessionStore, pendingStore, roleMapper)

	default:
		return nil
	}
}

func buildCredentialsAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	pendingStore *redisadapter.PendingLoginStore,
) *service.AuthService {
	if cfg.DB == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeCredentials selected but database not configured; auth disabled")
		}
		return nil
	}

	users := data.NewUserRepo(cfg.DB)
	passwords := credauth.NewProvider(users, cfg.Auth.SessionTTL)

	return service.NewAuthService(service.AuthServiceOptions{
		Passwords: passwords,
		Sessions:  sessionStore,
		Pending:   pendingStore,
	})
}

func buildOAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	pendingStore *redisadapter.PendingLoginStore,
	roleMapper authroles.StaticRoleMapper,
) *service.AuthService {
	// Only enable when fully configured
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		IssuerURL:    oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		SSO:      prov,
		Sessions: sessionStore,
		Pending:  pendingStore,
		Roles:    roleMapper,
	})
}

func buildDevAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	pendingStore *redisadapter.PendingLoginStore,
	roleMapper authroles.StaticRoleMapper,
) *service.AuthService {
	// Explicitly enabled dev auth mode; build a local provider.
	roles := make([]domainauth.Role, 0, len(cfg.Auth.DevAuth.Roles))
	for _, r := range cfg.Auth.DevAuth.Roles {
		roles = append(roles, domainauth.Role(r).Normalize())
	}

	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          cfg.Auth.DevAuth.UserID,
		Email:           cfg.Auth.DevAuth.Email,
		FirstName:       cfg.Auth.DevAuth.FirstName,
		LastName:        cfg.Auth.DevAuth.LastName,
		Roles:           roles,
		SessionDuration: cfg.Auth.SessionTTL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}

	// The dev provider serves both the credential and SSO code paths.
	return service.NewAuthService(service.AuthServiceOptions{
		Passwords: prov,
		SSO:       prov,
		Sessions:  sessionStore,
		Pending:   pendingStore,
		Roles:     roleMapper,
	})
}
