package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/observability/statsd"
	"github.com/hirespherex/portal-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Resets       *service.PasswordResetService
	Users        *service.UserService
	Companies    *service.CompanyService
	Placements   *service.PlacementService
	Jobs         *service.JobService
	Students     *service.StudentService
	Applications *service.ApplicationService
	CookieDomain string
	Logger       *slog.Logger
	Metrics      statsd.Sink
}

// NewRouter creates and configures the portal HTTP router. Every route under
// /api/v1 carries an explicit access requirement; the approval flows are
// listed next to each registration so the role matrix reads off this file.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Resets:       services.Resets,
		CookieDomain: services.CookieDomain,
		Logger:       services.Logger,
	}
	userHandlers := &UserHandlers{Svc: services.Users}
	companyHandlers := &CompanyHandlers{Svc: services.Companies}
	driveHandlers := &DriveHandlers{Svc: services.Placements}
	jobHandlers := &JobHandlers{Svc: services.Jobs}
	studentHandlers := &StudentHandlers{Svc: services.Students}
	applicationHandlers := &ApplicationHandlers{Svc: services.Applications}

	registerAuthRoutes(mux, authHandlers, services.Auth)
	registerUserRoutes(mux, userHandlers, services.Auth)
	registerCompanyRoutes(mux, companyHandlers, services.Auth)
	registerDriveRoutes(mux, driveHandlers, services.Auth)
	registerJobRoutes(mux, jobHandlers, services.Auth)
	registerStudentRoutes(mux, studentHandlers, services.Auth)
	registerApplicationRoutes(mux, applicationHandlers, services.Auth)

	mux.Handle("GET /healthz", http.HandlerFunc(HealthCheck))
	mux.Handle("HEAD /healthz", http.HandlerFunc(HealthCheck))

	handler := Recover(services.Logger)(mux)
	handler = Metrics(services.Metrics)(handler)
	return Logging(services.Logger)(handler)
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, auth *service.AuthService) {
	mux.HandleFunc("POST /api/v1/auth/token", h.Token)
	mux.HandleFunc("POST /api/v1/auth/select-role", h.SelectRole)
	mux.HandleFunc("GET /api/v1/auth/login", h.Login)
	mux.HandleFunc("GET /api/v1/auth/callback", h.Callback)
	// Me resolves the session itself so it can explain a missing one; the
	// middleware only hydrates the context from the cookie.
	mux.Handle("GET /api/v1/auth/me", OptionalAuth(auth)(http.HandlerFunc(h.Me)))
	mux.HandleFunc("POST /api/v1/auth/switch-role", h.SwitchRole)
	mux.HandleFunc("POST /api/v1/auth/logout", h.Logout)
	mux.HandleFunc("POST /api/v1/auth/password-reset", h.RequestPasswordReset)
	mux.HandleFunc("POST /api/v1/auth/password-reset/validate-token", h.ValidatePasswordResetToken)
	mux.HandleFunc("POST /api/v1/auth/password-reset/confirm", h.ConfirmPasswordReset)
}

// User accounts are managed by administrators only.
func registerUserRoutes(mux *http.ServeMux, h *UserHandlers, auth *service.AuthService) {
	adminOnly := RequireActiveRole(auth, domainauth.RoleAdmin)

	registerCRUD(mux, crudRoutes{
		Base:       "/api/v1/users",
		Create:     h.Create,
		List:       h.List,
		GetByID:    h.GetByID,
		Update:     h.Update,
		Delete:     h.Delete,
		Middleware: adminOnly,
	})
}

// Companies are curated by the placement cell; any signed-in user can browse.
func registerCompanyRoutes(mux *http.ServeMux, h *CompanyHandlers, auth *service.AuthService) {
	staff := RequireActiveRole(auth, domainauth.RolePlacementCell, domainauth.RoleAdmin)
	signedIn := RequireAuth(auth)

	mux.Handle("POST /api/v1/companies", staff(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/v1/companies", signedIn(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/v1/companies/{id}", signedIn(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/v1/companies/{id}", staff(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/v1/companies/{id}", staff(http.HandlerFunc(h.Delete)))
}

// Drives and company drives are run by the placement cell; reads are open to
// any signed-in user so students can see what's on.
func registerDriveRoutes(mux *http.ServeMux, h *DriveHandlers, auth *service.AuthService) {
	staff := RequireActiveRole(auth, domainauth.RolePlacementCell, domainauth.RoleAdmin)
	signedIn := RequireAuth(auth)

	mux.Handle("POST /api/v1/placement-drives", staff(http.HandlerFunc(h.CreateDrive)))
	mux.Handle("GET /api/v1/placement-drives", signedIn(http.HandlerFunc(h.ListDrives)))
	mux.Handle("GET /api/v1/placement-drives/{id}", signedIn(http.HandlerFunc(h.GetDrive)))
	mux.Handle("PUT /api/v1/placement-drives/{id}", staff(http.HandlerFunc(h.UpdateDrive)))
	mux.Handle("DELETE /api/v1/placement-drives/{id}", staff(http.HandlerFunc(h.DeleteDrive)))

	mux.Handle("POST /api/v1/company-drives", staff(http.HandlerFunc(h.CreateCompanyDrive)))
	mux.Handle("GET /api/v1/company-drives", signedIn(http.HandlerFunc(h.ListCompanyDrives)))
	mux.Handle("GET /api/v1/company-drives/{id}", signedIn(http.HandlerFunc(h.GetCompanyDrive)))
	mux.Handle("PUT /api/v1/company-drives/{id}", staff(http.HandlerFunc(h.UpdateCompanyDrive)))
	mux.Handle("DELETE /api/v1/company-drives/{id}", staff(http.HandlerFunc(h.DeleteCompanyDrive)))
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers, auth *service.AuthService) {
	staff := RequireActiveRole(auth, domainauth.RolePlacementCell, domainauth.RoleAdmin)
	signedIn := RequireAuth(auth)

	mux.Handle("POST /api/v1/jobs", staff(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/v1/jobs", signedIn(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/v1/jobs/{id}", signedIn(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/v1/jobs/{id}", staff(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/v1/jobs/{id}", staff(http.HandlerFunc(h.Delete)))
}

// Student profiles: the placement cell administers them, verification
// included; a student can always read their own profile.
func registerStudentRoutes(mux *http.ServeMux, h *StudentHandlers, auth *service.AuthService) {
	staff := RequireActiveRole(auth, domainauth.RolePlacementCell, domainauth.RoleAdmin)
	studentOnly := RequireActiveRole(auth, domainauth.RoleStudent)

	mux.Handle("GET /api/v1/students/me", studentOnly(http.HandlerFunc(h.GetMe)))
	mux.Handle("PUT /api/v1/students/me", studentOnly(http.HandlerFunc(h.UpdateMe)))

	mux.Handle("POST /api/v1/students", staff(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/v1/students", staff(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/v1/students/{user_id}", staff(http.HandlerFunc(h.GetByUserID)))
	mux.Handle("PUT /api/v1/students/{user_id}", staff(http.HandlerFunc(h.Update)))
	mux.Handle("POST /api/v1/students/{user_id}/verify", staff(http.HandlerFunc(h.Verify)))
	mux.Handle("DELETE /api/v1/students/{user_id}", staff(http.HandlerFunc(h.Delete)))
}

// Applications: students apply and withdraw for themselves; status moves
// through the funnel under placement cell control.
func registerApplicationRoutes(mux *http.ServeMux, h *ApplicationHandlers, auth *service.AuthService) {
	staff := RequireActiveRole(auth, domainauth.RolePlacementCell, domainauth.RoleAdmin)
	studentOnly := RequireActiveRole(auth, domainauth.RoleStudent)

	mux.Handle("POST /api/v1/applications", studentOnly(http.HandlerFunc(h.Apply)))
	mux.Handle("GET /api/v1/applications/mine", studentOnly(http.HandlerFunc(h.ListMine)))
	mux.Handle("POST /api/v1/applications/{id}/respond", studentOnly(http.HandlerFunc(h.RespondToOffer)))
	mux.Handle("DELETE /api/v1/applications/{id}", studentOnly(http.HandlerFunc(h.Withdraw)))

	mux.Handle("GET /api/v1/applications", staff(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/v1/applications/{id}", staff(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /api/v1/applications/{id}/status", staff(http.HandlerFunc(h.UpdateStatus)))
}

// registerCRUD registers standard CRUD routes for a resource base path,
// applying mw if non-nil.
type crudRoutes struct {
	Base       string
	Create     http.HandlerFunc
	List       http.HandlerFunc
	GetByID    http.HandlerFunc
	Update     http.HandlerFunc
	Delete     http.HandlerFunc
	Middleware func(http.Handler) http.Handler
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Delete == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}

	wrap := func(h http.HandlerFunc) http.Handler {
		if cfg.Middleware != nil {
			return cfg.Middleware(h)
		}
		return h
	}
	mux.Handle("POST "+cfg.Base, wrap(cfg.Create))
	mux.Handle("GET "+cfg.Base, wrap(cfg.List))
	mux.Handle("GET "+cfg.Base+"/{id}", wrap(cfg.GetByID))
	mux.Handle("PUT "+cfg.Base+"/{id}", wrap(cfg.Update))
	mux.Handle("DELETE "+cfg.Base+"/{id}", wrap(cfg.Delete))
}
