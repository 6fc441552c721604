package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/observability/metrics"
	"github.com/hirespherex/portal-api/internal/observability/statsd"
)

// SessionCookieName is the cookie carrying the opaque session ID.
const SessionCookieName = "session_id"

// SessionAccessor is the slice of the auth service the route guard needs:
// session lookup plus the completion signal that returns a session to the
// stable state after a successful navigation.
type SessionAccessor interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	CompleteNavigation(ctx context.Context, sess *domainauth.Session) error
}

// instrument wraps next so the status and latency of each request can be
// observed after it completes.
func instrument(next http.Handler, observe func(r *http.Request, status int, took time.Duration)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		observe(r, rec.status, time.Since(start))
	})
}

// Logging returns a middleware that logs every request with its outcome.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return instrument(next, func(r *http.Request, status int, took time.Duration) {
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", took),
			)
		})
	}
}

// Metrics returns a middleware that emits request count and latency metrics.
// A nil sink disables emission without changing the handler chain.
func Metrics(sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return instrument(next, func(r *http.Request, status int, took time.Duration) {
			metrics.EmitHTTPRequest(sink, metrics.HTTPMetric{
				Method:   r.Method,
				Path:     r.URL.Path,
				Status:   status,
				Duration: took,
			})
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover converts handler panics into 500 responses instead of dropped
// connections.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				logger.Error("panic",
					slog.Any("error", v),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method),
					slog.String("stack", string(debug.Stack())))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Guard returns the route-guard middleware for a requirement. It re-evaluates
// authorization on every request against the session's ACTIVE role.
//
// Denial messaging follows the session's lifecycle state: a session tearing
// down (logging out) gets the 401 without the login prompt, and a session
// mid role-switch gets the 403 without the access-denied message, so clients
// never flash an error for a denial the flow itself caused. A successful
// navigation is the completion signal that returns a transitioning session
// to the stable state.
func Guard(authSvc SessionAccessor, req domainauth.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, authSvc)

			snap := session.Snap()
			if session != nil && session.State == domainauth.StateLoggingOut {
				// Identity is already on its way out; deny as if absent.
				snap = domainauth.Snapshot{State: domainauth.StateLoggingOut}
			}

			switch domainauth.Authorize(req, snap) {
			case domainauth.DecisionDenyNoAuth:
				writeDenyNoAuth(w, snap)
				return
			case domainauth.DecisionDenyWrongRole:
				writeDenyWrongRole(w, req, snap)
				return
			case domainauth.DecisionAllow:
			}

			if session != nil && session.State != domainauth.StateStable {
				if err := authSvc.CompleteNavigation(r.Context(), session); err != nil {
					// The navigation itself still succeeds; the state will
					// converge on the next load.
					slog.Default().WarnContext(r.Context(), "complete navigation", "error", err)
				}
			}

			ctx := SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth guards a route that needs any authenticated user.
func RequireAuth(authSvc SessionAccessor) func(http.Handler) http.Handler {
	return Guard(authSvc, domainauth.RequireAnyAuthenticated())
}

// RequireActiveRole guards a route that needs one of the given active roles.
func RequireActiveRole(authSvc SessionAccessor, roles ...domainauth.Role) func(http.Handler) http.Handler {
	return Guard(authSvc, domainauth.RequireActiveRole(roles...))
}

// OptionalAuth attaches the session to the context when present without
// denying anything.
func OptionalAuth(authSvc SessionAccessor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := getSessionFromRequest(r, authSvc); session != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeDenyNoAuth(w http.ResponseWriter, snap domainauth.Snapshot) {
	if snap.State == domainauth.StateLoggingOut {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication_required"})
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New(domainauth.LoginRequiredMessage),
	})
}

func writeDenyWrongRole(w http.ResponseWriter, req domainauth.Requirement, snap domainauth.Snapshot) {
	if snap.State == domainauth.StateSwitchingRole {
		WriteJSON(w, http.StatusForbidden, map[string]string{"error": "access_denied"})
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusForbidden,
		ErrCode: "access_denied",
		Err:     errors.New(req.DeniedMessage()),
	})
}

// getSessionFromRequest retrieves and validates a session from the request.
func getSessionFromRequest(r *http.Request, authSvc SessionAccessor) *domainauth.Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}

	session, err := authSvc.GetSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}

	return session
}
