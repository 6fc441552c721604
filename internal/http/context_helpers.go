package httpx

import (
	"context"

	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
)

// sessionKey keys the authenticated session in a request context. Unexported
// so no other package can collide with it.
type sessionKey struct{}

// SetSessionInContext attaches the session to a child context. A nil session
// leaves ctx untouched.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext reports the session stored by the auth middleware,
// if any.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext is the single-value form of GetUserSessionFromContext.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}
