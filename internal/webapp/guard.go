package webapp

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"procpanel.org/internal/roles"
	"procpanel.org/internal/session"
)

// Decision is the route guard outcome for one navigation.
type Decision int

const (
	// DecisionLoading: the session check has not settled, render a blocking
	// spinner instead of a flash redirect.
	DecisionLoading Decision = iota
	DecisionRedirectLogin
	DecisionRedirectUnauthorized
	DecisionAllow
)

// Decide is the route guard: a pure function of the session state and the
// view's role requirement. No timers, no side effects; it runs on every
// navigation.
func Decide(loading, authenticated bool, role roles.Role, required roles.Role) Decision {
	if loading {
		return DecisionLoading
	}
	if !authenticated {
		return DecisionRedirectLogin
	}
	if required != "" && !role.IsSuper() && role != required {
		return DecisionRedirectUnauthorized
	}
	return DecisionAllow
}

type sessionContextKey struct{}

func contextWithSession(ctx context.Context, s session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

func sessionFromContext(ctx context.Context) (session.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(session.Session)
	return s, ok
}

// requireAuth guards a page handler. It resolves the browser session, runs the
// startup recovery path for a persisted token without a profile, applies
// Decide and either renders, redirects to /login with the origin preserved,
// or redirects to /unauthorized.
func (a *App) requireAuth(required roles.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sess, err := a.sessions.Resolve(ctx, r)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				a.log.Warn("session resolve failed", zap.Error(err))
			}
			a.redirectToLogin(w, r)
			return
		}

		ctx = session.ContextWithID(ctx, sess.ID)

		if !sess.Resolved() {
			// persisted token without a profile: re-resolve against the
			// backend. Failure clears the slot and falls back to login —
			// a recovery path, not an error.
			user, err := a.gw.Me(ctx, sess.Token)
			if err != nil {
				a.sessions.Drop(ctx, sess.ID)
				a.sessions.Logout(ctx, w, r)
				a.redirectToLogin(w, r)
				return
			}
			sess.User = user
			if err := a.sessions.Update(ctx, sess); err != nil {
				a.log.Warn("session update failed", zap.Error(err))
			}
		}

		role, roleErr := roles.Parse(sess.User.Role)
		authenticated := sess.Token != "" && roleErr == nil

		switch Decide(false, authenticated, role, required) {
		case DecisionRedirectLogin:
			a.sessions.Logout(ctx, w, r)
			a.redirectToLogin(w, r)
		case DecisionRedirectUnauthorized:
			http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
		case DecisionAllow:
			next(w, r.WithContext(contextWithSession(ctx, sess)))
		default:
			// Decide with loading=false never returns DecisionLoading
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

// redirectToLogin sends the browser to /login remembering where it wanted to go.
func (a *App) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login"
	if from := r.URL.RequestURI(); from != "" && from != "/" && from != "/login" {
		target += "?from=" + url.QueryEscape(from)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// currentSession returns the guarded session for a page handler.
func currentSession(r *http.Request) session.Session {
	s, _ := sessionFromContext(r.Context())
	return s
}

// currentRole parses the session role; guarded handlers only run for valid roles.
func currentRole(r *http.Request) roles.Role {
	role, _ := roles.Parse(currentSession(r).User.Role)
	return role
}
