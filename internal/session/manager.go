package session

import (
	"context"
	"net/http"

	"procpanel.org/internal/gateway"
)

type idContextKey struct{}

// ContextWithID attaches the session id handling the current request, so the
// gateway's global 401 hook can clear the right session.
func ContextWithID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, idContextKey{}, id)
}

// IDFromContext returns the session id bound to the request context.
func IDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(idContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Manager pairs the store with the cookie codec.
type Manager struct {
	store Store
	codec *CookieCodec
}

// NewManager wires the store and codec.
func NewManager(store Store, codec *CookieCodec) *Manager {
	return &Manager{store: store, codec: codec}
}

// Login creates a session for the upstream token, stores the resolved user and
// issues the cookie. The token slot is overwritten if the browser already had
// a session (last write wins).
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, token string, user gateway.User) (Session, error) {
	id := ""
	if existing, err := m.codec.SessionID(r); err == nil {
		id = existing
	}
	if id == "" {
		id = NewID()
	}
	s := Session{ID: id, Token: token, User: user}
	if err := m.store.Put(ctx, s); err != nil {
		return Session{}, err
	}
	if err := m.codec.Issue(w, id); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Logout drops the session and expires the cookie.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if id, err := m.codec.SessionID(r); err == nil {
		_ = m.store.Delete(ctx, id)
	}
	m.codec.Clear(w)
}

// Resolve loads the session named by the request cookie.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (Session, error) {
	id, err := m.codec.SessionID(r)
	if err != nil {
		return Session{}, ErrNotFound
	}
	return m.store.Get(ctx, id)
}

// Update persists a modified session (e.g. after the user profile resolves).
func (m *Manager) Update(ctx context.Context, s Session) error {
	return m.store.Put(ctx, s)
}

// Drop removes a session by id. Used by the gateway 401 hook.
func (m *Manager) Drop(ctx context.Context, id string) {
	_ = m.store.Delete(ctx, id)
}
