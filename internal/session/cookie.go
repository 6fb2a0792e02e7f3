package session

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const cookieName = "panel_session"

const cookieIssuer = "procpanel"

// ErrInvalidCookie indicates the session cookie failed validation.
var ErrInvalidCookie = errors.New("session: invalid cookie")

// CookieCodec signs and verifies the session id carried by the browser.
// The cookie proves nothing about the upstream token; it only names the
// server-side session slot.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewCookieCodec builds a codec. secure controls the cookie Secure flag.
func NewCookieCodec(secret string, ttl time.Duration, secure bool) (*CookieCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session: cookie secret is required")
	}
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	return &CookieCodec{secret: []byte(secret), ttl: ttl, secure: secure}, nil
}

// Issue writes a signed cookie pointing at the session id.
func (c *CookieCodec) Issue(w http.ResponseWriter, sessionID string) error {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    cookieIssuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.ttl / time.Second),
	})
	return nil
}

// Clear expires the cookie.
func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// SessionID extracts and verifies the session id from the request cookie.
func (c *CookieCodec) SessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return "", ErrInvalidCookie
	}
	parsed, err := jwt.ParseWithClaims(cookie.Value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidCookie
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidCookie
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Issuer != cookieIssuer || strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidCookie
	}
	return claims.Subject, nil
}
