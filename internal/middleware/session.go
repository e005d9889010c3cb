package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/yatube/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// SessionCookie is the name of the cookie holding the signed session token.
const SessionCookie = "sessionid"

const viewerKey = "viewer"

// Viewer is the identity behind the current request. The zero value is anonymous.
type Viewer struct {
	User *models.User
}

func (v Viewer) IsAuthenticated() bool {
	return v.User != nil
}

// ID is the viewer's user id, 0 when anonymous.
func (v Viewer) ID() uint {
	if v.User == nil {
		return 0
	}
	return v.User.ID
}

// Is reports whether the viewer is the given user.
func (v Viewer) Is(userID uint) bool {
	return v.User != nil && v.User.ID == userID
}

// CurrentViewer returns the viewer resolved for this request.
func CurrentViewer(c echo.Context) Viewer {
	v, _ := c.Get(viewerKey).(Viewer)
	return v
}

func setViewer(c echo.Context, v Viewer) {
	c.Set(viewerKey, v)
}

// UserLoader loads the user named by a session.
type UserLoader interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

// SessionManager issues and verifies HS256-signed session cookies.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

// Token signs a session token for u.
func (m *SessionManager) Token(u *models.User) (string, error) {
	now := m.now()
	claims := &models.SessionClaims{
		UserID:   u.ID,
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies a session token and returns its claims.
func (m *SessionManager) Parse(token string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// Login sets the session cookie for u and makes u the viewer of this request.
func (m *SessionManager) Login(c echo.Context, u *models.User) error {
	token, err := m.Token(u)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  m.now().Add(m.ttl),
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	setViewer(c, Viewer{User: u})
	return nil
}

// Logout expires the session cookie.
func (m *SessionManager) Logout(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	setViewer(c, Viewer{})
}

// Middleware resolves the session cookie into the request's Viewer.
// A bad or stale cookie is dropped and the request continues anonymously.
func (m *SessionManager) Middleware(users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			setViewer(c, Viewer{})

			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := m.Parse(cookie.Value)
			if err != nil {
				m.Logout(c)
				return next(c)
			}

			user, err := users.GetUserByID(c.Request().Context(), claims.UserID)
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && user.Username != claims.Username) {
				m.Logout(c)
				return next(c)
			}
			if err != nil {
				return fmt.Errorf("load session user: %w", err)
			}

			setViewer(c, Viewer{User: user})
			return next(c)
		}
	}
}

// LoginRequired redirects anonymous viewers to loginURL with the requested
// path in the "next" parameter.
func LoginRequired(loginURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentViewer(c).IsAuthenticated() {
				return next(c)
			}
			return c.Redirect(http.StatusFound, LoginRedirectURL(loginURL, c.Request().URL.RequestURI()))
		}
	}
}

// LoginRedirectURL builds "loginURL?next=path" leaving slashes unescaped.
func LoginRedirectURL(loginURL, path string) string {
	return loginURL + "?next=" + strings.ReplaceAll(url.QueryEscape(path), "%2F", "/")
}

// SafeNext returns next when it is a local path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
