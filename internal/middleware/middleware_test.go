package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/yatube/internal/models"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type fakeUsers map[uint]*models.User

func (f fakeUsers) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeUsers) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	for _, u := range f {
		if u.FirebaseUID != nil && *u.FirebaseUID == uid {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func whoami(c echo.Context) error {
	v := CurrentViewer(c)
	if !v.IsAuthenticated() {
		return c.String(http.StatusOK, "anonymous")
	}
	return c.String(http.StatusOK, v.User.Username)
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSessionMiddleware(t *testing.T) {
	leo := &models.User{ID: 1, Username: "leo"}
	users := fakeUsers{1: leo}
	sessions := NewSessionManager("secret", time.Hour, false)

	e := echo.New()
	e.Use(sessions.Middleware(users))
	e.GET("/", whoami)

	token, err := sessions.Token(leo)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"no cookie", "", "anonymous"},
		{"valid", token, "leo"},
		{"tampered", token + "x", "anonymous"},
		{"other secret", mustToken(t, NewSessionManager("other", time.Hour, false), leo), "anonymous"},
		{"deleted user", mustToken(t, sessions, &models.User{ID: 2, Username: "ghost"}), "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			if got := serve(e, req).Body.String(); got != tt.want {
				t.Errorf("viewer = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSessionExpiry(t *testing.T) {
	leo := &models.User{ID: 1, Username: "leo"}
	sessions := NewSessionManager("secret", time.Minute, false)
	sessions.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }
	token := mustToken(t, sessions, leo)

	if _, err := NewSessionManager("secret", time.Minute, false).Parse(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestLoginSetsCookie(t *testing.T) {
	sessions := NewSessionManager("secret", time.Hour, true)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	if err := sessions.Login(c, &models.User{ID: 3, Username: "anna"}); err != nil {
		t.Fatal(err)
	}
	if !CurrentViewer(c).Is(3) {
		t.Error("viewer not set after login")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || !cookies[0].HttpOnly || !cookies[0].Secure {
		t.Fatalf("cookies = %+v", cookies)
	}
	if _, err := sessions.Parse(cookies[0].Value); err != nil {
		t.Fatalf("cookie does not parse: %v", err)
	}
}

func TestLoginRequired(t *testing.T) {
	e := echo.New()
	e.GET("/create/", whoami, LoginRequired("/auth/login/"))

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/create/?draft=1", nil))
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/auth/login/?next=/create/%3Fdraft%3D1" {
		t.Errorf("Location = %q", loc)
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"/create/":           "/create/",
		"/profile/leo/?a=b":  "/profile/leo/?a=b",
		"":                   "/",
		"https://evil.com/":  "/",
		"//evil.com/":        "/",
		`/\evil.com`:         "/",
		"relative/path":      "/",
		"/posts/1/#comments": "/posts/1/#comments",
	}
	for next, want := range tests {
		if got := SafeNext(next, "/"); got != want {
			t.Errorf("SafeNext(%q) = %q, want %q", next, got, want)
		}
	}
}

type fakeVerifier map[string]string

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if uid, ok := f[idToken]; ok {
		return &auth.Token{UID: uid}, nil
	}
	return nil, errors.New("bad token")
}

func TestFirebaseAuthMiddleware(t *testing.T) {
	uid := "fb-123"
	users := fakeUsers{5: {ID: 5, Username: "fbuser", FirebaseUID: &uid}}
	verifier := fakeVerifier{"good": uid, "orphan": "fb-999"}

	e := echo.New()
	e.Use(FirebaseAuthMiddleware(verifier, users))
	e.GET("/", whoami)

	tests := []struct {
		header   string
		wantCode int
		wantBody string
	}{
		{"", http.StatusOK, "anonymous"},
		{"Bearer good", http.StatusOK, "fbuser"},
		{"bearer good", http.StatusOK, "fbuser"},
		{"Token good", http.StatusUnauthorized, ""},
		{"Bearer bad", http.StatusUnauthorized, ""},
		{"Bearer orphan", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set(echo.HeaderAuthorization, tt.header)
		}
		rec := serve(e, req)
		if rec.Code != tt.wantCode {
			t.Errorf("%q: status = %d, want %d", tt.header, rec.Code, tt.wantCode)
			continue
		}
		if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
			t.Errorf("%q: body = %q, want %q", tt.header, rec.Body.String(), tt.wantBody)
		}
	}
}

func mustToken(t *testing.T, m *SessionManager, u *models.User) string {
	t.Helper()
	token, err := m.Token(u)
	if err != nil {
		t.Fatal(err)
	}
	return token
}
