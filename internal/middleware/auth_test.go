package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/pkg/jwtutil"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type stubSessionRepo struct {
	sessions map[string]*model.Session
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[string]*model.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, session *model.Session) error {
	r.sessions[session.AccessToken] = session
	return nil
}

func (r *stubSessionRepo) Save(_ context.Context, session *model.Session) error {
	r.sessions[session.AccessToken] = session
	return nil
}

func (r *stubSessionRepo) FindByAccessToken(_ context.Context, token string) (*model.Session, error) {
	session, ok := r.sessions[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (r *stubSessionRepo) FindByRefreshToken(_ context.Context, token string) (*model.Session, error) {
	for _, session := range r.sessions {
		if session.RefreshToken == token {
			return session, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context) error { return nil }

func authFixture(t *testing.T) (*jwtutil.JWTUtil, *stubSessionRepo, echo.MiddlewareFunc) {
	t.Helper()
	util := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:        "test-signing-key",
		AccessExpiration:  time.Hour,
		RefreshExpiration: 24 * time.Hour,
	})
	sessions := newStubSessionRepo()
	return util, sessions, JWTAuthMiddleware(util, sessions)
}

func run(t *testing.T, guard echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, *jwtutil.UserClaims) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaves", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *jwtutil.UserClaims
	handler := guard(func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, seen
}

func issueSession(t *testing.T, util *jwtutil.JWTUtil, sessions *stubSessionRepo, userID uint) string {
	t.Helper()
	token, err := util.GenerateAccessToken(userID, "user@auca.ac.rw", "STAFF", "Test User")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	sessions.Create(context.Background(), &model.Session{
		ID:               "ses_test",
		UserID:           userID,
		AccessToken:      token,
		RefreshToken:     "refresh",
		AccessExpiresAt:  time.Now().Add(time.Hour),
		RefreshExpiresAt: time.Now().Add(24 * time.Hour),
	})
	return token
}

func TestAuthMiddlewareAcceptsLiveSession(t *testing.T) {
	util, sessions, guard := authFixture(t)
	token := issueSession(t, util, sessions, 7)

	rec, claims := run(t, guard, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if claims == nil || claims.UserID != 7 {
		t.Fatalf("expected claims for user 7, got %+v", claims)
	}
}

func TestAuthMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	_, _, guard := authFixture(t)

	for _, header := range []string{"", "Token abc", "Bearer"} {
		rec, _ := run(t, guard, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestAuthMiddlewareRejectsRefreshKind(t *testing.T) {
	util, sessions, guard := authFixture(t)

	refresh, err := util.GenerateRefreshToken(7, "user@auca.ac.rw")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	sessions.Create(context.Background(), &model.Session{
		UserID:           7,
		AccessToken:      refresh,
		RefreshExpiresAt: time.Now().Add(24 * time.Hour),
	})

	rec, _ := run(t, guard, "Bearer "+refresh)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh-kind token, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsRevokedSession(t *testing.T) {
	util, sessions, guard := authFixture(t)
	token := issueSession(t, util, sessions, 7)

	session, _ := sessions.FindByAccessToken(context.Background(), token)
	session.Revoked = true

	rec, _ := run(t, guard, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked session, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	hrOnly := RequireRole(model.RoleHR)

	handler := hrOnly(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for _, tc := range []struct {
		role string
		want int
	}{
		{"HR", http.StatusOK},
		{"STAFF", http.StatusForbidden},
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user", &jwtutil.UserClaims{UserID: 1, Role: tc.role, Kind: jwtutil.KindAccess})

		if err := handler(c); err != nil {
			t.Fatalf("middleware returned error: %v", err)
		}
		if rec.Code != tc.want {
			t.Fatalf("role %s: expected %d, got %d", tc.role, tc.want, rec.Code)
		}
	}
}
