package service

import (
	"context"
	"testing"
	"time"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/pkg/apperror"
	"github.com/beckernir/AUCA-HR/pkg/jwtutil"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*AuthService, *stubUserRepo, *stubSessionRepo) {
	t.Helper()
	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	jwtConfig := &jwtutil.JWTConfig{
		SigningKey:        "test-signing-key",
		AccessExpiration:  time.Hour,
		RefreshExpiration: 24 * time.Hour,
	}
	svc := NewAuthService(users, sessions, jwtutil.NewJWTUtil(jwtConfig), jwtConfig)
	return svc, users, sessions
}

func addCredentialedUser(t *testing.T, users *stubUserRepo, email, password string, active bool) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return users.add(model.User{
		FullNames: "Test Employee",
		Email:     email,
		Role:      model.RoleStaff,
		Password:  string(hashed),
		Active:    active,
	})
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	addCredentialedUser(t, users, "active@auca.ac.rw", "correct-password", true)
	addCredentialedUser(t, users, "inactive@auca.ac.rw", "correct-password", false)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@auca.ac.rw", "correct-password"},
		{"wrong password", "active@auca.ac.rw", "wrong-password"},
		{"inactive account", "inactive@auca.ac.rw", "correct-password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			if apperror.GetCode(err) != apperror.CodeAuthentication {
				t.Fatalf("expected authentication error, got %v", err)
			}
			// The same message regardless of cause, nothing to enumerate accounts with
			if err.Error() != "invalid credentials" {
				t.Fatalf("expected uniform message, got %q", err.Error())
			}
		})
	}
}

func TestLoginIssuesSession(t *testing.T) {
	svc, users, sessions := newAuthFixture(t)
	user := addCredentialedUser(t, users, "active@auca.ac.rw", "correct-password", true)

	tokens, err := svc.Login(context.Background(), "active@auca.ac.rw", "correct-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if tokens.User.ID != user.ID {
		t.Fatalf("expected user %d in response, got %d", user.ID, tokens.User.ID)
	}

	session, err := sessions.FindByAccessToken(context.Background(), tokens.AccessToken)
	if err != nil {
		t.Fatalf("expected a persisted session: %v", err)
	}
	if !session.IsValid() {
		t.Fatal("expected the new session to be valid")
	}
	if session.UserID != user.ID {
		t.Fatalf("expected session for user %d, got %d", user.ID, session.UserID)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	addCredentialedUser(t, users, "active@auca.ac.rw", "correct-password", true)

	tokens, err := svc.Login(context.Background(), "active@auca.ac.rw", "correct-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Refresh(context.Background(), tokens.AccessToken)
	if apperror.GetCode(err) != apperror.CodeAuthentication {
		t.Fatalf("expected authentication error for access-kind token, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, users, sessions := newAuthFixture(t)
	addCredentialedUser(t, users, "active@auca.ac.rw", "correct-password", true)

	tokens, err := svc.Login(context.Background(), "active@auca.ac.rw", "correct-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Token payloads embed issue time at second precision
	time.Sleep(1100 * time.Millisecond)

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.AccessToken == tokens.AccessToken {
		t.Fatal("expected a new access token after refresh")
	}

	// The old pair must be dead once the session rotates
	if _, err := sessions.FindByRefreshToken(context.Background(), tokens.RefreshToken); err == nil {
		t.Fatal("expected the old refresh token to be forgotten")
	}
	if _, err := svc.Refresh(context.Background(), tokens.RefreshToken); err == nil {
		t.Fatal("expected replaying the old refresh token to fail")
	}
}

func TestRefreshRejectsInactiveUser(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	user := addCredentialedUser(t, users, "active@auca.ac.rw", "correct-password", true)

	tokens, err := svc.Login(context.Background(), "active@auca.ac.rw", "correct-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user.Active = false
	users.add(*user)

	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)
	if apperror.GetCode(err) != apperror.CodeAuthentication {
		t.Fatalf("expected authentication error for deactivated user, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, users, sessions := newAuthFixture(t)
	addCredentialedUser(t, users, "active@auca.ac.rw", "correct-password", true)

	tokens, err := svc.Login(context.Background(), "active@auca.ac.rw", "correct-password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Logout(context.Background(), tokens.AccessToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session, err := sessions.FindByAccessToken(context.Background(), tokens.AccessToken)
	if err != nil {
		t.Fatalf("expected the session row to remain: %v", err)
	}
	if session.IsValid() {
		t.Fatal("expected the session to be revoked")
	}

	// Logout is idempotent
	if err := svc.Logout(context.Background(), tokens.AccessToken); err != nil {
		t.Fatalf("second logout should be a no-op: %v", err)
	}

	// The revoked refresh token cannot mint new pairs
	if _, err := svc.Refresh(context.Background(), tokens.RefreshToken); apperror.GetCode(err) != apperror.CodeAuthentication {
		t.Fatalf("expected authentication error after logout, got %v", err)
	}
}
