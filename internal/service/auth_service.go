package service

import (
	"context"
	"time"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/internal/repository"
	"github.com/beckernir/AUCA-HR/pkg/apperror"
	"github.com/beckernir/AUCA-HR/pkg/jwtutil"
	"github.com/beckernir/AUCA-HR/pkg/logger"
	"github.com/beckernir/AUCA-HR/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService validates credentials and issues access/refresh token pairs
// with a server-side session row per login.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	jwt      *jwtutil.JWTUtil
	config   *jwtutil.JWTConfig
}

// NewAuthService creates the auth/session issuance service
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, jwt *jwtutil.JWTUtil, config *jwtutil.JWTConfig) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		jwt:      jwt,
		config:   config,
	}
}

// errInvalidCredentials is the uniform login failure: the caller never learns
// whether the email, the password, or the active flag was the problem.
func errInvalidCredentials() error {
	return apperror.New(apperror.CodeAuthentication, "invalid credentials")
}

// Login verifies the credentials and issues a fresh token pair
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthTokens, error) {
	log := logger.FromContext(ctx)
	prometheus.LoginCounter.Inc()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			log.Warn("Login failed, unknown email", zap.String("email", email))
			prometheus.RecordAuthError("user_not_found")
			return AuthTokens{}, errInvalidCredentials()
		}
		return AuthTokens{}, err
	}

	if !user.Active {
		log.Warn("Login failed, inactive account", zap.String("email", email))
		prometheus.RecordAuthError("inactive_account")
		return AuthTokens{}, errInvalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Warn("Login failed, wrong password", zap.String("email", email))
		prometheus.RecordAuthError("invalid_password")
		return AuthTokens{}, errInvalidCredentials()
	}

	tokens, err := s.issueSession(ctx, user)
	if err != nil {
		return AuthTokens{}, err
	}

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	return tokens, nil
}

// Refresh validates a refresh-kind token against its session and rotates the
// pair. The old tokens stop working once the session row is updated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthTokens, error) {
	log := logger.FromContext(ctx)
	prometheus.RefreshCounter.Inc()

	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		prometheus.RecordAuthError("invalid_refresh_token")
		return AuthTokens{}, apperror.New(apperror.CodeAuthentication, "invalid or expired refresh token")
	}
	if claims.Kind != jwtutil.KindRefresh {
		prometheus.RecordAuthError("wrong_token_kind")
		return AuthTokens{}, apperror.New(apperror.CodeAuthentication, "token is not a refresh token")
	}

	session, err := s.sessions.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if isNotFound(err) {
			prometheus.RecordAuthError("unknown_session")
			return AuthTokens{}, apperror.New(apperror.CodeAuthentication, "session not found")
		}
		return AuthTokens{}, err
	}
	if !session.IsValid() {
		prometheus.RecordAuthError("revoked_session")
		return AuthTokens{}, apperror.New(apperror.CodeAuthentication, "session revoked or expired")
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if isNotFound(err) {
			return AuthTokens{}, apperror.New(apperror.CodeAuthentication, "user no longer exists")
		}
		return AuthTokens{}, err
	}
	if !user.Active {
		prometheus.RecordAuthError("inactive_account")
		return AuthTokens{}, apperror.New(apperror.CodeAuthentication, "account is inactive")
	}

	accessToken, refreshed, err := s.generatePair(user)
	if err != nil {
		return AuthTokens{}, err
	}

	now := time.Now()
	session.AccessToken = accessToken
	session.RefreshToken = refreshed
	session.AccessExpiresAt = now.Add(s.config.AccessExpiration)
	session.RefreshExpiresAt = now.Add(s.config.RefreshExpiration)
	if err := s.sessions.Save(ctx, session); err != nil {
		return AuthTokens{}, err
	}

	log.Info("Session refreshed", zap.Uint("user_id", user.ID))

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshed,
		ExpiresIn:    int64(s.config.AccessExpiration.Seconds()),
		User:         userToDTO(user),
	}, nil
}

// Logout revokes the session carrying the given access token
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	log := logger.FromContext(ctx)

	session, err := s.sessions.FindByAccessToken(ctx, accessToken)
	if err != nil {
		if isNotFound(err) {
			// Already gone, treat logout as idempotent
			return nil
		}
		return err
	}

	if !session.Revoked {
		session.Revoked = true
		if err := s.sessions.Save(ctx, session); err != nil {
			return err
		}
		prometheus.ActiveSessionGauge.Dec()
	}

	log.Info("User logged out", zap.Uint("user_id", session.UserID))
	return nil
}

func (s *AuthService) issueSession(ctx context.Context, user *model.User) (AuthTokens, error) {
	accessToken, refreshToken, err := s.generatePair(user)
	if err != nil {
		return AuthTokens{}, err
	}

	now := time.Now()
	session := model.Session{
		UserID:           user.ID,
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(s.config.AccessExpiration),
		RefreshExpiresAt: now.Add(s.config.RefreshExpiration),
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return AuthTokens{}, err
	}
	prometheus.ActiveSessionGauge.Inc()

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessExpiration.Seconds()),
		User:         userToDTO(user),
	}, nil
}

func (s *AuthService) generatePair(user *model.User) (access string, refresh string, err error) {
	access, err = s.jwt.GenerateAccessToken(user.ID, user.Email, string(user.Role), user.FullNames)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.jwt.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
