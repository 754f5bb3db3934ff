package middleware

import (
	"net/http"
	"strings"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/internal/repository"
	"github.com/beckernir/AUCA-HR/pkg/jwtutil"
	"github.com/beckernir/AUCA-HR/pkg/logger"
	"github.com/beckernir/AUCA-HR/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const userContextKey = "user"

// JWTAuthMiddleware validates the bearer token and checks that its session is
// still live, so logout takes effect immediately.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil, sessions repository.SessionRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			tokenString := parts[1]

			claims, err := jwtUtil.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}
			if claims.Kind != jwtutil.KindAccess {
				log.Warn("Refresh token used as access token", zap.Uint("user_id", claims.UserID))
				prometheus.RecordAuthError("wrong_token_kind")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			session, err := sessions.FindByAccessToken(c.Request().Context(), tokenString)
			if err != nil || !session.IsValid() {
				log.Warn("Token has no live session", zap.Uint("user_id", claims.UserID))
				prometheus.RecordAuthError("revoked_session")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(userContextKey, claims)
			c.Set("access_token", tokenString)

			return next(c)
		}
	}
}

// RequireRole restricts a route group to one user role
func RequireRole(role model.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := CurrentUser(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if claims.Role != string(role) {
				logger.FromEcho(c).Warn("Role check failed",
					zap.Uint("user_id", claims.UserID),
					zap.String("role", claims.Role),
					zap.String("required", string(role)))
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated claims set by JWTAuthMiddleware, or
// nil when the request is unauthenticated.
func CurrentUser(c echo.Context) *jwtutil.UserClaims {
	claims, ok := c.Get(userContextKey).(*jwtutil.UserClaims)
	if !ok {
		return nil
	}
	return claims
}

// AccessToken returns the raw bearer token of the current request
func AccessToken(c echo.Context) string {
	token, _ := c.Get("access_token").(string)
	return token
}
