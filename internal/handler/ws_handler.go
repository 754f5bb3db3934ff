package handler

import (
	"net/http"

	"github.com/beckernir/AUCA-HR/internal/realtime"
	"github.com/beckernir/AUCA-HR/internal/repository"
	"github.com/beckernir/AUCA-HR/pkg/jwtutil"
	"github.com/beckernir/AUCA-HR/pkg/logger"
	"github.com/beckernir/AUCA-HR/prometheus"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// WebsocketHandler upgrades authenticated connections and attaches them to
// the realtime hub. Browsers cannot set headers on websocket dials, so the
// access token travels in the query string.
type WebsocketHandler struct {
	hub      *realtime.Hub
	jwt      *jwtutil.JWTUtil
	sessions repository.SessionRepository
	upgrader websocket.Upgrader
}

// NewWebsocketHandler creates the websocket handler
func NewWebsocketHandler(hub *realtime.Hub, jwt *jwtutil.JWTUtil, sessions repository.SessionRepository) *WebsocketHandler {
	return &WebsocketHandler{
		hub:      hub,
		jwt:      jwt,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Connect handles GET /ws?token=
func (h *WebsocketHandler) Connect(c echo.Context) error {
	log := logger.FromEcho(c)

	token := c.QueryParam("token")
	if token == "" {
		prometheus.RecordAuthError("missing_token")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil || claims.Kind != jwtutil.KindAccess {
		prometheus.RecordAuthError("invalid_token")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
	}

	session, err := h.sessions.FindByAccessToken(c.Request().Context(), token)
	if err != nil || !session.IsValid() {
		prometheus.RecordAuthError("revoked_session")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn("Websocket upgrade failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return nil
	}

	log.Info("Websocket connected", zap.Uint("user_id", claims.UserID))
	client := realtime.NewClient(h.hub, conn, claims.UserID)
	client.Serve()
	return nil
}
