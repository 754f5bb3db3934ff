package handler

import (
	"net/http"
	"time"

	"github.com/beckernir/AUCA-HR/pkg/database"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports process and database health
type HealthHandler struct {
	serviceName string
	startedAt   time.Time
}

// NewHealthHandler creates the health handler
func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		startedAt:   time.Now(),
	}
}

// Check handles GET /health
func (h *HealthHandler) Check(c echo.Context) error {
	dbStatus := "up"
	if db := database.GetDB(); db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "down"
		}
	} else {
		dbStatus = "down"
	}

	status := http.StatusOK
	overall := "ok"
	if dbStatus == "down" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	return c.JSON(status, echo.Map{
		"status":   overall,
		"service":  h.serviceName,
		"database": dbStatus,
		"uptime":   time.Since(h.startedAt).String(),
	})
}
