package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/beckernir/AUCA-HR/internal/middleware"
	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/internal/service"
	"github.com/labstack/echo/v4"
)

// LeaveHandler exposes the leave request workflow
type LeaveHandler struct {
	leaves service.LeaveManager
}

// NewLeaveHandler creates the leave handler
func NewLeaveHandler(leaves service.LeaveManager) *LeaveHandler {
	return &LeaveHandler{leaves: leaves}
}

type submitLeaveRequest struct {
	LeaveType model.LeaveType `json:"leave_type" validate:"required"`
	StartDate string          `json:"start_date" validate:"required"`
	EndDate   string          `json:"end_date" validate:"required"`
	Reason    string          `json:"reason" validate:"required"`
}

// Submit handles POST /api/v1/leaves
func (h *LeaveHandler) Submit(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	var req submitLeaveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "leave_type, start_date, end_date and reason are required"})
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}

	request, err := h.leaves.Submit(requestContext(c), claims.UserID, service.SubmitLeaveInput{
		LeaveType: req.LeaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, request)
}

// MyRequests handles GET /api/v1/leaves/my-requests
func (h *LeaveHandler) MyRequests(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	requests, err := h.leaves.MyRequests(requestContext(c), claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// All handles GET /api/v1/leaves
func (h *LeaveHandler) All(c echo.Context) error {
	requests, err := h.leaves.All(requestContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// Pending handles GET /api/v1/leaves/pending
func (h *LeaveHandler) Pending(c echo.Context) error {
	requests, err := h.leaves.Pending(requestContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// PendingCount handles GET /api/v1/leaves/pending/count
func (h *LeaveHandler) PendingCount(c echo.Context) error {
	count, err := h.leaves.PendingCount(requestContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// Search handles GET /api/v1/leaves/search?q=
func (h *LeaveHandler) Search(c echo.Context) error {
	term := c.QueryParam("q")
	if term == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q query parameter is required"})
	}

	requests, err := h.leaves.Search(requestContext(c), term)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, requests)
}

// Balance handles GET /api/v1/leaves/balance?year=
func (h *LeaveHandler) Balance(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	year := time.Now().Year()
	if raw := c.QueryParam("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "year must be a number"})
		}
		year = parsed
	}

	balance, err := h.leaves.RemainingBalance(requestContext(c), claims.UserID, year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, balance)
}

// Get handles GET /api/v1/leaves/:id. Non-HR callers may only read their own
// requests.
func (h *LeaveHandler) Get(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	request, err := h.leaves.Get(requestContext(c), id)
	if err != nil {
		return respondError(c, err)
	}

	claims := middleware.CurrentUser(c)
	if claims.Role != string(model.RoleHR) && request.RequesterID != claims.UserID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only view your own leave requests"})
	}
	return c.JSON(http.StatusOK, request)
}

// Approve handles PUT /api/v1/leaves/:id/approve?comments=
func (h *LeaveHandler) Approve(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	claims := middleware.CurrentUser(c)

	request, err := h.leaves.Approve(requestContext(c), id, claims.UserID, c.QueryParam("comments"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, request)
}

// Reject handles PUT /api/v1/leaves/:id/reject?comments=
func (h *LeaveHandler) Reject(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	claims := middleware.CurrentUser(c)

	request, err := h.leaves.Reject(requestContext(c), id, claims.UserID, c.QueryParam("comments"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, request)
}

// Cancel handles PUT /api/v1/leaves/:id/cancel
func (h *LeaveHandler) Cancel(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	claims := middleware.CurrentUser(c)

	request, err := h.leaves.Cancel(requestContext(c), id, claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, request)
}
