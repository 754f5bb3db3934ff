package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/beckernir/AUCA-HR/pkg/apperror"
	"github.com/beckernir/AUCA-HR/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var validate = validator.New()

// requestContext binds the request-scoped logger into the context handed to
// the service layer.
func requestContext(c echo.Context) context.Context {
	return logger.WithContext(c.Request().Context(), logger.FromEcho(c))
}

// respondError maps a service error to its HTTP status and a JSON body
func respondError(c echo.Context, err error) error {
	code := apperror.GetCode(err)
	status := apperror.HTTPStatus(code)
	if status == http.StatusInternalServerError {
		logger.FromEcho(c).Error("Request failed", zap.Error(err))
		return c.JSON(status, echo.Map{"error": "internal server error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperror.New(apperror.CodeValidation, "invalid "+name+" parameter")
	}
	return uint(value), nil
}
