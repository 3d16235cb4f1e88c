package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Leganyst/booking-core/internal/booking"
	"github.com/Leganyst/booking-core/internal/calendar"
	"github.com/Leganyst/booking-core/internal/service"
)

// ErrUnauthenticated: в запросе нет годного bearer-токена.
var ErrUnauthenticated = errors.New("unauthenticated")

// HTTPErrorInfo — HTTP-статус и машинный код ошибки.
type HTTPErrorInfo struct {
	Status int
	Code   string
	// Пусто, если текст самой ошибки можно показывать.
	Message string
}

// ErrorMapping — одно соответствие ошибки и HTTP-статуса.
type ErrorMapping struct {
	Error   error
	Status  int
	Code    string
	Message string
}

// ErrorMapper переводит доменные ошибки в HTTP-статусы. Соответствия
// проверяются через errors.Is в порядке регистрации.
type ErrorMapper struct {
	mappings       []ErrorMapping
	defaultStatus  int
	defaultMessage string
}

func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		defaultStatus:  http.StatusInternalServerError,
		defaultMessage: "internal server error",
	}
}

// WithMapping добавляет соответствие.
func (m *ErrorMapper) WithMapping(err error, status int, code, message string) *ErrorMapper {
	m.mappings = append(m.mappings, ErrorMapping{Error: err, Status: status, Code: code, Message: message})
	return m
}

// Map возвращает HTTP-статус и код для ошибки.
func (m *ErrorMapper) Map(err error) HTTPErrorInfo {
	if err == nil {
		return HTTPErrorInfo{Status: http.StatusOK}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPErrorInfo{Status: http.StatusGatewayTimeout, Code: "timeout", Message: "request timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return HTTPErrorInfo{Status: http.StatusServiceUnavailable, Code: "cancelled", Message: "request cancelled"}
	}

	for _, mapping := range m.mappings {
		if errors.Is(err, mapping.Error) {
			return HTTPErrorInfo{Status: mapping.Status, Code: mapping.Code, Message: mapping.Message}
		}
	}

	return HTTPErrorInfo{Status: m.defaultStatus, Code: "internal", Message: m.defaultMessage}
}

// DefaultErrorMapper знает ошибки бронирования и сервисные образцы.
func DefaultErrorMapper() *ErrorMapper {
	return NewErrorMapper().
		WithMapping(ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "missing or invalid bearer token").
		WithMapping(service.ErrForbidden, http.StatusForbidden, "forbidden", "forbidden").
		WithMapping(service.ErrNotFound, http.StatusNotFound, "not_found", "not found").
		WithMapping(service.ErrInvalidInput, http.StatusBadRequest, "invalid_input", "").
		WithMapping(service.ErrAlreadyReviewed, http.StatusConflict, "already_reviewed", "restaurant already reviewed by this user").
		WithMapping(calendar.ErrInvalidUserID, http.StatusBadRequest, "invalid_input", "").
		WithMapping(booking.ErrInvalidRequest, http.StatusBadRequest, string(booking.InvalidRequest), "").
		WithMapping(booking.ErrNoAvailability, http.StatusConflict, string(booking.NoAvailability), "").
		WithMapping(booking.ErrTooLateToCancel, http.StatusConflict, string(booking.TooLateToCancel), "").
		WithMapping(booking.ErrInvalidState, http.StatusConflict, string(booking.InvalidState), "")
}

// errorBody собирает JSON-тело ошибки.
func errorBody(err error, info HTTPErrorInfo) echo.Map {
	msg := info.Message
	if msg == "" {
		msg = err.Error()
	}
	body := echo.Map{"error": info.Code, "message": msg}

	var ve *booking.ValidationError
	if errors.As(err, &ve) {
		body["reason"] = ve.Kind
		body["message"] = ve.Error()
	}
	if errors.Is(err, booking.ErrNoAvailability) {
		body["available"] = false
	}
	return body
}

// handleError — HTTPErrorHandler для echo.

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status int
		body   echo.Map
		he     *echo.HTTPError
		verr   validator.ValidationErrors
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		fields := make(map[string]string, len(verr))
		for _, fe := range verr {
			fields[fe.Field()] = fe.Tag()
		}
		body = echo.Map{"error": "invalid_input", "message": "request validation failed", "fields": fields}
	case errors.As(err, &he):
		status = he.Code
		body = echo.Map{"error": http.StatusText(he.Code), "message": fmt.Sprint(he.Message)}
	default:
		info := s.errors.Map(err)
		status = info.Status
		body = errorBody(err, info)
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		s.log.Warn("write error response", "error", err)
	}
}
