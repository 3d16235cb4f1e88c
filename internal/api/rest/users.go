package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/service"
)

// registerUser — POST /v1/users.
func (s *Server) registerUser(c echo.Context) error {
	var req registerUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	var caller *service.Actor
	if actor, err := actorFrom(c); err == nil {
		caller = &actor
	}
	u, err := s.identity.RegisterUser(c.Request().Context(), caller, req.Email, req.DisplayName, req.Phone, model.UserRole(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUser(u))
}

// me — GET /v1/users/me.
func (s *Server) me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	u, err := s.identity.GetProfile(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUser(u))
}

// setUserActive — PATCH /v1/users/:id (только администратор).
func (s *Server) setUserActive(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req setActiveRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if err := s.identity.SetActive(c.Request().Context(), actor, id, *req.IsActive); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
