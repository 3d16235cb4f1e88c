package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/service"
)

// book — POST /v1/reservations от имени вызывающего.
func (s *Server) book(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req bookRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}
	clock, err := parseClock(req.Time)
	if err != nil {
		return err
	}

	r, err := s.bookings.Book(c.Request().Context(), service.BookRequest{
		UserID:              actor.UserID,
		RestaurantID:        uuid.MustParse(req.RestaurantID),
		Date:                date,
		Time:                clock,
		PartyGuests:         req.PartyGuests,
		Duration:            time.Duration(req.DurationMinutes) * time.Minute,
		SpecialRequests:     req.SpecialRequests,
		DietaryRestrictions: req.DietaryRestrictions,
		ChildsChair:         req.ChildsChair,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReservation(r))
}

// getReservation — GET /v1/reservations/:id.
func (s *Server) getReservation(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r, err := s.bookings.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservation(r))
}

// updateReservation — PATCH /v1/reservations/:id.
func (s *Server) updateReservation(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateReservationRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	upd := service.UpdateRequest{
		PartyGuests:         req.PartyGuests,
		SpecialRequests:     req.SpecialRequests,
		DietaryRestrictions: req.DietaryRestrictions,
		ChildsChair:         req.ChildsChair,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return err
		}
		upd.Date = &date
	}
	if req.Time != nil {
		clock, err := parseClock(*req.Time)
		if err != nil {
			return err
		}
		upd.Time = &clock
	}

	r, err := s.bookings.Update(c.Request().Context(), actor, id, upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservation(r))
}

// cancel — POST /v1/reservations/:id/cancel.
func (s *Server) cancel(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r, err := s.bookings.Cancel(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservation(r))
}

// transition — POST /v1/reservations/:id/status (персонал ресторана).
func (s *Server) transition(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req transitionRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	r, err := s.bookings.Transition(c.Request().Context(), actor, id, model.ReservationStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservation(r))
}

// upcoming — GET /v1/reservations/upcoming.
func (s *Server) upcoming(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var q pageQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination")
	}
	page, err := s.bookings.ListUpcoming(c.Request().Context(), actor.UserID, q.Page, q.PageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toReservation))
}

// history — GET /v1/reservations/history.
func (s *Server) history(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var q pageQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination")
	}
	page, err := s.bookings.ListHistory(c.Request().Context(), actor.UserID, q.Page, q.PageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toReservation))
}

// events — GET /v1/reservations/:id/events, журнал аудита.
func (s *Server) events(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var q pageQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination")
	}
	page, err := s.bookings.History(c.Request().Context(), actor, id, q.Page, q.PageSize)
	if err != nil {
		return err
	}
	items := make([]eventResponse, 0, len(page.Items))
	for _, ev := range page.Items {
		items = append(items, eventResponse{
			ID:        ev.ID,
			Type:      string(ev.EventType),
			UserID:    ev.UserID,
			Details:   ev.Details,
			CreatedAt: ev.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":     items,
		"page":      page.Page,
		"page_size": page.PageSize,
		"has_next":  page.HasNext,
		"has_prev":  page.HasPrev,
		"total":     page.Total,
	})
}
