package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/repository"
	"github.com/Leganyst/booking-core/internal/service"
)

// createRestaurant — POST /v1/restaurants.
func (s *Server) createRestaurant(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req createRestaurantRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	opening, err := parseClock(req.OpeningTime)
	if err != nil {
		return err
	}
	closing, err := parseClock(req.ClosingTime)
	if err != nil {
		return err
	}

	r, err := s.restaurants.Create(c.Request().Context(), actor, service.CreateRestaurantInput{
		Name:               req.Name,
		Location:           req.Location,
		Cuisine:            req.Cuisine,
		OpeningTime:        opening,
		ClosingTime:        closing,
		BookingDurationMin: req.BookingDurationMin,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRestaurant(r))
}

// getRestaurant — GET /v1/restaurants/:id.
func (s *Server) getRestaurant(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	r, err := s.restaurants.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRestaurant(r))
}

// addTable — POST /v1/restaurants/:id/tables.
func (s *Server) addTable(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req addTableRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	t, err := s.restaurants.AddTable(c.Request().Context(), actor, id, req.Number, req.Capacity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTable(t))
}

// updateTable — PATCH /v1/tables/:id.
func (s *Server) updateTable(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateTableRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	var status *model.TableStatus
	if req.Status != nil {
		st := model.TableStatus(*req.Status)
		status = &st
	}
	t, err := s.restaurants.UpdateTable(c.Request().Context(), actor, id, status, req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTable(t))
}

// deactivateRestaurant — POST /v1/restaurants/:id/deactivate.
func (s *Server) deactivateRestaurant(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := s.restaurants.Deactivate(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// availability — GET /v1/restaurants/:id/availability?date=&time=&guests=.
func (s *Server) availability(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var q availabilityQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	date, err := parseDate(q.Date)
	if err != nil {
		return err
	}
	clock, err := parseClock(q.Time)
	if err != nil {
		return err
	}

	av, err := s.bookings.CheckAvailability(c.Request().Context(), id, date, clock, q.Guests)
	if err != nil {
		return err
	}
	tables := make([]tableResponse, 0, len(av.Tables))
	for i := range av.Tables {
		tables = append(tables, toTable(&av.Tables[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"available":        av.Available,
		"available_tables": tables,
		"count":            len(tables),
		"starts_at":        av.Interval.Start.Format(wallLayout),
		"ends_at":          av.Interval.End.Format(wallLayout),
	})
}

// slots — GET /v1/restaurants/:id/slots?date=&guests=.
func (s *Server) slots(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var q slotsQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	date, err := parseDate(q.Date)
	if err != nil {
		return err
	}
	grid, err := s.bookings.SlotGrid(c.Request().Context(), id, date, q.Guests)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"date": q.Date, "slots": grid})
}

// listRestaurants — GET /v1/restaurants?name=&location=&cuisine=&rating_min=&rating_max=.
func (s *Server) listRestaurants(c echo.Context) error {
	var q restaurantListQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	minRating, err := parseRating(q.RatingMin, "rating_min")
	if err != nil {
		return err
	}
	maxRating, err := parseRating(q.RatingMax, "rating_max")
	if err != nil {
		return err
	}
	page, err := s.restaurants.List(c.Request().Context(), repository.RestaurantFilter{
		Name:      q.Name,
		Location:  q.Location,
		Cuisine:   q.Cuisine,
		MinRating: minRating,
		MaxRating: maxRating,
	}, q.Page, q.PageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toRestaurant))
}

// featuredRestaurants — GET /v1/restaurants/featured: лучшие по оценке.
func (s *Server) featuredRestaurants(c echo.Context) error {
	list, err := s.restaurants.Featured(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]restaurantResponse, 0, len(list))
	for i := range list {
		out = append(out, toRestaurant(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"restaurants": out})
}

// cuisines — GET /v1/restaurants/cuisines.
func (s *Server) cuisines(c echo.Context) error {
	list, err := s.restaurants.Cuisines(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"cuisines": list})
}
