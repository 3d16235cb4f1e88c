package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Leganyst/booking-core/internal/service"
)

// addReview — POST /v1/restaurants/:id/reviews. Один отзыв на пользователя.
func (s *Server) addReview(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	r, err := s.reviews.Add(c.Request().Context(), actor, id, service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReview(r))
}

// listReviews — GET /v1/restaurants/:id/reviews, новые сначала.
func (s *Server) listReviews(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var q pageQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination")
	}
	page, err := s.reviews.List(c.Request().Context(), id, q.Page, q.PageSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapPage(page, toReview))
}
