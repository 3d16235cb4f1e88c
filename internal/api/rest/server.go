package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Leganyst/booking-core/internal/service"
)

// Deps — сервисы, на которых стоит HTTP API.
type Deps struct {
	Bookings    *service.BookingService
	Restaurants *service.RestaurantService
	Identity    *service.IdentityService
	Reviews     *service.ReviewService
	// Ping для /healthz: доступно ли хранилище.
	Ping      func(ctx context.Context) error
	JWTSecret []byte
	Log       *slog.Logger
}

type Server struct {
	bookings    *service.BookingService
	restaurants *service.RestaurantService
	identity    *service.IdentityService
	reviews     *service.ReviewService
	ping        func(ctx context.Context) error
	secret      []byte
	errors      *ErrorMapper
	log         *slog.Logger
}

type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

// New собирает echo со всеми маршрутами.
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	s := &Server{
		bookings:    d.Bookings,
		restaurants: d.Restaurants,
		identity:    d.Identity,
		reviews:     d.Reviews,
		ping:        d.Ping,
		secret:      d.JWTSecret,
		errors:      DefaultErrorMapper(),
		log:         d.Log,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			s.log.LogAttrs(c.Request().Context(), level, "http request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	s.register(e)
	return e
}

func (s *Server) register(e *echo.Echo) {
	e.GET("/healthz", s.health)

	// Регистрация открыта; с токеном администратора можно выдать роль выше customer.
	e.POST("/v1/users", s.registerUser, optionalAuth(s.secret))

	// Каталог и отзывы читаются без токена.
	e.GET("/v1/restaurants", s.listRestaurants)
	e.GET("/v1/restaurants/featured", s.featuredRestaurants)
	e.GET("/v1/restaurants/cuisines", s.cuisines)
	e.GET("/v1/restaurants/:id", s.getRestaurant)
	e.GET("/v1/restaurants/:id/reviews", s.listReviews)

	v1 := e.Group("/v1", JWTAuth(s.secret))

	v1.GET("/users/me", s.me)
	v1.PATCH("/users/:id", s.setUserActive)

	v1.POST("/restaurants", s.createRestaurant)
	v1.POST("/restaurants/:id/reviews", s.addReview)
	v1.POST("/restaurants/:id/tables", s.addTable)
	v1.POST("/restaurants/:id/deactivate", s.deactivateRestaurant)
	v1.GET("/restaurants/:id/availability", s.availability)
	v1.GET("/restaurants/:id/slots", s.slots)
	v1.PATCH("/tables/:id", s.updateTable)

	v1.POST("/reservations", s.book)
	v1.GET("/reservations/upcoming", s.upcoming)
	v1.GET("/reservations/history", s.history)
	v1.GET("/reservations/:id", s.getReservation)
	v1.PATCH("/reservations/:id", s.updateReservation)
	v1.POST("/reservations/:id/cancel", s.cancel)
	v1.POST("/reservations/:id/status", s.transition)
	v1.GET("/reservations/:id/events", s.events)
}

// health — GET /healthz: 200, если БД отвечает, иначе 503.
func (s *Server) health(c echo.Context) error {
	if s.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			s.log.Warn("health check failed", slog.Any("error", err))
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
