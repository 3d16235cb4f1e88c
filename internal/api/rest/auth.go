package rest

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/service"
)

const actorKey = "actor"

// Claims — полезная нагрузка токена доступа, в sub лежит UUID пользователя.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken выпускает HS256-токен для actor.
func SignToken(secret []byte, actor service.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// parseActor проверяет bearer-токен и превращает его claims в Actor.
func parseActor(secret []byte, header string) (service.Actor, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return service.Actor{}, ErrUnauthenticated
	}

	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return service.Actor{}, ErrUnauthenticated
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return service.Actor{}, ErrUnauthenticated
	}
	role := model.UserRole(claims.Role)
	switch role {
	case model.UserRoleCustomer, model.UserRoleOwner, model.UserRoleAdmin:
	default:
		return service.Actor{}, ErrUnauthenticated
	}
	return service.Actor{UserID: id, Role: role}, nil
}

// JWTAuth отклоняет запросы без валидного токена и кладёт вызывающего
// в контекст как service.Actor.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := parseActor(secret, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// optionalAuth кладёт вызывающего в контекст, если токен есть, и пропускает анонимов.

func optionalAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if actor, err := parseActor(secret, c.Request().Header.Get(echo.HeaderAuthorization)); err == nil {
				c.Set(actorKey, actor)
			}
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (service.Actor, error) {
	actor, ok := c.Get(actorKey).(service.Actor)
	if !ok {
		return service.Actor{}, ErrUnauthenticated
	}
	return actor, nil
}
