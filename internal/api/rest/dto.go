package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"

	"github.com/Leganyst/booking-core/internal/calendar"
	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/service"
	"github.com/Leganyst/booking-core/internal/utils"
)

const dateLayout = "2006-01-02"

type registerUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=32"`
	Role        string `json:"role" validate:"omitempty,oneof=customer owner admin"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type createRestaurantRequest struct {
	Name               string `json:"name" validate:"required,max=100"`
	Location           string `json:"location" validate:"max=100"`
	Cuisine            string `json:"cuisine" validate:"max=100"`
	OpeningTime        string `json:"opening_time" validate:"required"`
	ClosingTime        string `json:"closing_time" validate:"required"`
	BookingDurationMin *int64 `json:"booking_duration_minutes" validate:"omitempty,min=1,max=720"`
}

type addTableRequest struct {
	Number   int `json:"number" validate:"required,min=1"`
	Capacity int `json:"capacity" validate:"required"`
}

type updateTableRequest struct {
	Status   *string `json:"status" validate:"omitempty,oneof=available occupied maintenance"`
	IsActive *bool   `json:"is_active"`
}

type availabilityQuery struct {
	Date   string `query:"date" validate:"required,datetime=2006-01-02"`
	Time   string `query:"time" validate:"required"`
	Guests int    `query:"guests"`
}

type slotsQuery struct {
	Date   string `query:"date" validate:"required,datetime=2006-01-02"`
	Guests int    `query:"guests" validate:"min=0"`
}

type restaurantListQuery struct {
	Name      string `query:"name" validate:"max=100"`
	Location  string `query:"location" validate:"max=100"`
	Cuisine   string `query:"cuisine" validate:"max=100"`
	RatingMin string `query:"rating_min" validate:"omitempty,numeric"`
	RatingMax string `query:"rating_max" validate:"omitempty,numeric"`
	Page      int    `query:"page"`
	PageSize  int    `query:"page_size"`
}

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=2000"`
}

type pageQuery struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

type bookRequest struct {
	RestaurantID        string `json:"restaurant_id" validate:"required,uuid"`
	Date                string `json:"date" validate:"required,datetime=2006-01-02"`
	Time                string `json:"time" validate:"required"`
	PartyGuests         int    `json:"party_guests"`
	DurationMinutes     int    `json:"duration_minutes" validate:"min=0,max=720"`
	SpecialRequests     string `json:"special_requests" validate:"max=1000"`
	DietaryRestrictions string `json:"dietary_restrictions" validate:"max=1000"`
	ChildsChair         bool   `json:"childs_chair"`
}

type updateReservationRequest struct {
	Date                *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time                *string `json:"time"`
	PartyGuests         *int    `json:"party_guests"`
	SpecialRequests     *string `json:"special_requests" validate:"omitempty,max=1000"`
	DietaryRestrictions *string `json:"dietary_restrictions" validate:"omitempty,max=1000"`
	ChildsChair         *bool   `json:"childs_chair"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed seated completed no_show cancelled"`
}

// bindValid разбирает запрос в dst и прогоняет валидацию структуры.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(dst)
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed id %q", service.ErrInvalidInput, c.Param("id"))
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", service.ErrInvalidInput)
	}
	return d, nil
}

// parseRating разбирает необязательную границу оценки; пустая строка — без границы.
func parseRating(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 5 {
		return nil, fmt.Errorf("%w: %s must be a number between 0 and 5", service.ErrInvalidInput, name)
	}
	return &v, nil
}

func parseClock(s string) (time.Duration, error) {
	clock, err := utils.ParseClock(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	return clock, nil
}

type userResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone,omitempty"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
}

func toUser(u *model.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
	}
}

type restaurantResponse struct {
	ID                     uuid.UUID `json:"id"`
	OwnerID                uuid.UUID `json:"owner_id"`
	Name                   string    `json:"name"`
	Location               string    `json:"location,omitempty"`
	Cuisine                string    `json:"cuisine,omitempty"`
	OpeningTime            string    `json:"opening_time"`
	ClosingTime            string    `json:"closing_time"`
	BookingDurationMinutes *int64    `json:"booking_duration_minutes,omitempty"`
	Rating                 float64   `json:"rating"`
	ReviewCount            int64     `json:"review_count"`
	IsActive               bool      `json:"is_active"`
}

func toRestaurant(r *model.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:                     r.ID,
		OwnerID:                r.OwnerID,
		Name:                   r.Name,
		Location:               r.Location,
		Cuisine:                r.Cuisine,
		OpeningTime:            utils.FormatClock(time.Duration(r.OpeningTime)),
		ClosingTime:            utils.FormatClock(time.Duration(r.ClosingTime)),
		BookingDurationMinutes: r.BookingDurationMin,
		Rating:                 r.Rating,
		ReviewCount:            r.ReviewCount,
		IsActive:               r.IsActive,
	}
}

type tableResponse struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Number       int       `json:"number"`
	Capacity     int       `json:"capacity"`
	Status       string    `json:"status"`
	IsActive     bool      `json:"is_active"`
}

func toTable(t *model.Table) tableResponse {
	return tableResponse{
		ID:           t.ID,
		RestaurantID: t.RestaurantID,
		Number:       t.Number,
		Capacity:     t.Capacity,
		Status:       string(t.Status),
		IsActive:     t.IsActive,
	}
}

type reservationResponse struct {
	ID                  uuid.UUID  `json:"id"`
	UserID              uuid.UUID  `json:"user_id"`
	RestaurantID        uuid.UUID  `json:"restaurant_id"`
	TableID             uuid.UUID  `json:"table_id"`
	Date                string     `json:"date"`
	Time                string     `json:"time"`
	DurationMinutes     int64      `json:"duration_minutes"`
	StartsAt            string     `json:"starts_at"`
	EndsAt              string     `json:"ends_at"`
	PartyGuests         int        `json:"party_guests"`
	Status              string     `json:"status"`
	SpecialRequests     string     `json:"special_requests,omitempty"`
	DietaryRestrictions string     `json:"dietary_restrictions,omitempty"`
	ChildsChair         bool       `json:"childs_chair"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
}

// wallLayout печатает границы интервала без зоны: это местное время ресторана.
const wallLayout = "2006-01-02T15:04"

func toReservation(r *model.Reservation) reservationResponse {
	tr := r.Interval()
	return reservationResponse{
		ID:                  r.ID,
		UserID:              r.UserID,
		RestaurantID:        r.RestaurantID,
		TableID:             r.TableID,
		Date:                tr.Start.Format(dateLayout),
		Time:                utils.FormatClock(time.Duration(r.RequestedTime)),
		DurationMinutes:     r.DurationMin,
		StartsAt:            tr.Start.Format(wallLayout),
		EndsAt:              tr.End.Format(wallLayout),
		PartyGuests:         r.PartyGuests,
		Status:              string(r.Status),
		SpecialRequests:     r.SpecialRequests,
		DietaryRestrictions: r.DietaryRestrictions,
		ChildsChair:         r.ChildsChair,
		CancelledAt:         r.CancelledAt,
	}
}

// mapPage переносит метаданные страницы и отображает элементы через fn.
func mapPage[T, R any](p calendar.Page[T], fn func(*T) R) calendar.Page[R] {
	items := make([]R, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, fn(&p.Items[i]))
	}
	return calendar.Page[R]{
		Items:    items,
		Page:     p.Page,
		PageSize: p.PageSize,
		HasNext:  p.HasNext,
		HasPrev:  p.HasPrev,
		Total:    p.Total,
	}
}

type eventResponse struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	UserID    *uuid.UUID     `json:"user_id,omitempty"`
	Details   datatypes.JSON `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type reviewResponse struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	UserID       uuid.UUID `json:"user_id"`
	Author       string    `json:"author,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

func toReview(r *model.Review) reviewResponse {
	out := reviewResponse{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		UserID:       r.UserID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
	if r.User != nil {
		out.Author = r.User.DisplayName
	}
	return out
}
