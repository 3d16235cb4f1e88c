package booking

import (
	"errors"
	"fmt"
)

// ValidationKind — нарушенное правило ресторана.
type ValidationKind string

const (
	DateInPast            ValidationKind = "date_in_past"
	TimeInPast            ValidationKind = "time_in_past"
	OutsideBookingHorizon ValidationKind = "outside_booking_horizon"
	OutsideOperatingHours ValidationKind = "outside_operating_hours"
	RestaurantInactive    ValidationKind = "restaurant_inactive"
	InvalidParty          ValidationKind = "invalid_party"
)

// ValidationError всегда исправим вызывающим, текст можно показать пользователю.
type ValidationError struct {
	Kind   ValidationKind
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return e.Detail
}

// Is совпадает с любым *ValidationError того же вида.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

func newValidationError(kind ValidationKind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// ErrorKind — класс отказа бронирования.
type ErrorKind string

const (
	InvalidRequest  ErrorKind = "invalid_request"
	NoAvailability  ErrorKind = "no_availability"
	TooLateToCancel ErrorKind = "too_late_to_cancel"
	InvalidState    ErrorKind = "invalid_state"
)

// BookingError возвращает защита от пересечений. InvalidRequest оборачивает
// вызвавший его *ValidationError.
type BookingError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *BookingError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *BookingError) Unwrap() error { return e.Err }

// Is совпадает с любым *BookingError того же вида.
func (e *BookingError) Is(target error) bool {
	t, ok := target.(*BookingError)
	return ok && t.Kind == e.Kind
}

// Образцы для errors.Is.
var (
	ErrDateInPast            = &ValidationError{Kind: DateInPast}
	ErrTimeInPast            = &ValidationError{Kind: TimeInPast}
	ErrOutsideBookingHorizon = &ValidationError{Kind: OutsideBookingHorizon}
	ErrOutsideOperatingHours = &ValidationError{Kind: OutsideOperatingHours}
	ErrRestaurantInactive    = &ValidationError{Kind: RestaurantInactive}
	ErrInvalidParty          = &ValidationError{Kind: InvalidParty}

	ErrInvalidRequest  = &BookingError{Kind: InvalidRequest}
	ErrNoAvailability  = &BookingError{Kind: NoAvailability}
	ErrTooLateToCancel = &BookingError{Kind: TooLateToCancel}
	ErrInvalidState    = &BookingError{Kind: InvalidState}
)

// ErrNoTableAvailable — штатный исход распределителя «ничего не подошло».
var ErrNoTableAvailable = errors.New("no table available")

// Invalid оборачивает ошибку валидации в InvalidRequest.
func Invalid(err error) *BookingError {
	return &BookingError{Kind: InvalidRequest, Err: err}
}

// Unavailable: под запрос не нашлось стола.
func Unavailable(detail string) *BookingError {
	return &BookingError{Kind: NoAvailability, Detail: detail}
}

// BadState: текущий статус брони не допускает перехода.
func BadState(format string, args ...any) *BookingError {
	return &BookingError{Kind: InvalidState, Detail: fmt.Sprintf(format, args...)}
}

// KindOf возвращает вид ошибки бронирования или "", если err не *BookingError.

func KindOf(err error) ErrorKind {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
