package domain

import "errors"

// Kind distinguishes request-scoped failures. None of them is retriable.
type Kind string

const (
	KindMissingCheckIn   Kind = "MissingCheckIn"
	KindMissingDays      Kind = "MissingDays"
	KindDaysOutOfRange   Kind = "DaysOutOfRange"
	KindInvalidDateRange Kind = "InvalidDateRange"
	KindMissingDates     Kind = "MissingDates"
	KindHotelNotFound    Kind = "HotelNotFound"
	KindHotelUnavailable Kind = "HotelUnavailable"
	KindMissingFields    Kind = "MissingFields"
	KindInvalidRating    Kind = "InvalidRating"
	KindInvalidHotel     Kind = "InvalidHotel"
)

type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Is matches any *Error of the same kind, so callers can compare against the
// sentinels below even when the message was customised.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrMissingCheckIn   = &Error{KindMissingCheckIn, "checkIn is required when checkOut is provided"}
	ErrMissingDays      = &Error{KindMissingDays, "days is required when checkOut is not provided"}
	ErrDaysOutOfRange   = &Error{KindDaysOutOfRange, "days must be an integer between 1 and 30"}
	ErrInvalidDateRange = &Error{KindInvalidDateRange, "checkOut must be a valid date after checkIn"}
	ErrMissingDates     = &Error{KindMissingDates, "checkIn and checkOut are required"}
	ErrHotelNotFound    = &Error{KindHotelNotFound, "hotel not found"}
	ErrHotelUnavailable = &Error{KindHotelUnavailable, "hotel not available for the selected dates"}
	ErrMissingFields    = &Error{KindMissingFields, "user and rating are required"}
	ErrInvalidRating    = &Error{KindInvalidRating, "rating must be an integer between 1 and 10"}
	ErrInvalidHotel     = &Error{KindInvalidHotel, "invalid hotel"}
)

// InvalidHotel builds an ErrInvalidHotel-kind error with a specific message.
func InvalidHotel(msg string) error { return &Error{Kind: KindInvalidHotel, Msg: msg} }

// KindOf reports the kind of err, or "" for infrastructure errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
