package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	MinStayDays = 1
	MaxStayDays = 30

	DateLayout = "2006-01-02"
)

// Stay is a resolved stay window: [CheckIn, CheckOut) spanning Nights nights.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
	Nights   int
}

// TotalCost is nights * pricePerNight.
func (s Stay) TotalCost(pricePerNight float64) float64 {
	return float64(s.Nights) * pricePerNight
}

// Overlaps uses half-open semantics: a checkout on the day of another
// check-in is not an overlap.
func (r Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return r.CheckIn.Before(checkOut) && checkIn.Before(r.CheckOut)
}

// IsAvailable reports whether [checkIn, checkOut) overlaps none of the
// stored reservations. An empty list is always available.
func IsAvailable(reservations []Reservation, checkIn, checkOut time.Time) bool {
	for _, r := range reservations {
		if r.Overlaps(checkIn, checkOut) {
			return false
		}
	}
	return true
}

// ParseDate reads a calendar day as UTC midnight. Full RFC 3339 timestamps
// are accepted and truncated to their UTC day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return MidnightUTC(t), nil
}

func MidnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// NightsBetween counts whole days from checkIn to checkOut, flooring partial
// days. It works on Unix seconds: time.Sub saturates after about 292 years.
func NightsBetween(checkIn, checkOut time.Time) int {
	d := checkOut.Unix() - checkIn.Unix()
	n := d / secondsPerDay
	if d%secondsPerDay != 0 && d < 0 {
		n-- // floor, not truncation, for reversed ranges
	}
	return int(n)
}

// ResolveStay turns the optional checkIn/checkOut/days query values into a
// concrete window. A nil Stay with a nil error means the query is unconstrained.
func ResolveStay(checkIn, checkOut, days string) (*Stay, error) {
	checkIn, checkOut, days = strings.TrimSpace(checkIn), strings.TrimSpace(checkOut), strings.TrimSpace(days)

	switch {
	case checkIn == "" && checkOut == "":
		return nil, nil

	case checkIn == "":
		return nil, ErrMissingCheckIn

	case checkOut == "":
		if days == "" {
			return nil, ErrMissingDays
		}
		n, err := strconv.Atoi(days)
		if err != nil || n < MinStayDays || n > MaxStayDays {
			return nil, ErrDaysOutOfRange
		}
		in, err := ParseDate(checkIn)
		if err != nil {
			return nil, ErrInvalidDateRange
		}
		// AddDate on a UTC value never drifts across DST.
		return &Stay{CheckIn: in, CheckOut: in.AddDate(0, 0, n), Nights: n}, nil

	default:
		return NewStay(checkIn, checkOut)
	}
}

// NewStay parses an explicit checkIn/checkOut pair; both must be valid and
// at least one night apart.
func NewStay(checkIn, checkOut string) (*Stay, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return nil, ErrInvalidDateRange
	}
	nights := NightsBetween(in, out)
	if nights < 1 {
		return nil, ErrInvalidDateRange
	}
	return &Stay{CheckIn: in, CheckOut: out, Nights: nights}, nil
}
