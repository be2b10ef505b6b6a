package domain

import "time"

type Hotel struct {
	ID            string
	Name          string
	Description   string
	Stars         int
	City          string
	Country       string
	PricePerNight float64
	Amenities     []string
	Photos        []string
	Reservations  []Reservation // append-only, pairwise non-overlapping
	Reviews       []Review      // append-only
	CreatedAt     time.Time
}

// Reservation is a half-open stay [CheckIn, CheckOut) at UTC midnight.
type Reservation struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewHotel is the creation payload; tags are checked by the app layer.
type NewHotel struct {
	Name          string   `validate:"required"`
	Description   string   `validate:"omitempty,max=4000"`
	Stars         int      `validate:"required,min=1,max=5"`
	City          string   `validate:"required"`
	Country       string   `validate:"omitempty"`
	PricePerNight float64  `validate:"required,gt=0"`
	Amenities     []string `validate:"omitempty,dive,required"`
	Photos        []string `validate:"omitempty,dive,url"`
}

// Clone returns a copy that shares no slices with h.
func (h Hotel) Clone() Hotel {
	out := h
	out.Amenities = append([]string(nil), h.Amenities...)
	out.Photos = append([]string(nil), h.Photos...)
	out.Reservations = append([]Reservation(nil), h.Reservations...)
	out.Reviews = append([]Review(nil), h.Reviews...)
	return out
}
