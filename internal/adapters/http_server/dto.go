package httpserver

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"travel_hotels/internal/domain"
)

type reservationJSON struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

type reviewJSON struct {
	User      string    `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type hotelJSON struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Stars         int               `json:"stars"`
	City          string            `json:"city"`
	Country       string            `json:"country,omitempty"`
	PricePerNight float64           `json:"pricePerNight"`
	Amenities     []string          `json:"amenities"`
	Photos        []string          `json:"photos"`
	Reservations  []reservationJSON `json:"reservations"`
	Reviews       []reviewJSON      `json:"reviews"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// pricedHotelJSON carries the stay annotations; they are null when the
// search had no date window.
type pricedHotelJSON struct {
	hotelJSON
	Nights        *int     `json:"nights"`
	FinalCheckIn  *string  `json:"finalCheckIn"`
	FinalCheckOut *string  `json:"finalCheckOut"`
	TotalCost     *float64 `json:"totalCost"`
}

type searchJSON struct {
	Count         int               `json:"count"`
	Nights        *int              `json:"nights"`
	FinalCheckIn  *string           `json:"finalCheckIn"`
	FinalCheckOut *string           `json:"finalCheckOut"`
	Hotels        []pricedHotelJSON `json:"hotels"`
}

type hotelEnvelope struct {
	Msg   string    `json:"msg"`
	Hotel hotelJSON `json:"hotel"`
}

type createHotelRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Stars         int      `json:"stars"`
	City          string   `json:"city"`
	Country       string   `json:"country"`
	PricePerNight float64  `json:"pricePerNight"`
	Amenities     []string `json:"amenities"`
	Photos        []string `json:"photos"`
}

type reserveRequest struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

type reviewRequest struct {
	User    string      `json:"user"`
	Rating  *flexNumber `json:"rating"`
	Comment string      `json:"comment"`
}

// flexNumber accepts 8, 8.5 or "8". Anything that is not a number decodes
// to NaN so the review writer reports it as an invalid rating.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = flexNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*n = flexNumber(f)
			return nil
		}
	}
	*n = flexNumber(math.NaN())
	return nil
}

func toHotelJSON(h domain.Hotel) hotelJSON {
	out := hotelJSON{
		ID:            h.ID,
		Name:          h.Name,
		Description:   h.Description,
		Stars:         h.Stars,
		City:          h.City,
		Country:       h.Country,
		PricePerNight: h.PricePerNight,
		Amenities:     nonNil(h.Amenities),
		Photos:        nonNil(h.Photos),
		Reservations:  make([]reservationJSON, 0, len(h.Reservations)),
		Reviews:       make([]reviewJSON, 0, len(h.Reviews)),
		CreatedAt:     h.CreatedAt,
	}
	for _, r := range h.Reservations {
		out.Reservations = append(out.Reservations, reservationJSON{
			CheckIn:  r.CheckIn.Format(domain.DateLayout),
			CheckOut: r.CheckOut.Format(domain.DateLayout),
		})
	}
	for _, rv := range h.Reviews {
		out.Reviews = append(out.Reviews, reviewJSON{User: rv.User, Rating: rv.Rating, Comment: rv.Comment, CreatedAt: rv.CreatedAt})
	}
	return out
}

func toSearchJSON(res domain.SearchResult) searchJSON {
	out := searchJSON{Count: res.Count, Hotels: make([]pricedHotelJSON, 0, len(res.Hotels))}
	out.Nights, out.FinalCheckIn, out.FinalCheckOut = stayFields(res.Stay)
	for _, ph := range res.Hotels {
		p := pricedHotelJSON{hotelJSON: toHotelJSON(ph.Hotel), TotalCost: ph.TotalCost}
		p.Nights, p.FinalCheckIn, p.FinalCheckOut = stayFields(ph.Stay)
		out.Hotels = append(out.Hotels, p)
	}
	return out
}

func stayFields(s *domain.Stay) (*int, *string, *string) {
	if s == nil {
		return nil, nil, nil
	}
	nights := s.Nights
	in, out := s.CheckIn.Format(domain.DateLayout), s.CheckOut.Format(domain.DateLayout)
	return &nights, &in, &out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
