package domain

import (
	"context"
	"strings"
	"time"
)

type HotelRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, h Hotel) error
	// AppendReservation must be atomic per hotel: the reservation is stored
	// only if it overlaps none of the stored ones, otherwise ErrHotelUnavailable.
	AppendReservation(ctx context.Context, hotelID string, r Reservation) (Hotel, error)
	AppendReview(ctx context.Context, hotelID string, r Review) (Hotel, error)

	// Read paths
	GetHotel(ctx context.Context, id string) (Hotel, error)
	FindHotels(ctx context.Context, f HotelFilter) ([]Hotel, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}

// HotelFilter holds the non-date search criteria. Zero values mean "any".
// City, Country and Name match case-insensitive substrings.
type HotelFilter struct {
	Stars    *int
	City     string
	Country  string
	Name     string
	MinPrice *float64
	MaxPrice *float64
}

// SearchQuery is a HotelFilter plus the raw date-window inputs.
type SearchQuery struct {
	HotelFilter
	CheckIn  string
	CheckOut string
	Days     string
}

type PricedHotel struct {
	Hotel
	Stay      *Stay
	TotalCost *float64
}

type SearchResult struct {
	Stay   *Stay
	Hotels []PricedHotel
	Count  int
}

const (
	EventReservationCreated = "hotel.reservation.created"
	EventReviewAdded        = "hotel.review.added"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	HotelID    string    `json:"hotelId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Matches applies f in process; storage backends with a query language
// translate the same rules instead.
func (f HotelFilter) Matches(h Hotel) bool {
	if f.Stars != nil && h.Stars != *f.Stars {
		return false
	}
	if !containsFold(h.City, f.City) || !containsFold(h.Country, f.Country) || !containsFold(h.Name, f.Name) {
		return false
	}
	if f.MinPrice != nil && h.PricePerNight < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && h.PricePerNight > *f.MaxPrice {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
