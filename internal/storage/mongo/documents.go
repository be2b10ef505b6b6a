package mongo

import (
	"time"

	"travel_hotels/internal/domain"
)

// hotelDocument uses the camelCase field names of the hotels collection.
type hotelDocument struct {
	ID            string                `bson:"_id"`
	Name          string                `bson:"name"`
	Description   string                `bson:"description"`
	Stars         int                   `bson:"stars"`
	City          string                `bson:"city"`
	Country       string                `bson:"country,omitempty"`
	PricePerNight float64               `bson:"pricePerNight"`
	Amenities     []string              `bson:"amenities"`
	Photos        []string              `bson:"photos"`
	Reservations  []reservationDocument `bson:"reservations"`
	Reviews       []reviewDocument      `bson:"reviews"`
	CreatedAt     time.Time             `bson:"createdAt"`
	Version       int64                 `bson:"version"`
}

type reservationDocument struct {
	CheckIn  time.Time `bson:"checkIn"`
	CheckOut time.Time `bson:"checkOut"`
}

type reviewDocument struct {
	User      string    `bson:"user"`
	Rating    int       `bson:"rating"`
	Comment   string    `bson:"comment,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}

func newHotelDocument(h domain.Hotel) hotelDocument {
	doc := hotelDocument{
		ID:            h.ID,
		Name:          h.Name,
		Description:   h.Description,
		Stars:         h.Stars,
		City:          h.City,
		Country:       h.Country,
		PricePerNight: h.PricePerNight,
		Amenities:     nonNil(h.Amenities),
		Photos:        nonNil(h.Photos),
		Reservations:  make([]reservationDocument, 0, len(h.Reservations)),
		Reviews:       make([]reviewDocument, 0, len(h.Reviews)),
		CreatedAt:     h.CreatedAt.UTC(),
	}
	for _, r := range h.Reservations {
		doc.Reservations = append(doc.Reservations, newReservationDocument(r))
	}
	for _, rv := range h.Reviews {
		doc.Reviews = append(doc.Reviews, newReviewDocument(rv))
	}
	return doc
}

func newReservationDocument(r domain.Reservation) reservationDocument {
	return reservationDocument{CheckIn: r.CheckIn.UTC(), CheckOut: r.CheckOut.UTC()}
}

func newReviewDocument(rv domain.Review) reviewDocument {
	return reviewDocument{User: rv.User, Rating: rv.Rating, Comment: rv.Comment, CreatedAt: rv.CreatedAt.UTC()}
}

func (d hotelDocument) toDomain() domain.Hotel {
	h := domain.Hotel{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Stars:         d.Stars,
		City:          d.City,
		Country:       d.Country,
		PricePerNight: d.PricePerNight,
		Amenities:     nonNil(d.Amenities),
		Photos:        nonNil(d.Photos),
		Reservations:  make([]domain.Reservation, 0, len(d.Reservations)),
		Reviews:       make([]domain.Review, 0, len(d.Reviews)),
		CreatedAt:     d.CreatedAt.UTC(),
	}
	for _, r := range d.Reservations {
		h.Reservations = append(h.Reservations, domain.Reservation{CheckIn: r.CheckIn.UTC(), CheckOut: r.CheckOut.UTC()})
	}
	for _, rv := range d.Reviews {
		h.Reviews = append(h.Reviews, domain.Review{User: rv.User, Rating: rv.Rating, Comment: rv.Comment, CreatedAt: rv.CreatedAt.UTC()})
	}
	return h
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
