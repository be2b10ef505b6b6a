package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"travel_hotels/internal/adapters/observability"
	"travel_hotels/internal/domain"
)

// HotelInvalidator drops any cached view of a hotel after it changed.
type HotelInvalidator interface {
	InvalidateHotel(ctx context.Context, id string)
}

type BookingService struct {
	repo     domain.HotelRepository
	views    HotelInvalidator
	events   domain.EventPublisher
	validate *validator.Validate
	now      func() time.Time
}

// NewBookingService wires the write paths. Invalidator and publisher are
// optional; pass the QueryService that owns the hotel cache.
func NewBookingService(r domain.HotelRepository, v HotelInvalidator, p domain.EventPublisher) *BookingService {
	return &BookingService{
		repo:     r,
		views:    v,
		events:   p,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

func (s *BookingService) CreateHotel(ctx context.Context, in domain.NewHotel) (domain.Hotel, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.Country = strings.TrimSpace(in.Country)
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.Hotel{}, domain.InvalidHotel(describeFieldError(verrs[0]))
		}
		return domain.Hotel{}, domain.InvalidHotel(err.Error())
	}

	h := domain.Hotel{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Description:   in.Description,
		Stars:         in.Stars,
		City:          in.City,
		Country:       in.Country,
		PricePerNight: in.PricePerNight,
		Amenities:     nonNil(in.Amenities),
		Photos:        nonNil(in.Photos),
		Reservations:  []domain.Reservation{},
		Reviews:       []domain.Review{},
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.CreateHotel(ctx, h); err != nil {
		return domain.Hotel{}, fmt.Errorf("create hotel: %w", err)
	}
	log.Info().Str("hotel_id", h.ID).Str("name", h.Name).Msg("hotel created")
	return h, nil
}

// ReserveHotel books [checkIn, checkOut) if it overlaps no existing reservation.
// The pre-check fails fast on the common case; the repository's conditional
// append is what keeps concurrent writers from double-booking.
func (s *BookingService) ReserveHotel(ctx context.Context, hotelID, checkIn, checkOut string) (domain.Hotel, error) {
	h, err := s.reserve(ctx, hotelID, checkIn, checkOut)
	observability.ObserveReservation(outcomeOf(err))
	return h, err
}

func (s *BookingService) reserve(ctx context.Context, hotelID, checkIn, checkOut string) (domain.Hotel, error) {
	if strings.TrimSpace(checkIn) == "" || strings.TrimSpace(checkOut) == "" {
		return domain.Hotel{}, domain.ErrMissingDates
	}
	stay, err := domain.NewStay(checkIn, checkOut)
	if err != nil {
		return domain.Hotel{}, err
	}

	h, err := s.repo.GetHotel(ctx, hotelID)
	if err != nil {
		return domain.Hotel{}, wrapInfra("load hotel", hotelID, err)
	}
	if !domain.IsAvailable(h.Reservations, stay.CheckIn, stay.CheckOut) {
		return domain.Hotel{}, domain.ErrHotelUnavailable
	}

	r := domain.Reservation{CheckIn: stay.CheckIn, CheckOut: stay.CheckOut}
	updated, err := s.repo.AppendReservation(ctx, hotelID, r)
	if err != nil {
		if errors.Is(err, domain.ErrHotelUnavailable) {
			log.Info().Str("hotel_id", hotelID).Msg("reservation lost race to a concurrent booking")
		}
		return domain.Hotel{}, wrapInfra("append reservation", hotelID, err)
	}

	s.invalidate(ctx, hotelID)
	s.publish(ctx, domain.EventReservationCreated, hotelID, map[string]any{
		"checkIn":  stay.CheckIn.Format(domain.DateLayout),
		"checkOut": stay.CheckOut.Format(domain.DateLayout),
		"nights":   stay.Nights,
	})
	log.Info().
		Str("hotel_id", hotelID).
		Str("check_in", stay.CheckIn.Format(domain.DateLayout)).
		Int("nights", stay.Nights).
		Msg("reservation created")
	return updated, nil
}

func (s *BookingService) AddReview(ctx context.Context, hotelID string, in domain.ReviewInput) (domain.Hotel, error) {
	h, err := s.addReview(ctx, hotelID, in)
	observability.ObserveReview(outcomeOf(err))
	return h, err
}

func (s *BookingService) addReview(ctx context.Context, hotelID string, in domain.ReviewInput) (domain.Hotel, error) {
	rv, err := domain.NewReview(in, s.now())
	if err != nil {
		return domain.Hotel{}, err
	}
	updated, err := s.repo.AppendReview(ctx, hotelID, rv)
	if err != nil {
		return domain.Hotel{}, wrapInfra("append review", hotelID, err)
	}

	s.invalidate(ctx, hotelID)
	s.publish(ctx, domain.EventReviewAdded, hotelID, map[string]any{
		"user":   rv.User,
		"rating": rv.Rating,
	})
	log.Info().Str("hotel_id", hotelID).Int("rating", rv.Rating).Msg("review added")
	return updated, nil
}

func (s *BookingService) invalidate(ctx context.Context, hotelID string) {
	if s.views != nil {
		s.views.InvalidateHotel(ctx, hotelID)
	}
}

// publish is best-effort: the write is already durable.
func (s *BookingService) publish(ctx context.Context, typ, hotelID string, payload any) {
	if s.events == nil {
		return
	}
	e := domain.Event{
		ID:         uuid.NewString(),
		Type:       typ,
		HotelID:    hotelID,
		OccurredAt: s.now().UTC(),
		Payload:    payload,
	}
	if err := s.events.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("hotel_id", hotelID).Str("event", typ).Msg("publish event failed")
	}
}

// wrapInfra leaves domain errors untouched so their messages reach the caller as-is.
func wrapInfra(op, hotelID string, err error) error {
	if domain.KindOf(err) != "" {
		return err
	}
	return fmt.Errorf("%s %s: %w", op, hotelID, err)
}

func outcomeOf(err error) string {
	switch domain.KindOf(err) {
	case "":
		if err == nil {
			return "ok"
		}
		return "error"
	case domain.KindHotelUnavailable:
		return "unavailable"
	case domain.KindHotelNotFound:
		return "not_found"
	default:
		return "invalid"
	}
}

func describeFieldError(fe validator.FieldError) string {
	// dive errors are reported as "Photos[2]"
	field, _, _ := strings.Cut(lowerFirst(fe.Field()), "[")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "url":
		return field + " must contain valid URLs"
	default:
		return field + " is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
