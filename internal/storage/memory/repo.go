// Package memory is a process-local HotelRepository for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"travel_hotels/internal/domain"
)

type Repo struct {
	mu     sync.RWMutex
	order  []string // insertion order, used as the natural fetch order
	hotels map[string]*domain.Hotel
}

func New() *Repo {
	return &Repo{hotels: make(map[string]*domain.Hotel)}
}

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hotels[h.ID]; ok {
		return fmt.Errorf("memory: hotel %s already exists", h.ID)
	}
	c := h.Clone()
	r.hotels[h.ID] = &c
	r.order = append(r.order, h.ID)
	return nil
}

// AppendReservation checks and appends under the write lock, so two
// overlapping requests can never both pass the check.
func (r *Repo) AppendReservation(ctx context.Context, hotelID string, res domain.Reservation) (domain.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hotels[hotelID]
	if !ok {
		return domain.Hotel{}, domain.ErrHotelNotFound
	}
	if !domain.IsAvailable(h.Reservations, res.CheckIn, res.CheckOut) {
		return domain.Hotel{}, domain.ErrHotelUnavailable
	}
	h.Reservations = append(h.Reservations, res)
	return h.Clone(), nil
}

func (r *Repo) AppendReview(ctx context.Context, hotelID string, rv domain.Review) (domain.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hotels[hotelID]
	if !ok {
		return domain.Hotel{}, domain.ErrHotelNotFound
	}
	h.Reviews = append(h.Reviews, rv)
	return h.Clone(), nil
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrHotelNotFound
	}
	return h.Clone(), nil
}

func (r *Repo) FindHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Hotel, 0, len(r.order))
	for _, id := range r.order {
		if h := r.hotels[id]; f.Matches(*h) {
			out = append(out, h.Clone())
		}
	}
	return out, nil
}
