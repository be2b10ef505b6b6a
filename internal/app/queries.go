package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"travel_hotels/internal/domain"
)

// sharedFetchTimeout bounds a repository read that is no longer tied to any
// single caller's context.
const sharedFetchTimeout = 10 * time.Second

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
	group    singleflight.Group

	// gen counts invalidations per key; a fetch only fills the cache when no
	// write landed while it was reading.
	mu  sync.Mutex
	gen map[string]uint64
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, gen: make(map[string]uint64)}
}

func hotelKey(id string) string { return fmt.Sprintf("hotel:%s", id) }

// GetHotel is a read-through cache; concurrent misses for one id share a
// single repository call. Each caller still honours its own ctx.
func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	key := hotelKey(id)
	if s.cache != nil {
		var h domain.Hotel
		if ok, _ := s.cache.Get(ctx, key, &h); ok {
			return h, nil
		}
	}

	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		g := s.generation(key)
		h, err := s.repo.GetHotel(fetchCtx, id)
		if err != nil {
			return domain.Hotel{}, err
		}
		s.fill(fetchCtx, key, h, g)
		return h, nil
	})

	select {
	case <-ctx.Done():
		return domain.Hotel{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Hotel{}, wrapInfra("get hotel", id, res.Err)
		}
		// callers sharing a flight must not alias each other's slices
		return res.Val.(domain.Hotel).Clone(), nil
	}
}

// InvalidateHotel drops the cached view after a write. Safe on a nil service.
func (s *QueryService) InvalidateHotel(ctx context.Context, id string) {
	if s == nil || s.cache == nil {
		return
	}
	key := hotelKey(id)
	s.mu.Lock()
	s.gen[key]++
	s.mu.Unlock()
	if err := s.cache.Del(ctx, key); err != nil {
		log.Warn().Err(err).Str("hotel_id", id).Msg("cache invalidation failed")
	}
}

func (s *QueryService) generation(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen[key]
}

// fill writes h only if no invalidation happened since gen was read. The
// lock is held across Set so an invalidation cannot slip in between.
func (s *QueryService) fill(ctx context.Context, key string, h domain.Hotel, gen uint64) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[key] != gen {
		return
	}
	if err := s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// SearchHotels resolves the date window first and only then touches storage,
// so a bad window never costs a query. Hotels keep storage order.
func (s *QueryService) SearchHotels(ctx context.Context, q domain.SearchQuery) (domain.SearchResult, error) {
	stay, err := domain.ResolveStay(q.CheckIn, q.CheckOut, q.Days)
	if err != nil {
		return domain.SearchResult{}, err
	}

	hotels, err := s.repo.FindHotels(ctx, q.HotelFilter)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("find hotels: %w", err)
	}

	out := domain.SearchResult{Stay: stay, Hotels: make([]domain.PricedHotel, 0, len(hotels))}
	for _, h := range hotels {
		if stay != nil && !domain.IsAvailable(h.Reservations, stay.CheckIn, stay.CheckOut) {
			continue
		}
		out.Hotels = append(out.Hotels, price(h, stay))
	}
	out.Count = len(out.Hotels)
	return out, nil
}

func price(h domain.Hotel, stay *domain.Stay) domain.PricedHotel {
	ph := domain.PricedHotel{Hotel: h}
	if stay != nil {
		st := *stay
		total := st.TotalCost(h.PricePerNight)
		ph.Stay = &st
		ph.TotalCost = &total
	}
	return ph
}
