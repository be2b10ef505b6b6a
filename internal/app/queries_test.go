package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"travel_hotels/internal/app"
	"travel_hotels/internal/domain"
	"travel_hotels/internal/storage/memory"
)

// ---- fakes ----

// countingRepo wraps the in-memory store and counts read calls.
type countingRepo struct {
	*memory.Repo
	gets  atomic.Int32
	finds atomic.Int32
}

func (r *countingRepo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	r.gets.Add(1)
	return r.Repo.GetHotel(ctx, id)
}

func (r *countingRepo) FindHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	r.finds.Add(1)
	return r.Repo.FindHotels(ctx, f)
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]domain.Hotel
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*dst.(*domain.Hotel) = v
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]domain.Hotel{}
	}
	c.store[key] = v.(domain.Hotel)
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

// gatedRepo holds one armed GetHotel after it has read its snapshot, until
// release is closed or the call's ctx ends.
type gatedRepo struct {
	*memory.Repo
	armed   atomic.Bool
	gets    atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func newGatedRepo() *gatedRepo {
	r := &gatedRepo{Repo: memory.New(), entered: make(chan struct{}, 1), release: make(chan struct{})}
	r.armed.Store(true)
	return r
}

func (r *gatedRepo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	r.gets.Add(1)
	h, err := r.Repo.GetHotel(ctx, id)
	if !r.armed.CompareAndSwap(true, false) {
		return h, err
	}
	r.entered <- struct{}{}
	select {
	case <-r.release:
		return h, err
	case <-ctx.Done():
		return domain.Hotel{}, ctx.Err()
	}
}

func seed(t *testing.T, repo domain.HotelRepository, hs ...domain.Hotel) {
	t.Helper()
	for _, h := range hs {
		if err := repo.CreateHotel(context.Background(), h); err != nil {
			t.Fatalf("seed %s: %v", h.ID, err)
		}
	}
}

func day(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

// ---- tests ----

func TestGetHotel_CacheMissThenHit(t *testing.T) {
	repo := &countingRepo{Repo: memory.New()}
	seed(t, repo, domain.Hotel{ID: "h1", Name: "Grand Palace Hotel", Stars: 5, City: "Paris", PricePerNight: 250})
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	h, err := q.GetHotel(context.Background(), "h1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.Name != "Grand Palace Hotel" {
		t.Fatalf("unexpected hotel: %+v", h)
	}

	// Second read must be served from cache.
	if _, err := q.GetHotel(context.Background(), "h1"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if n := repo.gets.Load(); n != 1 {
		t.Fatalf("expected one repository read, got %d", n)
	}
}

func TestGetHotel_NotFound(t *testing.T) {
	q := app.NewQueryService(memory.New(), nil, time.Minute)
	_, err := q.GetHotel(context.Background(), "missing")
	if !errors.Is(err, domain.ErrHotelNotFound) {
		t.Fatalf("expected ErrHotelNotFound, got %v", err)
	}
}

func TestSearchHotels_BadWindowSkipsStorage(t *testing.T) {
	repo := &countingRepo{Repo: memory.New()}
	q := app.NewQueryService(repo, nil, time.Minute)

	_, err := q.SearchHotels(context.Background(), domain.SearchQuery{CheckIn: "2024-01-01", Days: "0"})
	if !errors.Is(err, domain.ErrDaysOutOfRange) {
		t.Fatalf("expected ErrDaysOutOfRange, got %v", err)
	}
	if repo.finds.Load() != 0 {
		t.Fatal("storage was queried for an invalid window")
	}
}

func TestSearchHotels_UnconstrainedHasNullPricing(t *testing.T) {
	repo := memory.New()
	seed(t, repo,
		domain.Hotel{ID: "a", Name: "A", Stars: 3, City: "Rome", PricePerNight: 100,
			Reservations: []domain.Reservation{{CheckIn: day("2024-01-01"), CheckOut: day("2024-01-05")}}},
		domain.Hotel{ID: "b", Name: "B", Stars: 4, City: "Rome", PricePerNight: 120},
	)
	q := app.NewQueryService(repo, nil, time.Minute)

	// days alone is ignored when no checkIn is given
	res, err := q.SearchHotels(context.Background(), domain.SearchQuery{Days: "3"})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Stay != nil || res.Count != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	for _, h := range res.Hotels {
		if h.Stay != nil || h.TotalCost != nil {
			t.Fatalf("expected null annotations, got %+v", h)
		}
	}
}

func TestSearchHotels_FiltersAvailabilityAndPrices(t *testing.T) {
	repo := memory.New()
	four := 4
	seed(t, repo,
		domain.Hotel{ID: "a", Name: "Old Town Inn", Stars: 4, City: "Rome", PricePerNight: 100,
			Reservations: []domain.Reservation{{CheckIn: day("2024-01-01"), CheckOut: day("2024-01-03")}}},
		domain.Hotel{ID: "b", Name: "Station Hotel", Stars: 4, City: "Rome", PricePerNight: 100,
			Reservations: []domain.Reservation{{CheckIn: day("2024-01-04"), CheckOut: day("2024-01-06")}}},
		domain.Hotel{ID: "c", Name: "Budget Stay", Stars: 2, City: "Rome", PricePerNight: 40},
	)
	q := app.NewQueryService(repo, nil, time.Minute)

	res, err := q.SearchHotels(context.Background(), domain.SearchQuery{
		HotelFilter: domain.HotelFilter{Stars: &four, City: "rome"},
		CheckIn:     "2024-01-03",
		CheckOut:    "2024-01-06",
	})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	// "a" ends on our check-in day and stays; "b" overlaps and is dropped.
	if res.Count != 1 || res.Hotels[0].ID != "a" {
		t.Fatalf("unexpected hotels: %+v", res.Hotels)
	}
	if res.Stay == nil || res.Stay.Nights != 3 {
		t.Fatalf("unexpected stay: %+v", res.Stay)
	}
	if got := *res.Hotels[0].TotalCost; got != 300 {
		t.Fatalf("expected total 300, got %v", got)
	}
}

func TestGetHotel_CancelledCallerDoesNotFailSharedRead(t *testing.T) {
	repo := newGatedRepo()
	seed(t, repo.Repo, domain.Hotel{ID: "h1", Name: "Grand Palace Hotel", Stars: 5, City: "Paris", PricePerNight: 250})
	q := app.NewQueryService(repo, nil, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := q.GetHotel(ctx, "h1")
		first <- err
	}()
	<-repo.entered

	type result struct {
		h   domain.Hotel
		err error
	}
	second := make(chan result, 1)
	go func() {
		h, err := q.GetHotel(context.Background(), "h1")
		second <- result{h, err}
	}()
	time.Sleep(50 * time.Millisecond) // let the second caller join the flight

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled for the cancelled caller, got %v", err)
	}

	close(repo.release)
	got := <-second
	if got.err != nil {
		t.Fatalf("second caller failed: %v", got.err)
	}
	if got.h.Name != "Grand Palace Hotel" {
		t.Fatalf("unexpected hotel: %+v", got.h)
	}
	if n := repo.gets.Load(); n != 1 {
		t.Fatalf("expected one shared repository read, got %d", n)
	}
}

func TestGetHotel_WriteDuringMissIsNotOverwrittenInCache(t *testing.T) {
	repo := newGatedRepo()
	seed(t, repo.Repo, domain.Hotel{ID: "h1", Name: "Grand Palace Hotel", Stars: 5, City: "Paris", PricePerNight: 250})
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)
	b := app.NewBookingService(repo, q, nil)
	ctx := context.Background()

	done := make(chan domain.Hotel, 1)
	go func() {
		h, _ := q.GetHotel(ctx, "h1")
		done <- h
	}()
	<-repo.entered // the read now holds a snapshot without reservations

	if _, err := b.ReserveHotel(ctx, "h1", "2024-02-01", "2024-02-03"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	close(repo.release)
	<-done

	cache.mu.Lock()
	_, cached := cache.store["hotel:h1"]
	cache.mu.Unlock()
	if cached {
		t.Fatal("a read that raced a write must not fill the cache")
	}

	h, err := q.GetHotel(ctx, "h1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(h.Reservations) != 1 {
		t.Fatalf("expected the reservation to be visible, got %+v", h.Reservations)
	}
}
