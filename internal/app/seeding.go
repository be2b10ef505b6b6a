package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

type SeedReport struct {
	Created int
	Failed  int
}

// DecodeSeed reads a JSON array of loosely-typed hotel records.
func DecodeSeed(r io.Reader) ([]map[string]any, error) {
	var recs []map[string]any
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return recs, nil
}

// SeedHotels creates every record with at most workers concurrent writes.
// A bad record is logged and counted; it never stops the run.
func (s *BookingService) SeedHotels(ctx context.Context, recs []map[string]any, workers int) (SeedReport, error) {
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg              sync.WaitGroup
		created, failed atomic.Int64
	)

	for i, rec := range recs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return SeedReport{Created: int(created.Load()), Failed: int(failed.Load())}, err
		}

		wg.Add(1)
		go func(i int, rec map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := s.CreateHotel(ctx, MapSeedHotel(rec))
			if err != nil {
				failed.Add(1)
				log.Warn().Int("record", i).Err(err).Msg("seed record rejected")
				return
			}
			created.Add(1)
			log.Debug().Int("record", i).Str("hotel_id", h.ID).Msg("seed record created")
		}(i, rec)
	}

	wg.Wait()
	return SeedReport{Created: int(created.Load()), Failed: int(failed.Load())}, nil
}
