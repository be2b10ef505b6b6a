package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"travel_hotels/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func res(in, out string) domain.Reservation {
	return domain.Reservation{CheckIn: day(in), CheckOut: day(out)}
}

func TestIsAvailable_EmptyListAlwaysAvailable(t *testing.T) {
	require.True(t, domain.IsAvailable(nil, day("2024-01-01"), day("2024-01-02")))
	require.True(t, domain.IsAvailable([]domain.Reservation{}, day("2024-01-01"), day("2024-01-02")))
}

func TestIsAvailable_BackToBackAllowed(t *testing.T) {
	in, out := day("2024-01-03"), day("2024-01-05")

	require.True(t, domain.IsAvailable([]domain.Reservation{res("2024-01-01", "2024-01-03")}, in, out))
	require.True(t, domain.IsAvailable([]domain.Reservation{res("2024-01-05", "2024-01-08")}, in, out))
	require.True(t, domain.IsAvailable([]domain.Reservation{
		res("2024-01-05", "2024-01-08"),
		res("2024-01-01", "2024-01-03"),
	}, in, out))
}

func TestIsAvailable_Overlaps(t *testing.T) {
	stored := []domain.Reservation{res("2024-01-04", "2024-01-07")}

	cases := []struct {
		name    string
		in, out string
	}{
		{"straddles start", "2024-01-02", "2024-01-06"},
		{"straddles end", "2024-01-06", "2024-01-09"},
		{"inside", "2024-01-05", "2024-01-06"},
		{"covers", "2024-01-01", "2024-01-10"},
		{"identical", "2024-01-04", "2024-01-07"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.False(t, domain.IsAvailable(stored, day(tc.in), day(tc.out)))
		})
	}
}

func TestIsAvailable_MatchesPairwiseOverlap(t *testing.T) {
	base := day("2024-01-01")
	stored := []domain.Reservation{
		{CheckIn: base.AddDate(0, 0, 3), CheckOut: base.AddDate(0, 0, 6)},
		{CheckIn: base.AddDate(0, 0, 10), CheckOut: base.AddDate(0, 0, 12)},
	}
	for i := 0; i < 15; i++ {
		for j := i + 1; j <= 15; j++ {
			in, out := base.AddDate(0, 0, i), base.AddDate(0, 0, j)
			overlap := false
			for _, r := range stored {
				if r.CheckIn.Before(out) && in.Before(r.CheckOut) {
					overlap = true
				}
			}
			require.Equal(t, !overlap, domain.IsAvailable(stored, in, out), "window %d..%d", i, j)
		}
	}
}

func TestResolveStay_Unconstrained(t *testing.T) {
	s, err := domain.ResolveStay("", "", "")
	require.NoError(t, err)
	require.Nil(t, s)

	// days alone does not constrain anything
	s, err = domain.ResolveStay("", "", "4")
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestResolveStay_CheckInPlusDays(t *testing.T) {
	s, err := domain.ResolveStay("2024-03-01", "", "5")
	require.NoError(t, err)
	require.NotNil(t, s)
	require.Equal(t, day("2024-03-01"), s.CheckIn)
	require.Equal(t, "2024-03-06", s.CheckOut.Format(domain.DateLayout))
	require.Equal(t, 5, s.Nights)
}

func TestResolveStay_DaysCrossMonthAndLeapDay(t *testing.T) {
	s, err := domain.ResolveStay("2024-02-27", "", "3")
	require.NoError(t, err)
	require.Equal(t, "2024-03-01", s.CheckOut.Format(domain.DateLayout))
	require.Equal(t, 3, s.Nights)
}

func TestResolveStay_ExplicitWindow(t *testing.T) {
	s, err := domain.ResolveStay("2024-03-01", "2024-03-04", "")
	require.NoError(t, err)
	require.Equal(t, 3, s.Nights)

	// days is ignored when checkOut is given
	s, err = domain.ResolveStay("2024-03-01", "2024-03-04", "99")
	require.NoError(t, err)
	require.Equal(t, 3, s.Nights)
}

func TestResolveStay_CenturiesLongWindow(t *testing.T) {
	// 376 years of 365 days plus 91 leap days
	s, err := domain.ResolveStay("2024-01-01", "2400-01-01", "")
	require.NoError(t, err)
	require.Equal(t, 137331, s.Nights)
	require.Equal(t, 13733100.0, s.TotalCost(100))

	require.Equal(t, 1, domain.NightsBetween(day("1700-02-28"), day("1700-03-01")))
}

func TestResolveStay_RFC3339IsTruncatedToUTCDay(t *testing.T) {
	s, err := domain.ResolveStay("2024-03-01T15:30:00Z", "2024-03-03T08:00:00+00:00", "")
	require.NoError(t, err)
	require.Equal(t, day("2024-03-01"), s.CheckIn)
	require.Equal(t, 2, s.Nights)
}

func TestResolveStay_Errors(t *testing.T) {
	cases := []struct {
		name               string
		checkIn, out, days string
		want               error
	}{
		{"checkOut without checkIn", "", "2024-03-05", "", domain.ErrMissingCheckIn},
		{"checkIn without days", "2024-03-01", "", "", domain.ErrMissingDays},
		{"days too large", "2024-03-01", "", "31", domain.ErrDaysOutOfRange},
		{"days zero", "2024-03-01", "", "0", domain.ErrDaysOutOfRange},
		{"days negative", "2024-03-01", "", "-2", domain.ErrDaysOutOfRange},
		{"days not a number", "2024-03-01", "", "abc", domain.ErrDaysOutOfRange},
		{"zero nights", "2024-03-01", "2024-03-01", "", domain.ErrInvalidDateRange},
		{"checkOut before checkIn", "2024-03-05", "2024-03-01", "", domain.ErrInvalidDateRange},
		{"unparseable checkIn", "yesterday", "2024-03-01", "", domain.ErrInvalidDateRange},
		{"unparseable checkOut", "2024-03-01", "soon", "", domain.ErrInvalidDateRange},
		{"unparseable checkIn with days", "03/01/2024", "", "2", domain.ErrInvalidDateRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := domain.ResolveStay(tc.checkIn, tc.out, tc.days)
			require.Nil(t, s)
			require.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestStay_TotalCost(t *testing.T) {
	s := domain.Stay{Nights: 3}
	require.Equal(t, 300.0, s.TotalCost(100))
}

func TestKindOf(t *testing.T) {
	require.Equal(t, domain.KindHotelUnavailable, domain.KindOf(domain.ErrHotelUnavailable))
	wrapped := errors.Join(errors.New("context"), domain.ErrHotelNotFound)
	require.Equal(t, domain.KindHotelNotFound, domain.KindOf(wrapped))
	require.Equal(t, domain.Kind(""), domain.KindOf(errors.New("boom")))
	require.True(t, errors.Is(domain.InvalidHotel("name is required"), domain.ErrInvalidHotel))
}
