package domain

import (
	"math"
	"strings"
	"time"
)

const (
	MinRating = 1
	MaxRating = 10
)

type Review struct {
	User      string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ReviewInput carries a review as submitted; Rating is nil when the field was absent.
type ReviewInput struct {
	User    string
	Rating  *float64
	Comment string
}

// NewReview validates in and stamps it with now.
func NewReview(in ReviewInput, now time.Time) (Review, error) {
	user := strings.TrimSpace(in.User)
	if user == "" || in.Rating == nil {
		return Review{}, ErrMissingFields
	}
	r := *in.Rating
	if math.IsNaN(r) || r != math.Trunc(r) || r < MinRating || r > MaxRating {
		return Review{}, ErrInvalidRating
	}
	return Review{
		User:      user,
		Rating:    int(r),
		Comment:   in.Comment,
		CreatedAt: now.UTC(),
	}, nil
}
