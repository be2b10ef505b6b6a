package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel_hotels/internal/domain"
)

// decodeList reads a JSON string array column. NULL decodes to no values.
func decodeList(col, hotelID string, raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s of hotel %s: %w", col, hotelID, err)
	}
	return out, nil
}

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func valJSON(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the tables if they do not exist yet.
func (r *Repo) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mysql migrate: %w", err)
		}
	}
	return nil
}

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.ID,
		h.Name,
		h.Description,
		h.Stars,
		h.City,
		h.Country,
		h.PricePerNight,
		valJSON(h.Amenities),
		valJSON(h.Photos),
		h.CreatedAt.UTC(),
	)
	return err
}

// AppendReservation runs check-then-insert inside one transaction that holds
// the hotel row lock, so concurrent reservations for a hotel run one at a time.
func (r *Repo) AppendReservation(ctx context.Context, hotelID string, res domain.Reservation) (domain.Hotel, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Hotel{}, err
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	var locked string
	if err := tx.QueryRowContext(ctx, lockHotelSQL, hotelID).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, domain.ErrHotelNotFound
		}
		return domain.Hotel{}, err
	}

	in, out := dateOnly(res.CheckIn), dateOnly(res.CheckOut)
	var overlaps int
	if err := tx.QueryRowContext(ctx, countOverlapsSQL, hotelID, out, in).Scan(&overlaps); err != nil {
		return domain.Hotel{}, err
	}
	if overlaps > 0 {
		return domain.Hotel{}, domain.ErrHotelUnavailable
	}
	if _, err := tx.ExecContext(ctx, insertReservationSQL, hotelID, in, out); err != nil {
		return domain.Hotel{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Hotel{}, err
	}
	return r.GetHotel(ctx, hotelID)
}

func (r *Repo) AppendReview(ctx context.Context, hotelID string, rv domain.Review) (domain.Hotel, error) {
	var one int
	if err := r.db.QueryRowContext(ctx, existsHotelSQL, hotelID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, domain.ErrHotelNotFound
		}
		return domain.Hotel{}, err
	}
	if _, err := r.db.ExecContext(ctx, insertReviewSQL,
		hotelID,
		rv.User,
		rv.Rating,
		valStr(rv.Comment),
		rv.CreatedAt.UTC(),
	); err != nil {
		return domain.Hotel{}, err
	}
	return r.GetHotel(ctx, hotelID)
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	hs, err := r.queryHotels(ctx, selectHotelColumns+"WHERE id = ?", id)
	if err != nil {
		return domain.Hotel{}, err
	}
	if len(hs) == 0 {
		return domain.Hotel{}, domain.ErrHotelNotFound
	}
	return hs[0], nil
}

func (r *Repo) FindHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	where, args := buildWhere(f)
	return r.queryHotels(ctx, selectHotelColumns+where+"\nORDER BY created_at, id", args...)
}

// buildWhere mirrors domain.HotelFilter.Matches as SQL.
func buildWhere(f domain.HotelFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Stars != nil {
		conds = append(conds, "stars = ?")
		args = append(args, *f.Stars)
	}
	for _, c := range []struct{ col, v string }{{"city", f.City}, {"country", f.Country}, {"name", f.Name}} {
		if c.v != "" {
			conds = append(conds, "LOWER("+c.col+") LIKE ?")
			args = append(args, "%"+escapeLike(strings.ToLower(c.v))+"%")
		}
	}
	if f.MinPrice != nil {
		conds = append(conds, "price_per_night >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price_per_night <= ?")
		args = append(args, *f.MaxPrice)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *Repo) queryHotels(ctx context.Context, query string, args ...any) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		var (
			h                 domain.Hotel
			amenities, photos []byte
			createdAt         time.Time
		)
		if err := rows.Scan(
			&h.ID,
			&h.Name,
			&h.Description,
			&h.Stars,
			&h.City,
			&h.Country,
			&h.PricePerNight,
			&amenities, &photos,
			&createdAt,
		); err != nil {
			return nil, err
		}
		if h.Amenities, err = decodeList("amenities", h.ID, amenities); err != nil {
			return nil, err
		}
		if h.Photos, err = decodeList("photos", h.ID, photos); err != nil {
			return nil, err
		}
		h.CreatedAt = createdAt.UTC()
		h.Reservations = []domain.Reservation{}
		h.Reviews = []domain.Review{}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := loadChildren(ctx, r.db, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadChildren fills reservations and reviews with one query per table.
func loadChildren(ctx context.Context, q queryer, hotels []domain.Hotel) error {
	if len(hotels) == 0 {
		return nil
	}
	idx := make(map[string]int, len(hotels))
	args := make([]any, 0, len(hotels))
	for i, h := range hotels {
		idx[h.ID] = i
		args = append(args, h.ID)
	}
	in := "(" + strings.TrimSuffix(strings.Repeat("?,", len(args)), ",") + ")"

	rows, err := q.QueryContext(ctx, selectReservationsPrefix+in+" ORDER BY id", args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var (
			hotelID string
			res     domain.Reservation
		)
		if err := rows.Scan(&hotelID, &res.CheckIn, &res.CheckOut); err != nil {
			rows.Close()
			return err
		}
		res.CheckIn, res.CheckOut = res.CheckIn.UTC(), res.CheckOut.UTC()
		h := &hotels[idx[hotelID]]
		h.Reservations = append(h.Reservations, res)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx, selectReviewsPrefix+in+" ORDER BY id", args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			hotelID string
			rv      domain.Review
			comment sql.NullString
		)
		if err := rows.Scan(&hotelID, &rv.User, &rv.Rating, &comment, &rv.CreatedAt); err != nil {
			return err
		}
		if comment.Valid {
			rv.Comment = comment.String
		}
		rv.CreatedAt = rv.CreatedAt.UTC()
		h := &hotels[idx[hotelID]]
		h.Reviews = append(h.Reviews, rv)
	}
	return rows.Err()
}

func dateOnly(t time.Time) string { return t.UTC().Format(domain.DateLayout) }
