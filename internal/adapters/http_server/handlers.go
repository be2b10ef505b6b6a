package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"travel_hotels/internal/app"
	"travel_hotels/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Q *app.QueryService
	B *app.BookingService
	// WriteLimiter throttles the POST routes; nil means unlimited.
	WriteLimiter *rate.Limiter
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels", h.searchHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)

	s.mux.Group(func(r chi.Router) {
		r.Use(RateLimit(h.WriteLimiter))
		r.Post("/v1/hotels", h.createHotel)
		r.Post("/v1/hotels/{id}/reserve", h.reserveHotel)
		r.Post("/v1/hotels/{id}/reviews", h.addReview)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail, code string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Code: code}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain kinds to HTTP statuses. Anything without a kind is
// an infrastructure failure and is logged, not echoed.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	switch kind {
	case "":
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "internal error", "")
	case domain.KindHotelNotFound:
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error(), string(kind))
	case domain.KindHotelUnavailable:
		writeProblem(w, http.StatusConflict, "Conflict", err.Error(), string(kind))
	default:
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), string(kind))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "request body must be a valid JSON object", "InvalidBody")
		return false
	}
	return true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := domain.SearchQuery{
		HotelFilter: domain.HotelFilter{
			City:    strings.TrimSpace(qs.Get("city")),
			Country: strings.TrimSpace(qs.Get("country")),
			Name:    strings.TrimSpace(firstParam(qs.Get("search"), qs.Get("name"))),
		},
		CheckIn:  qs.Get("checkIn"),
		CheckOut: qs.Get("checkOut"),
		Days:     qs.Get("days"),
	}
	if v := qs.Get("stars"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "stars must be an integer", "InvalidFilter")
			return
		}
		q.Stars = &n
	}
	for _, p := range []struct {
		name string
		dst  **float64
	}{{"minPrice", &q.MinPrice}, {"maxPrice", &q.MaxPrice}} {
		v := qs.Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Bad Request", p.name+" must be a number", "InvalidFilter")
			return
		}
		*p.dst = &f
	}

	res, err := h.Q.SearchHotels(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSearchJSON(res))
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	hotel, err := h.Q.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	etag, body := calcETagAndBody(toHotelJSON(hotel))
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getHotel body")
	}
}

func (h *Handlers) createHotel(w http.ResponseWriter, r *http.Request) {
	var req createHotelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	hotel, err := h.B.CreateHotel(r.Context(), domain.NewHotel{
		Name:          req.Name,
		Description:   req.Description,
		Stars:         req.Stars,
		City:          req.City,
		Country:       req.Country,
		PricePerNight: req.PricePerNight,
		Amenities:     req.Amenities,
		Photos:        req.Photos,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/hotels/"+hotel.ID)
	writeJSON(w, http.StatusCreated, hotelEnvelope{Msg: "Hotel created successfully!", Hotel: toHotelJSON(hotel)})
}

func (h *Handlers) reserveHotel(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	hotel, err := h.B.ReserveHotel(r.Context(), chi.URLParam(r, "id"), req.CheckIn, req.CheckOut)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotelEnvelope{Msg: "Reservation successful", Hotel: toHotelJSON(hotel)})
}

func (h *Handlers) addReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	in := domain.ReviewInput{User: req.User, Comment: req.Comment}
	if req.Rating != nil {
		f := float64(*req.Rating)
		in.Rating = &f
	}
	hotel, err := h.B.AddReview(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hotelEnvelope{Msg: "Review added", Hotel: toHotelJSON(hotel)})
}

func firstParam(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
