package app

import (
	"strconv"
	"strings"

	"travel_hotels/internal/domain"
)

/********** alias registry for seed payloads **********/

// Seed files come from several generations of the catalogue, so each field
// is looked up under every name it has been exported with.
var hotelAliases = map[string][]string{
	"name":        {"name", "hotel_name", "title"},
	"description": {"description", "summary", "about"},
	"city":        {"city", "address.city", "location.city"},
	"country":     {"country", "address.country", "location.country", "countryCode"},
	"stars":       {"stars", "rating.stars", "category"},
	"price":       {"pricePerNight", "price_per_night", "price", "rate.amount"},
	"amenities":   {"amenities", "facilities"},
	"photos":      {"photos", "images", "gallery"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmpty: first non-empty string for a named alias set.
func firstNonEmpty(m map[string]any, key string) string {
	for _, p := range hotelAliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {url/src/name}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					if u, ok := t["url"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
					if u, ok := t["src"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
					if n, ok := t["name"].(string); ok && n != "" {
						out = append(out, n)
						continue
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

/********** seed mapper **********/

// MapSeedHotel turns one loosely-typed seed record into a creation payload.
// Missing required fields are left zero and rejected by CreateHotel.
func MapSeedHotel(p map[string]any) domain.NewHotel {
	h := domain.NewHotel{
		Name:        firstNonEmpty(p, "name"),
		Description: firstNonEmpty(p, "description"),
		City:        firstNonEmpty(p, "city"),
		Country:     firstNonEmpty(p, "country"),
		Amenities:   firstSliceStrings(p, hotelAliases["amenities"]...),
		Photos:      firstSliceStrings(p, hotelAliases["photos"]...),
	}
	// stars were stored as strings ("5") in older exports
	if f := getFloatFlexible(p, hotelAliases["stars"]...); f != nil {
		h.Stars = int(*f)
	}
	if f := getFloatFlexible(p, hotelAliases["price"]...); f != nil {
		h.PricePerNight = *f
	}
	return h
}
