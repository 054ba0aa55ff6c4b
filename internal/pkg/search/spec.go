package search

import (
	"net/url"
	"strconv"
	"strings"
)

// Sort keys accepted by Sort.
const (
	SortRelevance = "relevance"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortRating    = "rating"
)

// Reference points accepted for radius filtering.
const (
	DistanceFromStadium    = "stadium"
	DistanceFromCityCenter = "city-center"
)

// EventFifa2026 is the only event currently selectable; the legacy
// fifa2026=true URL parameter maps onto it.
const EventFifa2026 = "fifa-2026"

// Spec is the value object a guest's filter selections are parsed into. The
// zero value is the default spec: every predicate inactive, full input list
// returned unchanged. Price bounds are inclusive; an inverted range simply
// matches nothing, the engine never validates or rejects it.
type Spec struct {
	Event         string
	Cities        []string
	Locations     []string
	Experiences   []string
	PropertyTypes []string
	Amenities     []string
	PriceMin      int64
	PriceMax      int64
	Bedrooms      int
	VerifiedOnly  bool
	PetFriendly   bool
	DistanceFrom  string
	RadiusMiles   float64
	SortKey       string
}

// IsDefault reports whether no predicate is active.
func (s Spec) IsDefault() bool {
	return s.Event == "" &&
		len(s.Cities) == 0 &&
		len(s.Locations) == 0 &&
		len(s.Experiences) == 0 &&
		len(s.PropertyTypes) == 0 &&
		len(s.Amenities) == 0 &&
		!s.priceActive() &&
		s.Bedrooms == 0 &&
		!s.VerifiedOnly &&
		!s.PetFriendly
}

func (s Spec) priceActive() bool {
	return s.PriceMin > 0 || s.PriceMax > 0
}

// SpecFromQuery seeds a Spec from search URL parameters. Malformed numeric
// values degrade to their defaults; bad input must never hard-fail the
// search experience.
func SpecFromQuery(q url.Values) Spec {
	spec := Spec{
		Event:         strings.TrimSpace(q.Get("event")),
		Cities:        splitMulti(q, "city"),
		Locations:     splitMulti(q, "location"),
		Experiences:   splitMulti(q, "experience"),
		PropertyTypes: splitMulti(q, "type"),
		Amenities:     splitMulti(q, "amenity"),
		PriceMin:      parseInt64(q.Get("minPrice")),
		PriceMax:      parseInt64(q.Get("maxPrice")),
		Bedrooms:      int(parseInt64(q.Get("bedrooms"))),
		VerifiedOnly:  parseBool(q.Get("verified")),
		PetFriendly:   parseBool(q.Get("pets")),
		DistanceFrom:  strings.TrimSpace(q.Get("distanceFrom")),
		RadiusMiles:   parseFloat(q.Get("radius")),
		SortKey:       strings.TrimSpace(q.Get("sort")),
	}

	// Legacy alias kept for inbound links that predate the event parameter.
	if spec.Event == "" && parseBool(q.Get("fifa2026")) {
		spec.Event = EventFifa2026
	}
	if spec.SortKey == "" {
		spec.SortKey = SortRelevance
	}
	return spec
}

// splitMulti collects repeated params and comma-separated values into one
// trimmed, lower-cased list.
func splitMulti(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.ToLower(strings.TrimSpace(part)); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseInt64(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && v
}
