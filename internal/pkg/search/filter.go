package search

import (
	"sort"
	"strings"

	"github.com/JonasWeidner/StayAtlas/app/models"
)

// Filter evaluates every property independently against each active field of
// the spec: logical AND across fields, logical OR within a set-valued field.
// A default spec returns the input unchanged in order. The engine never
// errors; impossible specs (e.g. an inverted price range) yield an empty
// result by construction of the inclusive-range check.
func Filter(props []models.Property, spec Spec) []models.Property {
	if spec.IsDefault() {
		return props
	}

	out := make([]models.Property, 0, len(props))
	for _, p := range props {
		if Matches(&p, spec) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether a single property satisfies every active predicate
// of the spec.
func Matches(p *models.Property, spec Spec) bool {
	if spec.Event != "" && !matchesEvent(p, spec.Event) {
		return false
	}
	if len(spec.Cities) > 0 && !containsFold(spec.Cities, p.City) {
		return false
	}
	if len(spec.Locations) > 0 && !containsFold(spec.Locations, p.State) {
		return false
	}
	if len(spec.Experiences) > 0 && !intersects(spec.Experiences, p.Experiences) {
		return false
	}
	if len(spec.PropertyTypes) > 0 && !containsFold(spec.PropertyTypes, p.PropertyType) {
		return false
	}
	if len(spec.Amenities) > 0 && !intersects(spec.Amenities, p.Amenities) {
		return false
	}
	if spec.priceActive() {
		// Inclusive on both bounds; min > max matches nothing without a
		// special case. A zero max means "no upper bound".
		if p.BaseNightlyRate < spec.PriceMin {
			return false
		}
		if spec.PriceMax > 0 && p.BaseNightlyRate > spec.PriceMax {
			return false
		}
	}
	if spec.Bedrooms > 0 && p.Bedrooms < spec.Bedrooms {
		return false
	}
	if spec.VerifiedOnly && !p.Verified {
		return false
	}
	if spec.PetFriendly && !p.IsPetFriendly() {
		return false
	}
	return true
}

// Sort orders the filtered list. Every order is a stable sort so that ties
// preserve relative input order; downstream pagination and per-city grouping
// rely on this. "relevance" is the identity permutation: there is no scoring
// model, curation happens upstream via featured flags.
func Sort(props []models.Property, key string) []models.Property {
	out := make([]models.Property, len(props))
	copy(out, props)

	switch key {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].BaseNightlyRate < out[j].BaseNightlyRate
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].BaseNightlyRate > out[j].BaseNightlyRate
		})
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].RatingAverage > out[j].RatingAverage
		})
	case SortRelevance:
	default:
		// Unknown keys behave like relevance.
	}
	return out
}

func matchesEvent(p *models.Property, event string) bool {
	switch strings.ToLower(event) {
	case EventFifa2026:
		return p.FifaFeatured
	default:
		return false
	}
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// intersects reports a non-empty intersection between the requested tags and
// the property's tags, case-insensitively.
func intersects(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(w, h) {
				return true
			}
		}
	}
	return false
}
