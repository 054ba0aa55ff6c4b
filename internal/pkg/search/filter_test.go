package search

import (
	"net/url"
	"testing"

	"github.com/JonasWeidner/StayAtlas/app/models"
)

func sampleProperties() []models.Property {
	return []models.Property{
		{
			ID: 1, Slug: "dallas-loft", City: "Dallas", State: "TX",
			BaseNightlyRate: 18000, Bedrooms: 2, PropertyType: models.PropertyTypeApartment,
			Experiences: []string{"nightlife", "food-scene"},
			Amenities:   []string{"wifi", "pet-friendly"},
			Verified:    true, FifaFeatured: true, RatingAverage: 4.5,
		},
		{
			ID: 2, Slug: "atlanta-bungalow", City: "Atlanta", State: "GA",
			BaseNightlyRate: 12500, Bedrooms: 3, PropertyType: models.PropertyTypeHouse,
			Experiences: []string{"family-friendly"},
			Amenities:   []string{"wifi", "pool"},
			Verified:    false, FifaFeatured: true, RatingAverage: 4.8,
		},
		{
			ID: 3, Slug: "seattle-cabin", City: "Seattle", State: "WA",
			BaseNightlyRate: 9900, Bedrooms: 1, PropertyType: models.PropertyTypeCabin,
			Experiences: []string{"outdoors"},
			Amenities:   []string{"fireplace"},
			Verified:    true, FifaFeatured: false, RatingAverage: 4.5,
		},
		{
			ID: 4, Slug: "miami-villa", City: "Miami", State: "FL",
			BaseNightlyRate: 45000, Bedrooms: 5, PropertyType: models.PropertyTypeVilla,
			Experiences: []string{"beach", "nightlife"},
			Amenities:   []string{"pool", "pet-friendly"},
			Verified:    true, FifaFeatured: true, RatingAverage: 4.8,
		},
	}
}

func ids(props []models.Property) []uint {
	out := make([]uint, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}

func TestFilterDefaultSpecIsIdentity(t *testing.T) {
	props := sampleProperties()
	got := Filter(props, Spec{})
	if len(got) != len(props) {
		t.Fatalf("default spec returned %d of %d properties", len(got), len(props))
	}
	for i := range props {
		if got[i].ID != props[i].ID {
			t.Fatalf("default spec reordered input at %d: got id %d want %d", i, got[i].ID, props[i].ID)
		}
	}
}

func TestFilterInvertedPriceRangeMatchesNothing(t *testing.T) {
	got := Filter(sampleProperties(), Spec{PriceMin: 50000, PriceMax: 10000})
	if len(got) != 0 {
		t.Fatalf("inverted price range matched %d properties, want 0", len(got))
	}
}

func TestFilterPriceRangeInclusive(t *testing.T) {
	got := Filter(sampleProperties(), Spec{PriceMin: 12500, PriceMax: 18000})
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2 (both bounds inclusive)", len(got))
	}
}

func TestFilterBedroomsMinimum(t *testing.T) {
	got := Filter(sampleProperties(), Spec{Bedrooms: 3})
	for _, p := range got {
		if p.Bedrooms < 3 {
			t.Fatalf("property %q with %d bedrooms passed a 3-bedroom minimum", p.Slug, p.Bedrooms)
		}
	}
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
}

func TestFilterSetFieldsAreOrWithinAndAcross(t *testing.T) {
	// nightlife OR beach, AND pet-friendly.
	got := Filter(sampleProperties(), Spec{
		Experiences: []string{"nightlife", "beach"},
		PetFriendly: true,
	})
	want := []uint{1, 4}
	if len(got) != len(want) {
		t.Fatalf("got ids %v, want %v", ids(got), want)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("got ids %v, want %v", ids(got), want)
		}
	}
}

func TestFilterVerifiedOnly(t *testing.T) {
	got := Filter(sampleProperties(), Spec{VerifiedOnly: true})
	for _, p := range got {
		if !p.Verified {
			t.Fatalf("unverified property %q passed verifiedOnly", p.Slug)
		}
	}
}

func TestFilterEventFlag(t *testing.T) {
	got := Filter(sampleProperties(), Spec{Event: EventFifa2026})
	if len(got) != 3 {
		t.Fatalf("got %d fifa-2026 matches, want 3", len(got))
	}
	for _, p := range got {
		if !p.FifaFeatured {
			t.Fatalf("property %q without the event flag matched event filter", p.Slug)
		}
	}
}

func TestFilterCityCaseInsensitive(t *testing.T) {
	got := Filter(sampleProperties(), Spec{Cities: []string{"dallas"}})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("city filter got ids %v, want [1]", ids(got))
	}
}

func TestSortRelevanceIsIdentity(t *testing.T) {
	props := sampleProperties()
	got := Sort(props, SortRelevance)
	for i := range props {
		if got[i].ID != props[i].ID {
			t.Fatalf("relevance sort permuted input at %d", i)
		}
	}
}

func TestSortPrice(t *testing.T) {
	got := Sort(sampleProperties(), SortPriceAsc)
	for i := 1; i < len(got); i++ {
		if got[i-1].BaseNightlyRate > got[i].BaseNightlyRate {
			t.Fatalf("price-asc out of order at %d", i)
		}
	}
	got = Sort(sampleProperties(), SortPriceDesc)
	for i := 1; i < len(got); i++ {
		if got[i-1].BaseNightlyRate < got[i].BaseNightlyRate {
			t.Fatalf("price-desc out of order at %d", i)
		}
	}
}

func TestSortRatingStableOnTies(t *testing.T) {
	got := Sort(sampleProperties(), SortRating)
	// Properties 2 and 4 share 4.8, properties 1 and 3 share 4.5; each pair
	// must keep its original relative order.
	want := []uint{2, 4, 1, 3}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("rating sort got ids %v, want %v", ids(got), want)
		}
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	props := sampleProperties()
	_ = Sort(props, SortPriceAsc)
	if props[0].ID != 1 {
		t.Fatalf("Sort mutated its input")
	}
}

func TestSpecFromQueryLegacyFifaAlias(t *testing.T) {
	q, _ := url.ParseQuery("fifa2026=true&city=Dallas,Atlanta&bedrooms=2&radius=25&distanceFrom=stadium")
	spec := SpecFromQuery(q)
	if spec.Event != EventFifa2026 {
		t.Fatalf("fifa2026=true did not map to event %q, got %q", EventFifa2026, spec.Event)
	}
	if len(spec.Cities) != 2 || spec.Cities[0] != "dallas" || spec.Cities[1] != "atlanta" {
		t.Fatalf("unexpected cities: %v", spec.Cities)
	}
	if spec.Bedrooms != 2 || spec.RadiusMiles != 25 || spec.DistanceFrom != DistanceFromStadium {
		t.Fatalf("unexpected spec: %+v", spec)
	}
	if spec.SortKey != SortRelevance {
		t.Fatalf("default sort key = %q, want relevance", spec.SortKey)
	}
}

func TestSpecFromQueryMalformedNumbersDegrade(t *testing.T) {
	q, _ := url.ParseQuery("minPrice=abc&maxPrice=-5&bedrooms=x&radius=nope")
	spec := SpecFromQuery(q)
	if spec.PriceMin != 0 || spec.PriceMax != 0 || spec.Bedrooms != 0 || spec.RadiusMiles != 0 {
		t.Fatalf("malformed numerics did not degrade to defaults: %+v", spec)
	}
	if !spec.IsDefault() {
		t.Fatalf("expected default spec from malformed-only query")
	}
}
