package geo

import (
	"testing"

	"github.com/JonasWeidner/StayAtlas/app/models"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestResolveDisplayCoordinatesTiering(t *testing.T) {
	// Postal code wins over city.
	p := &models.Property{PostalCode: "75201", City: "Dallas", Latitude: 1, Longitude: 1}
	assert.Equal(t, postalCentroids["75201"], ResolveDisplayCoordinates(p))

	// Unknown postal code falls through to the city table.
	p = &models.Property{PostalCode: "99999", City: "Dallas", Latitude: 1, Longitude: 1}
	assert.Equal(t, cityCentroids["dallas"], ResolveDisplayCoordinates(p))

	// City matching is case-insensitive.
	p = &models.Property{City: "SEATTLE"}
	assert.Equal(t, cityCentroids["seattle"], ResolveDisplayCoordinates(p))

	// A registry alias resolves through the host-city registry.
	p = &models.Property{City: "DFW", Latitude: 1, Longitude: 1}
	hc, _ := HostCityByName("dfw")
	assert.Equal(t, hc.Center, ResolveDisplayCoordinates(p))

	// Nothing matches: raw stored coordinates verbatim.
	p = &models.Property{City: "Nowhereville", Latitude: 12.5, Longitude: -33.25}
	assert.Equal(t, orb.Point{-33.25, 12.5}, ResolveDisplayCoordinates(p))
}

func TestResolveDisplayCoordinatesIsTotal(t *testing.T) {
	// Even a zero property resolves to a defined point.
	pt := ResolveDisplayCoordinates(&models.Property{})
	assert.Equal(t, orb.Point{0, 0}, pt)
}

func TestMilesBetweenKnownPair(t *testing.T) {
	// Dallas downtown to AT&T Stadium is roughly 17-18 miles great-circle.
	d := MilesBetween(cityCentroids["dallas"], orb.Point{-97.0945, 32.7473})
	assert.InDelta(t, 17.5, d, 1.5)
}

func TestWithinRadiusFiltersAndAnnotates(t *testing.T) {
	props := Annotate([]models.Property{
		{ID: 1, Slug: "near", City: "Dallas"},
		{ID: 2, Slug: "far", City: "Seattle"},
	})
	hc, _ := HostCityByName("dallas")

	got := WithinRadius(props, hc.Stadium, 50)
	if len(got) != 1 || got[0].Slug != "near" {
		t.Fatalf("radius filter kept wrong set: %+v", got)
	}
	assert.Greater(t, got[0].DistanceMiles, 0.0)

	// Non-positive radius only annotates.
	got = WithinRadius(props, hc.Stadium, 0)
	assert.Len(t, got, 2)
	assert.Greater(t, got[1].DistanceMiles, 1000.0)
}

func TestReferencePoint(t *testing.T) {
	pt, ok := ReferencePoint("dallas", "stadium")
	assert.True(t, ok)
	hc, _ := HostCityByName("dallas")
	assert.Equal(t, hc.Stadium, pt)

	pt, ok = ReferencePoint("Dallas", "city-center")
	assert.True(t, ok)
	assert.Equal(t, hc.Center, pt)

	_, ok = ReferencePoint("atlantis", "stadium")
	assert.False(t, ok)
}

func TestClusterMarkersMergeAndDissolve(t *testing.T) {
	props := Annotate([]models.Property{
		{ID: 1, Slug: "a", PostalCode: "75201"}, // downtown Dallas
		{ID: 2, Slug: "b", PostalCode: "75204"}, // ~1 mile away
		{ID: 3, Slug: "c", PostalCode: "98101"}, // Seattle
	})

	// Zoomed way out, the two Dallas markers collapse into one cluster.
	far := ClusterMarkers(props, 8)
	if len(far) != 2 {
		t.Fatalf("zoom 8: got %d clusters, want 2: %+v", len(far), far)
	}
	assert.Equal(t, 2, far[0].Count)
	assert.Equal(t, []string{"a", "b"}, far[0].Slugs)

	// Zoomed in, every marker stands alone.
	near := ClusterMarkers(props, 16)
	assert.Len(t, near, 3)
	for _, c := range near {
		assert.Equal(t, 1, c.Count)
	}
}

func TestClusterCenterIsMemberCentroid(t *testing.T) {
	props := Annotate([]models.Property{
		{ID: 1, Slug: "a", PostalCode: "75201"},
		{ID: 2, Slug: "b", PostalCode: "75204"},
	})
	got := ClusterMarkers(props, 4)
	if len(got) != 1 {
		t.Fatalf("expected a single cluster at zoom 4, got %d", len(got))
	}
	a, b := postalCentroids["75201"], postalCentroids["75204"]
	assert.InDelta(t, (a[0]+b[0])/2, got[0].Center[0], 1e-9)
	assert.InDelta(t, (a[1]+b[1])/2, got[0].Center[1], 1e-9)
}

func TestPartitionByCityPostalFirstAliasFallback(t *testing.T) {
	props := Annotate([]models.Property{
		{ID: 1, Slug: "arlington-zip", City: "Grand Prairie", PostalCode: "76010"},
		{ID: 2, Slug: "dallas-alias", City: "Fort Worth"},
		{ID: 3, Slug: "seattle", City: "Seattle", PostalCode: "98101"},
		{ID: 4, Slug: "unrelated", City: "Denver"},
	})

	groups := PartitionByCity(props, []string{"dallas", "seattle"})
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	assert.Equal(t, "Dallas", groups[0].City)
	// Metro postal prefix claims the Grand Prairie listing even though its
	// city name matches no alias; the Fort Worth one comes in via alias.
	assert.Len(t, groups[0].Properties, 2)
	assert.Equal(t, "arlington-zip", groups[0].Properties[0].Slug)
	assert.Equal(t, "dallas-alias", groups[0].Properties[1].Slug)

	assert.Equal(t, "Seattle", groups[1].City)
	assert.Len(t, groups[1].Properties, 1)
}
