package geo

import (
	orbgeo "github.com/paulmach/orb/geo"

	"github.com/JonasWeidner/StayAtlas/app/models"
	"github.com/paulmach/orb"
)

const metersPerMile = 1609.344

// AnnotatedProperty pairs a property with its resolved display coordinates
// and, when a reference point is in play, its great-circle distance to it.
type AnnotatedProperty struct {
	models.Property
	DisplayPoint  orb.Point `json:"display_point"`
	DistanceMiles float64   `json:"distance_miles,omitempty"`
}

// Annotate resolves display coordinates for every property. Pure and
// order-preserving.
func Annotate(props []models.Property) []AnnotatedProperty {
	out := make([]AnnotatedProperty, len(props))
	for i, p := range props {
		out[i] = AnnotatedProperty{Property: p, DisplayPoint: ResolveDisplayCoordinates(&p)}
	}
	return out
}

// MilesBetween returns the great-circle distance between two points in miles.
func MilesBetween(a, b orb.Point) float64 {
	return orbgeo.Distance(a, b) / metersPerMile
}

// WithinRadius keeps the properties whose resolved display coordinate lies
// within radiusMiles of ref, annotating each survivor with its distance.
// A non-positive radius disables the filter and only annotates distances.
func WithinRadius(props []AnnotatedProperty, ref orb.Point, radiusMiles float64) []AnnotatedProperty {
	out := make([]AnnotatedProperty, 0, len(props))
	for _, ap := range props {
		ap.DistanceMiles = MilesBetween(ap.DisplayPoint, ref)
		if radiusMiles > 0 && ap.DistanceMiles > radiusMiles {
			continue
		}
		out = append(out, ap)
	}
	return out
}

// ReferencePoint resolves the reference point for a radius search: the host
// city's stadium or downtown center. Returns false when the city is not in
// the registry; callers then skip radius filtering rather than erroring.
func ReferencePoint(city, distanceFrom string) (orb.Point, bool) {
	hc, ok := HostCityByName(city)
	if !ok {
		return orb.Point{}, false
	}
	if distanceFrom == "stadium" {
		return hc.Stadium, true
	}
	return hc.Center, true
}
