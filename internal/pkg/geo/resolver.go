package geo

import (
	"strings"
	"time"

	"github.com/JonasWeidner/StayAtlas/app/models"
	"github.com/karlseguin/ccache/v3"
	"github.com/paulmach/orb"
)

// Display coordinates are memoized per postal code / city; the tables are
// static so a long TTL is fine.
var centroidCache = ccache.New(ccache.Configure[orb.Point]().MaxSize(4096))

const centroidCacheTTL = 12 * time.Hour

// ResolveDisplayCoordinates maps a property to the coordinates shown on the
// public map. Tiered lookup, first match wins:
//
//  1. postal code centroid
//  2. city centroid (case-insensitive)
//  3. event host-city registry centroid
//  4. the property's stored raw coordinates verbatim
//
// The guest-facing pin is never more precise than postal-code granularity
// unless no coarser data exists. Total: never fails for a property with a
// postal code, a city or raw coordinates.
func ResolveDisplayCoordinates(p *models.Property) orb.Point {
	if zip := strings.TrimSpace(p.PostalCode); zip != "" {
		if pt, ok := lookupCached("zip:"+zip, func() (orb.Point, bool) {
			c, ok := postalCentroids[zip]
			return c, ok
		}); ok {
			return pt
		}
	}

	city := strings.ToLower(strings.TrimSpace(p.City))
	if city != "" {
		if pt, ok := lookupCached("city:"+city, func() (orb.Point, bool) {
			c, ok := cityCentroids[city]
			return c, ok
		}); ok {
			return pt
		}
		if hc, ok := HostCityByName(city); ok {
			return hc.Center
		}
	}

	return orb.Point{p.Longitude, p.Latitude}
}

func lookupCached(key string, miss func() (orb.Point, bool)) (orb.Point, bool) {
	if item := centroidCache.Get(key); item != nil && !item.Expired() {
		return item.Value(), true
	}
	pt, ok := miss()
	if ok {
		centroidCache.Set(key, pt, centroidCacheTTL)
	}
	return pt, ok
}
