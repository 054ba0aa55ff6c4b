package controllers

import (
	"log"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/JonasWeidner/StayAtlas/app/repository"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/geo"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/search"
	"github.com/JonasWeidner/StayAtlas/internal/pkg/statistics"
)

// HandleSearchProperties serves the public directory search. Filtering,
// sorting, distance annotation and grouping all happen on the visible listing
// set; hidden listings are excluded before any predicate runs.
func HandleSearchProperties(c *fiber.Ctx) error {
	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		q = url.Values{}
	}
	spec := search.SpecFromQuery(q)

	props, err := repository.GetGlobalFactory().GetPropertyRepository().ListVisible()
	if err != nil {
		log.Printf("search: listing visible properties failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal_server_error", "message": "could not load listings",
		})
	}

	filtered := search.Filter(props, spec)
	sorted := search.Sort(filtered, spec.SortKey)
	annotated := geo.Annotate(sorted)

	// Radius filtering is anchored on the first requested city. An unknown
	// city or missing radius leaves the set untouched.
	if spec.RadiusMiles > 0 && len(spec.Cities) > 0 {
		if ref, ok := geo.ReferencePoint(spec.Cities[0], spec.DistanceFrom); ok {
			annotated = geo.WithinRadius(annotated, ref, spec.RadiusMiles)
		}
	}

	resp := fiber.Map{
		"count":      len(annotated),
		"properties": annotated,
	}

	// Map view: cluster markers at the client's zoom level.
	if zoomRaw := c.Query("zoom"); zoomRaw != "" {
		if zoom, zerr := strconv.Atoi(zoomRaw); zerr == nil {
			resp["clusters"] = geo.ClusterMarkers(annotated, zoom)
		}
	}

	// Multi-city view: per-city groups in requested order.
	if c.Query("group") == "city" {
		cities := spec.Cities
		if len(cities) == 0 {
			for _, hc := range geo.HostCities() {
				cities = append(cities, hc.Name)
			}
		}
		resp["cities"] = geo.PartitionByCity(annotated, cities)
	}

	return c.JSON(resp)
}

// HandleHostCities returns the tournament host city registry for filter
// pickers and the map view.
func HandleHostCities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"cities": geo.HostCities()})
}

// HandleDirectoryStats returns the cached landing-page totals.
func HandleDirectoryStats(c *fiber.Ctx) error {
	stats := statistics.GetDirectoryStats()
	return c.JSON(fiber.Map{
		"total_properties":   stats.TotalProperties,
		"visible_properties": stats.VisibleProperties,
		"total_clicks":       stats.TotalClicks,
	})
}
