package geo

import (
	"strings"
)

// CityGroup is the per-city slice of a multi-city search result.
type CityGroup struct {
	City       string              `json:"city"`
	Properties []AnnotatedProperty `json:"properties"`
}

// PartitionByCity splits an annotated result set into per-city groups for the
// requested cities, preserving input order within each group. Membership is
// decided by metro postal prefix first; the name alias/substring heuristic is
// the documented fallback for listings without a postal code. Properties
// matching no requested city are dropped from the grouping (they remain in
// the flat list the caller already has).
func PartitionByCity(props []AnnotatedProperty, cities []string) []CityGroup {
	groups := make([]CityGroup, 0, len(cities))
	claimed := make(map[uint]bool, len(props))

	for _, name := range cities {
		hc, known := HostCityByName(name)
		group := CityGroup{City: canonicalCityName(name, hc, known)}
		for _, ap := range props {
			if claimed[ap.ID] {
				continue
			}
			if known && matchesMetroPostal(ap.PostalCode, hc) {
				group.Properties = append(group.Properties, ap)
				claimed[ap.ID] = true
				continue
			}
			if matchesCityName(ap.City, name, hc, known) {
				group.Properties = append(group.Properties, ap)
				claimed[ap.ID] = true
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func canonicalCityName(requested string, hc HostCity, known bool) string {
	if known {
		return hc.Name
	}
	return strings.TrimSpace(requested)
}

func matchesMetroPostal(postalCode string, hc HostCity) bool {
	zip := strings.TrimSpace(postalCode)
	if len(zip) < 3 {
		return false
	}
	for _, prefix := range hc.PostalPrefixes {
		if strings.HasPrefix(zip, prefix) {
			return true
		}
	}
	return false
}

// matchesCityName is the alias/substring heuristic. Known to misclassify
// ambiguous city names; kept only as a fallback when postal data is missing.
func matchesCityName(propertyCity, requested string, hc HostCity, known bool) bool {
	pc := strings.ToLower(strings.TrimSpace(propertyCity))
	if pc == "" {
		return false
	}
	if known {
		for _, alias := range hc.Aliases {
			if pc == alias || strings.Contains(pc, alias) {
				return true
			}
		}
		return false
	}
	req := strings.ToLower(strings.TrimSpace(requested))
	return pc == req || strings.Contains(pc, req)
}
