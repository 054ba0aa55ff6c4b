package geo

import (
	"strings"

	"github.com/paulmach/orb"
)

// HostCity is an entry in the event host-city registry: display centroid,
// stadium reference point, name aliases for the partition heuristic and the
// postal prefixes of its metro area.
type HostCity struct {
	Name           string
	State          string
	Center         orb.Point // lon, lat
	StadiumName    string
	Stadium        orb.Point
	Aliases        []string
	PostalPrefixes []string
}

// hostCities covers the FIFA 2026 US host metros. Centers are downtown
// centroids, stadiums the 2026 match venues.
var hostCities = []HostCity{
	{
		Name: "Atlanta", State: "GA",
		Center:      orb.Point{-84.3880, 33.7490},
		StadiumName: "Mercedes-Benz Stadium", Stadium: orb.Point{-84.4008, 33.7554},
		Aliases:        []string{"atlanta", "atl"},
		PostalPrefixes: []string{"303", "306", "300", "301"},
	},
	{
		Name: "Boston", State: "MA",
		Center:      orb.Point{-71.0589, 42.3601},
		StadiumName: "Gillette Stadium", Stadium: orb.Point{-71.2643, 42.0909},
		Aliases:        []string{"boston", "foxborough", "foxboro"},
		PostalPrefixes: []string{"021", "022", "020"},
	},
	{
		Name: "Dallas", State: "TX",
		Center:      orb.Point{-96.7970, 32.7767},
		StadiumName: "AT&T Stadium", Stadium: orb.Point{-97.0945, 32.7473},
		Aliases:        []string{"dallas", "arlington", "fort worth", "dfw"},
		PostalPrefixes: []string{"752", "750", "751", "760", "761"},
	},
	{
		Name: "Houston", State: "TX",
		Center:      orb.Point{-95.3698, 29.7604},
		StadiumName: "NRG Stadium", Stadium: orb.Point{-95.4107, 29.6847},
		Aliases:        []string{"houston", "htx"},
		PostalPrefixes: []string{"770", "772", "773", "774"},
	},
	{
		Name: "Kansas City", State: "MO",
		Center:      orb.Point{-94.5786, 39.0997},
		StadiumName: "Arrowhead Stadium", Stadium: orb.Point{-94.4839, 39.0489},
		Aliases:        []string{"kansas city", "kc", "kcmo"},
		PostalPrefixes: []string{"641", "640", "661", "662"},
	},
	{
		Name: "Los Angeles", State: "CA",
		Center:      orb.Point{-118.2437, 34.0522},
		StadiumName: "SoFi Stadium", Stadium: orb.Point{-118.3392, 33.9535},
		Aliases:        []string{"los angeles", "la", "inglewood"},
		PostalPrefixes: []string{"900", "901", "902", "903", "904", "905"},
	},
	{
		Name: "Miami", State: "FL",
		Center:      orb.Point{-80.1918, 25.7617},
		StadiumName: "Hard Rock Stadium", Stadium: orb.Point{-80.2389, 25.9580},
		Aliases:        []string{"miami", "miami gardens"},
		PostalPrefixes: []string{"331", "330", "332", "333"},
	},
	{
		Name: "New York", State: "NJ",
		Center:      orb.Point{-74.0060, 40.7128},
		StadiumName: "MetLife Stadium", Stadium: orb.Point{-74.0745, 40.8135},
		Aliases:        []string{"new york", "nyc", "new york city", "east rutherford", "new jersey"},
		PostalPrefixes: []string{"100", "101", "102", "112", "070", "073"},
	},
	{
		Name: "Philadelphia", State: "PA",
		Center:      orb.Point{-75.1652, 39.9526},
		StadiumName: "Lincoln Financial Field", Stadium: orb.Point{-75.1675, 39.9008},
		Aliases:        []string{"philadelphia", "philly"},
		PostalPrefixes: []string{"191", "190", "080", "081"},
	},
	{
		Name: "San Francisco", State: "CA",
		Center:      orb.Point{-122.4194, 37.7749},
		StadiumName: "Levi's Stadium", Stadium: orb.Point{-121.9700, 37.4033},
		Aliases:        []string{"san francisco", "sf", "bay area", "santa clara", "san jose"},
		PostalPrefixes: []string{"941", "940", "943", "950", "951"},
	},
	{
		Name: "Seattle", State: "WA",
		Center:      orb.Point{-122.3321, 47.6062},
		StadiumName: "Lumen Field", Stadium: orb.Point{-122.3316, 47.5952},
		Aliases:        []string{"seattle", "sea"},
		PostalPrefixes: []string{"981", "980", "982"},
	},
}

// cityCentroids maps lower-cased city names to display centroids. Includes
// the host metros plus frequently listed satellite cities so listings there
// never pin an exact address.
var cityCentroids = map[string]orb.Point{
	"atlanta":        {-84.3880, 33.7490},
	"boston":         {-71.0589, 42.3601},
	"foxborough":     {-71.2478, 42.0654},
	"dallas":         {-96.7970, 32.7767},
	"arlington":      {-97.1081, 32.7357},
	"fort worth":     {-97.3308, 32.7555},
	"houston":        {-95.3698, 29.7604},
	"kansas city":    {-94.5786, 39.0997},
	"los angeles":    {-118.2437, 34.0522},
	"inglewood":      {-118.3531, 33.9617},
	"miami":          {-80.1918, 25.7617},
	"miami gardens":  {-80.2456, 25.9420},
	"new york":       {-74.0060, 40.7128},
	"east rutherford": {-74.0971, 40.8340},
	"philadelphia":   {-75.1652, 39.9526},
	"san francisco":  {-122.4194, 37.7749},
	"santa clara":    {-121.9552, 37.3541},
	"san jose":       {-121.8863, 37.3382},
	"seattle":        {-122.3321, 47.6062},
}

// postalCentroids maps ZIP codes to neighborhood-granularity centroids.
// Seeded for the host metros; the resolver falls through to the city table
// for anything unlisted.
var postalCentroids = map[string]orb.Point{
	// Atlanta
	"30303": {-84.3906, 33.7537},
	"30309": {-84.3853, 33.7988},
	"30318": {-84.4324, 33.7926},
	// Boston
	"02108": {-71.0662, 42.3588},
	"02115": {-71.0950, 42.3429},
	"02035": {-71.2478, 42.0654},
	// Dallas / Arlington
	"75201": {-96.7987, 32.7876},
	"75204": {-96.7892, 32.8021},
	"76010": {-97.0823, 32.7215},
	"76011": {-97.0830, 32.7542},
	// Houston
	"77002": {-95.3633, 29.7563},
	"77006": {-95.3909, 29.7407},
	"77054": {-95.4046, 29.6857},
	// Kansas City
	"64106": {-94.5735, 39.1057},
	"64129": {-94.4934, 39.0530},
	// Los Angeles / Inglewood
	"90012": {-118.2417, 34.0614},
	"90028": {-118.3267, 34.0997},
	"90301": {-118.3587, 33.9557},
	// Miami
	"33101": {-80.1918, 25.7751},
	"33139": {-80.1341, 25.7906},
	"33056": {-80.2456, 25.9420},
	// New York / East Rutherford
	"10001": {-73.9967, 40.7484},
	"11201": {-73.9903, 40.6940},
	"07073": {-74.0971, 40.8340},
	// Philadelphia
	"19103": {-75.1738, 39.9523},
	"19148": {-75.1582, 39.9206},
	// San Francisco / Santa Clara
	"94103": {-122.4167, 37.7725},
	"94110": {-122.4147, 37.7485},
	"95054": {-121.9630, 37.3924},
	// Seattle
	"98101": {-122.3344, 47.6114},
	"98134": {-122.3345, 47.5800},
}

// HostCityByName looks a host city up by name or alias, case-insensitively.
func HostCityByName(name string) (HostCity, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return HostCity{}, false
	}
	for _, hc := range hostCities {
		if strings.EqualFold(hc.Name, needle) {
			return hc, true
		}
		for _, alias := range hc.Aliases {
			if alias == needle {
				return hc, true
			}
		}
	}
	return HostCity{}, false
}

// HostCities returns the registry in declaration order.
func HostCities() []HostCity {
	return hostCities
}
