package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// clusterPixelThreshold is the on-screen distance below which two markers
// merge at a given zoom level. Matches the default radius of the web map
// client's clusterer so server-side grouping and client rendering agree.
const clusterPixelThreshold = 60.0

const tileSize = 256.0

// Cluster is a group of markers that would overlap at the requested zoom
// level. Count == 1 means a standalone marker.
type Cluster struct {
	Center orb.Point `json:"center"`
	Count  int       `json:"count"`
	Slugs  []string  `json:"slugs"`
}

// ClusterMarkers groups display markers by pixel proximity at the given web
// mercator zoom level. Greedy, first-come assignment in input order: each
// marker joins the first existing cluster whose centroid is within the pixel
// threshold, otherwise it seeds a new one. Clusters dissolve naturally as
// zoom increases because pixel distances grow with 2^zoom.
func ClusterMarkers(props []AnnotatedProperty, zoom int) []Cluster {
	if zoom < 0 {
		zoom = 0
	}
	if zoom > 22 {
		zoom = 22
	}

	type pixelCluster struct {
		sumX, sumY float64
		cluster    Cluster
	}

	var clusters []*pixelCluster
	for _, ap := range props {
		x, y := projectPixel(ap.DisplayPoint, zoom)

		var joined *pixelCluster
		for _, c := range clusters {
			cx := c.sumX / float64(c.cluster.Count)
			cy := c.sumY / float64(c.cluster.Count)
			if math.Hypot(x-cx, y-cy) < clusterPixelThreshold {
				joined = c
				break
			}
		}
		if joined == nil {
			joined = &pixelCluster{}
			clusters = append(clusters, joined)
		}
		joined.sumX += x
		joined.sumY += y
		joined.cluster.Count++
		joined.cluster.Slugs = append(joined.cluster.Slugs, ap.Slug)
		// Centroid of member display points, not of pixel space, so the
		// marker stays put when the client re-projects it.
		joined.cluster.Center = orb.Point{
			joined.cluster.Center[0] + (ap.DisplayPoint[0]-joined.cluster.Center[0])/float64(joined.cluster.Count),
			joined.cluster.Center[1] + (ap.DisplayPoint[1]-joined.cluster.Center[1])/float64(joined.cluster.Count),
		}
	}

	out := make([]Cluster, len(clusters))
	for i, c := range clusters {
		out[i] = c.cluster
	}
	return out
}

// projectPixel maps a lon/lat point to global pixel coordinates at a web
// mercator zoom level.
func projectPixel(p orb.Point, zoom int) (float64, float64) {
	worldSize := tileSize * math.Exp2(float64(zoom))
	lonRad := p[0] * math.Pi / 180
	latRad := p[1] * math.Pi / 180

	x := (lonRad + math.Pi) / (2 * math.Pi) * worldSize
	y := (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * worldSize
	return x, y
}
