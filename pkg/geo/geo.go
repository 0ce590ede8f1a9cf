package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const earthRadiusKm = 6_371.0

// Projection factors from degrees to plane kilometres.
const (
	latScale = 111.0
	lonScale = 88.649
)

// Point is a coordinate in the projected plane. X grows with longitude,
// Y with latitude; both are non-negative.
type Point = orb.Point

// LatLon is a raw geographic coordinate as read from the input files.
type LatLon struct {
	Lat float64
	Lon float64
}

// Project maps a geographic coordinate onto the plane used by the graph.
// The sign of both components is dropped.
func Project(lat, lon float64) Point {
	return Point{math.Abs(lon) * lonScale, math.Abs(lat) * latScale}
}

// Distance returns the straight-line distance between two projected points.
func Distance(a, b Point) float64 {
	return planar.Distance(a, b)
}

// PolylineLength returns the length of a projected polyline.
func PolylineLength(line orb.LineString) float64 {
	if len(line) < 2 {
		return 0
	}
	return planar.Length(line)
}

// HaversineKm returns the great-circle distance in kilometres between two points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
