package api

import (
	"net/http"
	"strings"

	geojson "github.com/paulmach/go.geojson"

	"roadnet/pkg/graph"
	"roadnet/pkg/routing"
)

func wantGeoJSON(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "geojson")
}

// routeFeatures renders a route as one LineString feature per segment.
func routeFeatures(res *routing.RouteResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range res.Segments {
		seg := &res.Segments[i]
		coords := segmentGeometry(seg, res.Path[i], res.Path[i+1])
		line := make([][]float64, len(coords))
		for j, c := range coords {
			line[j] = []float64{c.Lon, c.Lat}
		}
		f := geojson.NewLineStringFeature(line)
		f.SetProperty("index", seg.Index)
		f.SetProperty("road_id", seg.RoadID)
		f.SetProperty("road_name", seg.RoadName)
		f.SetProperty("length_km", seg.Length)
		fc.AddFeature(f)
	}
	return fc
}

// intersectionFeatures renders intersections as Point features.
func intersectionFeatures(nodes []*graph.Intersection) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, n := range nodes {
		f := geojson.NewPointFeature([]float64{n.Coord.Lon, n.Coord.Lat})
		f.SetProperty("id", n.ID)
		f.SetProperty("segments", len(n.Incident))
		fc.AddFeature(f)
	}
	return fc
}

func writeGeoJSON(w http.ResponseWriter, fc *geojson.FeatureCollection) {
	b, err := fc.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(b)
}
