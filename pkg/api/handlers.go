package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"roadnet/pkg/articulation"
	"roadnet/pkg/geo"
	"roadnet/pkg/graph"
	"roadnet/pkg/routing"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router routing.Router
	stats  StatsResponse
}

// NewHandlers creates handlers with the given router.
func NewHandlers(router routing.Router, stats StatsResponse) *Handlers {
	return &Handlers{
		router: router,
		stats:  stats,
	}
}

// HandleRoute handles GET /api/v1/route?from=&to=&speed=.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, ok := intParam(w, q.Get("from"), "from")
	if !ok {
		return
	}
	to, ok := intParam(w, q.Get("to"), "to")
	if !ok {
		return
	}
	var useSpeed bool
	if s := q.Get("speed"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "speed")
			return
		}
		useSpeed = v
	}

	start := time.Now()
	result, err := h.router.Route(r.Context(), from, to, useSpeed)
	observe("route", start, err)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	if wantGeoJSON(r) {
		writeGeoJSON(w, routeFeatures(result))
		return
	}

	resp := RouteResponse{
		From:     from,
		To:       to,
		Speed:    useSpeed,
		LengthKm: result.Length,
		Cost:     result.Cost,
		Explored: result.Explored,
		Segments: make([]SegmentJSON, 0, len(result.Segments)),
		Summary:  make([]string, 0, len(result.Summary)),
	}
	for i := range result.Segments {
		seg := &result.Segments[i]
		resp.Segments = append(resp.Segments, SegmentJSON{
			Index:    seg.Index,
			RoadID:   seg.RoadID,
			RoadName: seg.RoadName,
			LengthKm: seg.Length,
			OneWay:   seg.OneWay,
			Geometry: toLatLngJSON(segmentGeometry(seg, result.Path[i], result.Path[i+1])),
		})
	}
	for _, leg := range result.Summary {
		resp.Summary = append(resp.Summary, leg.String())
	}

	writeJSON(w, resp)
}

// HandleArticulation handles GET /api/v1/articulation?root=.
func (h *Handlers) HandleArticulation(w http.ResponseWriter, r *http.Request) {
	root, ok := intParam(w, r.URL.Query().Get("root"), "root")
	if !ok {
		return
	}

	start := time.Now()
	points, err := h.router.ArticulationPoints(r.Context(), root)
	observe("articulation", start, err)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	if wantGeoJSON(r) {
		writeGeoJSON(w, intersectionFeatures(points))
		return
	}

	resp := ArticulationResponse{
		Root:          root,
		Count:         len(points),
		Intersections: make([]IntersectionJSON, 0, len(points)),
	}
	for _, n := range points {
		resp.Intersections = append(resp.Intersections, intersectionJSON(n, ""))
	}
	writeJSON(w, resp)
}

// HandleRoads handles GET /api/v1/roads?prefix=.
func (h *Handlers) HandleRoads(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if len(prefix) > 256 {
		writeError(w, http.StatusBadRequest, "invalid_request", "prefix")
		return
	}

	start := time.Now()
	roads := h.router.SearchRoads(prefix)
	observe("search", start, nil)

	resp := RoadsResponse{Prefix: prefix, Roads: make([]RoadJSON, 0, len(roads))}
	for _, road := range roads {
		resp.Roads = append(resp.Roads, roadJSON(road))
	}
	writeJSON(w, resp)
}

// HandleRoad handles GET /api/v1/roads/{id}.
func (h *Handlers) HandleRoad(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, mux.Vars(r)["id"], "id")
	if !ok {
		return
	}
	road, found := h.router.Road(id)
	if !found {
		writeError(w, http.StatusNotFound, "road_not_found", "id")
		return
	}
	writeJSON(w, roadJSON(road))
}

// HandleIntersection handles GET /api/v1/intersections/{id}.
func (h *Handlers) HandleIntersection(w http.ResponseWriter, r *http.Request) {
	id, ok := intParam(w, mux.Vars(r)["id"], "id")
	if !ok {
		return
	}
	info, found := h.router.Intersection(id)
	if !found {
		writeError(w, http.StatusNotFound, "intersection_not_found", "id")
		return
	}
	writeJSON(w, intersectionJSON(info.Intersection, info.Details))
}

// HandleNearest handles GET /api/v1/nearest?x=&y= with projected coordinates.
func (h *Handlers) HandleNearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, ok := floatParam(w, q.Get("x"), "x")
	if !ok {
		return
	}
	y, ok := floatParam(w, q.Get("y"), "y")
	if !ok {
		return
	}

	n, found := h.router.Nearest(geo.Point{x, y})
	if !found {
		writeError(w, http.StatusNotFound, "intersection_not_found", "")
		return
	}
	writeJSON(w, intersectionJSON(n, ""))
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.stats)
}

func intParam(w http.ResponseWriter, s, field string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", field)
		return 0, false
	}
	return v, true
}

func floatParam(w http.ResponseWriter, s, field string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", field)
		return 0, false
	}
	return v, true
}

func roadJSON(r *graph.Road) RoadJSON {
	return RoadJSON{
		ID:       r.ID,
		Type:     r.Type,
		Name:     r.Name,
		City:     r.City,
		OneWay:   r.OneWay,
		SpeedKmh: r.SpeedKmh(),
		Segments: len(r.Segments),
		Details:  r.Details(),
	}
}

func intersectionJSON(n *graph.Intersection, details string) IntersectionJSON {
	return IntersectionJSON{
		ID:       n.ID,
		Lat:      n.Coord.Lat,
		Lng:      n.Coord.Lon,
		X:        n.Location.X(),
		Y:        n.Location.Y(),
		Segments: len(n.Incident),
		Details:  details,
	}
}

// segmentGeometry returns the segment's coordinates in travel order, from
// one intersection to the next. Segments without a polyline fall back to
// their endpoints.
func segmentGeometry(seg *graph.Segment, from, to *graph.Intersection) []geo.LatLon {
	if len(seg.Coords) < 2 {
		return []geo.LatLon{from.Coord, to.Coord}
	}
	coords := seg.Coords
	if seg.From != from.Index() {
		coords = make([]geo.LatLon, len(seg.Coords))
		for i, c := range seg.Coords {
			coords[len(coords)-1-i] = c
		}
	}
	return coords
}

func toLatLngJSON(coords []geo.LatLon) []LatLngJSON {
	out := make([]LatLngJSON, len(coords))
	for i, c := range coords {
		out[i] = LatLngJSON{Lat: c.Lat, Lng: c.Lon}
	}
	return out
}

func writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, routing.ErrNoRoute):
		writeError(w, http.StatusNotFound, "no_route_found", "")
	case errors.Is(err, routing.ErrNoSelection), errors.Is(err, articulation.ErrNoSelection):
		writeError(w, http.StatusNotFound, "intersection_not_found", "")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
