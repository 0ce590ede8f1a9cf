package api

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteResponse is the JSON response for a successful route query.
type RouteResponse struct {
	From     int           `json:"from"`
	To       int           `json:"to"`
	Speed    bool          `json:"speed"`
	LengthKm float64       `json:"length_km"`
	Cost     float64       `json:"cost"`
	Explored int           `json:"explored"`
	Segments []SegmentJSON `json:"segments"`
	Summary  []string      `json:"summary"`
}

// SegmentJSON represents a road segment in the response.
type SegmentJSON struct {
	Index    int          `json:"index"`
	RoadID   int          `json:"road_id"`
	RoadName string       `json:"road_name"`
	LengthKm float64      `json:"length_km"`
	OneWay   bool         `json:"one_way"`
	Geometry []LatLngJSON `json:"geometry"`
}

// IntersectionJSON describes one intersection.
type IntersectionJSON struct {
	ID       int     `json:"id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Segments int     `json:"segments"`
	Details  string  `json:"details,omitempty"`
}

// ArticulationResponse is the JSON response for GET /api/v1/articulation.
type ArticulationResponse struct {
	Root          int                `json:"root"`
	Count         int                `json:"count"`
	Intersections []IntersectionJSON `json:"intersections"`
}

// RoadJSON describes one road.
type RoadJSON struct {
	ID       int    `json:"id"`
	Type     int    `json:"type"`
	Name     string `json:"name"`
	City     string `json:"city"`
	OneWay   bool   `json:"one_way"`
	SpeedKmh int    `json:"speed_kmh"`
	Segments int    `json:"segments"`
	Details  string `json:"details"`
}

// RoadsResponse is the JSON response for GET /api/v1/roads.
type RoadsResponse struct {
	Prefix string     `json:"prefix"`
	Roads  []RoadJSON `json:"roads"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Intersections    int `json:"intersections"`
	Roads            int `json:"roads"`
	Segments         int `json:"segments"`
	Components       int `json:"components"`
	LargestComponent int `json:"largest_component"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
