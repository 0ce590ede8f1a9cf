package osm

import (
	"strconv"
	"strings"

	"github.com/paulmach/osm"

	"roadnet/pkg/graph"
)

// highwayTypes lists the highway values kept by the importer. The position
// (plus one) becomes the road Type.
var highwayTypes = []string{
	"motorway", "motorway_link",
	"trunk", "trunk_link",
	"primary", "primary_link",
	"secondary", "secondary_link",
	"tertiary", "tertiary_link",
	"unclassified", "residential", "living_street", "service",
	"pedestrian", "footway", "path", "steps", "cycleway", "track", "bridleway",
}

var highwayType = func() map[string]int {
	m := make(map[string]int, len(highwayTypes))
	for i, hw := range highwayTypes {
		m[hw] = i + 1
	}
	return m
}()

// carHighways lists highway tag values accessible by car.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// noFootHighways are closed to pedestrians unless tagged otherwise.
var noFootHighways = map[string]bool{
	"motorway":      true,
	"motorway_link": true,
	"trunk":         true,
	"trunk_link":    true,
	"cycleway":      true,
}

// noBicycleHighways are closed to bicycles unless tagged otherwise.
var noBicycleHighways = map[string]bool{
	"motorway":      true,
	"motorway_link": true,
	"footway":       true,
	"steps":         true,
	"pedestrian":    true,
}

// majorHighways set the road class flag.
var majorHighways = map[string]bool{
	"motorway": true,
	"trunk":    true,
	"primary":  true,
}

// defaultSpeedKmh is the assumed speed per highway value when maxspeed is absent.
var defaultSpeedKmh = map[string]int{
	"motorway":       110,
	"motorway_link":  60,
	"trunk":          100,
	"trunk_link":     60,
	"primary":        80,
	"primary_link":   60,
	"secondary":      60,
	"secondary_link": 40,
	"tertiary":       60,
	"tertiary_link":  40,
	"unclassified":   40,
	"residential":    40,
	"living_street":  20,
	"service":        20,
}

// isCarAccessible returns true if the way is drivable by car.
func isCarAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !carHighways[hw] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	// Skip restricted access.
	if isDenied(tags.Find("access")) {
		return false
	}
	if tags.Find("motor_vehicle") == "no" || tags.Find("motorcar") == "no" {
		return false
	}

	return true
}

func isDenied(v string) bool {
	return v == "no" || v == "private"
}

// isFootAccessible returns true if pedestrians may use the way.
func isFootAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if highwayType[hw] == 0 {
		return false
	}
	if foot := tags.Find("foot"); foot != "" {
		return !isDenied(foot)
	}
	return !noFootHighways[hw] && !isDenied(tags.Find("access"))
}

// isBicycleAccessible returns true if cyclists may use the way.
func isBicycleAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if highwayType[hw] == 0 {
		return false
	}
	if bicycle := tags.Find("bicycle"); bicycle != "" {
		return !isDenied(bicycle)
	}
	return !noBicycleHighways[hw] && !isDenied(tags.Find("access"))
}

// directionFlags returns (forward, backward) based on highway type and oneway tags.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	// Default: bidirectional.
	forward = true
	backward = true

	hw := tags.Find("highway")

	// Implied oneway for motorways and roundabouts.
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	// Explicit oneway tag overrides.
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward = true
		backward = false
	case "-1", "reverse":
		forward = false
		backward = true
	case "no":
		forward = true
		backward = true
	case "reversible":
		// Time-dependent, skip entirely.
		forward = false
		backward = false
	}

	return forward, backward
}

// parseMaxSpeed reads a maxspeed value in km/h. "50", "50 km/h" and
// "30 mph" are understood; anything else returns false.
func parseMaxSpeed(v string) (int, bool) {
	v = strings.TrimSpace(v)
	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil || n <= 0 {
		return 0, false
	}
	if strings.Contains(v[end:], "mph") {
		n = int(float64(n)*1.609344 + 0.5)
	}
	return n, true
}

// speedClass maps km/h onto the 1-7 class buckets, rounding up to the
// next bucket.
func speedClass(kmh int) int {
	switch {
	case kmh <= 0:
		return 0
	case kmh <= 20:
		return 1
	case kmh <= 40:
		return 2
	case kmh <= 60:
		return 3
	case kmh <= 80:
		return 4
	case kmh <= 100:
		return 5
	case kmh <= 110:
		return 6
	default:
		return 7
	}
}

// roadFromWay turns a highway way into a road record and the node sequence
// to traverse. One-way roads against the way direction have their nodes
// reversed so the record always points forward. Returns false for ways no
// mode can use.
func roadFromWay(w *osm.Way) (graph.RoadRecord, []osm.NodeID, bool) {
	tags := w.Tags
	hw := tags.Find("highway")
	typ := highwayType[hw]
	if typ == 0 || len(w.Nodes) < 2 {
		return graph.RoadRecord{}, nil, false
	}

	car := isCarAccessible(tags)
	foot := isFootAccessible(tags)
	bicycle := isBicycleAccessible(tags)
	if !car && !foot && !bicycle {
		return graph.RoadRecord{}, nil, false
	}

	fwd, bwd := directionFlags(tags)
	if !fwd && !bwd {
		return graph.RoadRecord{}, nil, false
	}

	nodes := make([]osm.NodeID, len(w.Nodes))
	for i, wn := range w.Nodes {
		nodes[i] = wn.ID
	}
	if !fwd {
		for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
			nodes[i], nodes[j] = nodes[j], nodes[i]
		}
	}

	kmh, ok := parseMaxSpeed(tags.Find("maxspeed"))
	if !ok {
		kmh = defaultSpeedKmh[hw]
		if kmh == 0 {
			kmh = 20
		}
	}

	city := tags.Find("addr:city")
	if city == "" {
		city = tags.Find("is_in:city")
	}

	return graph.RoadRecord{
		ID:               int(w.ID),
		Type:             typ,
		Name:             tags.Find("name"),
		City:             city,
		OneWay:           fwd != bwd,
		SpeedClass:       speedClass(kmh),
		RoadClass:        majorHighways[hw],
		NotForCar:        !car,
		NotForPedestrian: !foot,
		NotForBicycle:    !bicycle,
	}, nodes, true
}
