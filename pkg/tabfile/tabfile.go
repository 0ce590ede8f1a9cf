// Package tabfile loads a map directory of tab-separated files.
//
// Three files are read:
//
//	nodeID-lat-lon.tab                              id, lat, lon (no header)
//	roadID-roadInfo.tab                             one header line, then road rows
//	roadSeg-roadID-length-nodeID-nodeID-coords.tab  one header line, then segment rows
//
// Malformed numbers read as zero and are counted in the Report.
package tabfile

import (
	"bufio"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"roadnet/pkg/geo"
	"roadnet/pkg/graph"
)

const (
	IntersectionsFile = "nodeID-lat-lon.tab"
	RoadsFile         = "roadID-roadInfo.tab"
	SegmentsFile      = "roadSeg-roadID-length-nodeID-nodeID-coords.tab"
)

const maxLineSize = 4 << 20

// Report counts what was read and what had to be patched up.
type Report struct {
	Intersections int
	Roads         int
	Segments      int
	BadFields     int // numeric fields that failed to parse and read as 0
	ShortRows     int // rows with too few columns, skipped
}

// Load reads the three map files from dir. A missing intersections or roads
// file is an error; a missing segments file yields no segments.
func Load(dir string) (*graph.Input, *Report, error) {
	rep := &Report{}
	in := &graph.Input{}

	err := readFile(filepath.Join(dir, IntersectionsFile), func(r io.Reader) error {
		var err error
		in.Intersections, err = ReadIntersections(r, rep)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	err = readFile(filepath.Join(dir, RoadsFile), func(r io.Reader) error {
		var err error
		in.Roads, err = ReadRoads(r, rep)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	segPath := filepath.Join(dir, SegmentsFile)
	err = readFile(segPath, func(r io.Reader) error {
		var err error
		in.Segments, err = ReadSegments(r, rep)
		return err
	})
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return nil, nil, err
		}
		log.Printf("Warning: %s not found, loading without segments", segPath)
	}

	if rep.BadFields > 0 || rep.ShortRows > 0 {
		log.Printf("Warning: %d malformed numeric fields read as 0, %d short rows skipped", rep.BadFields, rep.ShortRows)
	}
	log.Printf("Loaded %d intersections, %d roads, %d segments from %s",
		rep.Intersections, rep.Roads, rep.Segments, dir)

	return in, rep, nil
}

func readFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", filepath.Base(path))
	}
	defer f.Close()
	return errors.Wrapf(read(f), "read %s", filepath.Base(path))
}

// ReadIntersections parses intersection rows: id, lat, lon.
func ReadIntersections(r io.Reader, rep *Report) ([]graph.IntersectionRecord, error) {
	var out []graph.IntersectionRecord
	err := scanRows(r, false, func(cols []string) {
		if len(cols) < 3 {
			rep.ShortRows++
			return
		}
		out = append(out, graph.IntersectionRecord{
			ID:  rep.atoi(cols[0]),
			Lat: rep.atof(cols[1]),
			Lon: rep.atof(cols[2]),
		})
	})
	rep.Intersections += len(out)
	return out, errors.Wrap(err, "intersections")
}

// ReadRoads parses road rows after a header line: id, type, name, city,
// oneway, speed, roadclass, notforcar, notforpede, notforbicy.
func ReadRoads(r io.Reader, rep *Report) ([]graph.RoadRecord, error) {
	var out []graph.RoadRecord
	err := scanRows(r, true, func(cols []string) {
		if len(cols) < 10 {
			rep.ShortRows++
			return
		}
		out = append(out, graph.RoadRecord{
			ID:               rep.atoi(cols[0]),
			Type:             rep.atoi(cols[1]),
			Name:             cols[2],
			City:             cols[3],
			OneWay:           rep.atoi(cols[4]) != 0,
			SpeedClass:       rep.atoi(cols[5]),
			RoadClass:        rep.atoi(cols[6]) != 0,
			NotForCar:        rep.atoi(cols[7]) != 0,
			NotForPedestrian: rep.atoi(cols[8]) != 0,
			NotForBicycle:    rep.atoi(cols[9]) != 0,
		})
	})
	rep.Roads += len(out)
	return out, errors.Wrap(err, "roads")
}

// ReadSegments parses segment rows after a header line: road id, length,
// endpoint ids, then lat/lon coordinate pairs. A dangling coordinate is
// ignored.
func ReadSegments(r io.Reader, rep *Report) ([]graph.SegmentRecord, error) {
	var out []graph.SegmentRecord
	err := scanRows(r, true, func(cols []string) {
		if len(cols) < 4 {
			rep.ShortRows++
			return
		}
		seg := graph.SegmentRecord{
			RoadID:    rep.atoi(cols[0]),
			Length:    rep.atof(cols[1]),
			EndpointA: rep.atoi(cols[2]),
			EndpointB: rep.atoi(cols[3]),
		}
		for i := 4; i+1 < len(cols); i += 2 {
			seg.Coords = append(seg.Coords, geo.LatLon{Lat: rep.atof(cols[i]), Lon: rep.atof(cols[i+1])})
		}
		out = append(out, seg)
	})
	rep.Segments += len(out)
	return out, errors.Wrap(err, "segments")
}

// scanRows calls fn with the tab-separated columns of every non-blank line.
func scanRows(r io.Reader, header bool, fn func(cols []string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	first := true
	for sc.Scan() {
		if first {
			first = false
			if header {
				continue
			}
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(strings.Split(line, "\t"))
	}
	return sc.Err()
}

func (rep *Report) atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		rep.BadFields++
		return 0
	}
	return n
}

func (rep *Report) atof(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		rep.BadFields++
		return 0
	}
	return f
}
