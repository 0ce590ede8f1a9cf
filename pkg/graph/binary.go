package graph

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"roadnet/pkg/geo"
)

const (
	magicBytes    = "RNSNAP01"
	version       = uint32(1)
	maxRecords    = 50_000_000
	maxCoords     = 1_000_000
	maxStringSize = 1 << 16
	// initialCap bounds allocations sized from header counts, which are
	// not trusted until the checksum has been verified.
	initialCap = 1 << 16
)

// ErrBadSnapshot is returned when a snapshot file is corrupt or truncated.
var ErrBadSnapshot = errors.New("bad snapshot")

// fileHeader is the binary header.
type fileHeader struct {
	Magic            [8]byte
	Version          uint32
	NumIntersections uint32
	NumRoads         uint32
	NumSegments      uint32
}

type diskIntersection struct {
	ID  int64
	Lat float64
	Lon float64
}

const (
	flagOneWay uint8 = 1 << iota
	flagRoadClass
	flagNotForCar
	flagNotForPedestrian
	flagNotForBicycle
)

type diskRoad struct {
	ID         int64
	Type       int32
	SpeedClass int32
	Flags      uint8
}

type diskSegment struct {
	RoadID    int64
	EndpointA int64
	EndpointB int64
	Length    float64
	NumCoords uint32
}

// WriteBinary serializes the load input to a snapshot file. The file is
// written to a temporary path and renamed into place.
func WriteBinary(path string, in *Input) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	bw := bufio.NewWriter(f)
	crcWriter := crc32Writer{w: bw, hash: crc32.NewIEEE()}
	w := &crcWriter

	hdr := fileHeader{
		Version:          version,
		NumIntersections: uint32(len(in.Intersections)),
		NumRoads:         uint32(len(in.Roads)),
		NumSegments:      uint32(len(in.Segments)),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	nodes := make([]diskIntersection, len(in.Intersections))
	for i, rec := range in.Intersections {
		nodes[i] = diskIntersection{ID: int64(rec.ID), Lat: rec.Lat, Lon: rec.Lon}
	}
	if err := binary.Write(w, binary.LittleEndian, nodes); err != nil {
		return fmt.Errorf("write intersections: %w", err)
	}

	for _, rec := range in.Roads {
		if err := writeRoad(w, rec); err != nil {
			return fmt.Errorf("write road %d: %w", rec.ID, err)
		}
	}

	for i, rec := range in.Segments {
		if err := writeSegment(w, rec); err != nil {
			return fmt.Errorf("write segment %d: %w", i, err)
		}
	}

	// CRC32 trailer, not itself part of the checksum.
	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(bw, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func writeRoad(w io.Writer, rec RoadRecord) error {
	var flags uint8
	if rec.OneWay {
		flags |= flagOneWay
	}
	if rec.RoadClass {
		flags |= flagRoadClass
	}
	if rec.NotForCar {
		flags |= flagNotForCar
	}
	if rec.NotForPedestrian {
		flags |= flagNotForPedestrian
	}
	if rec.NotForBicycle {
		flags |= flagNotForBicycle
	}
	dr := diskRoad{
		ID:         int64(rec.ID),
		Type:       int32(rec.Type),
		SpeedClass: int32(rec.SpeedClass),
		Flags:      flags,
	}
	if err := binary.Write(w, binary.LittleEndian, &dr); err != nil {
		return err
	}
	if err := writeString(w, rec.Name); err != nil {
		return err
	}
	return writeString(w, rec.City)
}

func writeSegment(w io.Writer, rec SegmentRecord) error {
	ds := diskSegment{
		RoadID:    int64(rec.RoadID),
		EndpointA: int64(rec.EndpointA),
		EndpointB: int64(rec.EndpointB),
		Length:    rec.Length,
		NumCoords: uint32(len(rec.Coords)),
	}
	if err := binary.Write(w, binary.LittleEndian, &ds); err != nil {
		return err
	}
	coords := make([]float64, 0, 2*len(rec.Coords))
	for _, c := range rec.Coords {
		coords = append(coords, c.Lat, c.Lon)
	}
	return binary.Write(w, binary.LittleEndian, coords)
}

func writeString(w io.Writer, s string) error {
	if len(s) > maxStringSize {
		s = s[:maxStringSize]
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ReadBinary deserializes a snapshot written by WriteBinary.
func ReadBinary(path string) (*Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	crcReader := crc32Reader{r: br, hash: crc32.NewIEEE()}
	r := &crcReader

	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrBadSnapshot, err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("%w: invalid magic bytes %q", ErrBadSnapshot, hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadSnapshot, hdr.Version)
	}
	if hdr.NumIntersections > maxRecords || hdr.NumRoads > maxRecords || hdr.NumSegments > maxRecords {
		return nil, fmt.Errorf("%w: record count exceeds limit %d", ErrBadSnapshot, maxRecords)
	}

	in := &Input{}

	in.Intersections = make([]IntersectionRecord, 0, min(hdr.NumIntersections, initialCap))
	for i := uint32(0); i < hdr.NumIntersections; i++ {
		var n diskIntersection
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("%w: read intersection %d: %v", ErrBadSnapshot, i, err)
		}
		in.Intersections = append(in.Intersections, IntersectionRecord{ID: int(n.ID), Lat: n.Lat, Lon: n.Lon})
	}

	in.Roads = make([]RoadRecord, 0, min(hdr.NumRoads, initialCap))
	for i := uint32(0); i < hdr.NumRoads; i++ {
		rec, err := readRoad(r)
		if err != nil {
			return nil, fmt.Errorf("%w: read road %d: %v", ErrBadSnapshot, i, err)
		}
		in.Roads = append(in.Roads, rec)
	}

	in.Segments = make([]SegmentRecord, 0, min(hdr.NumSegments, initialCap))
	for i := uint32(0); i < hdr.NumSegments; i++ {
		rec, err := readSegment(r)
		if err != nil {
			return nil, fmt.Errorf("%w: read segment %d: %v", ErrBadSnapshot, i, err)
		}
		in.Segments = append(in.Segments, rec)
	}

	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(br, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("%w: read CRC32: %v", ErrBadSnapshot, err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("%w: CRC32 mismatch: stored=%08x computed=%08x", ErrBadSnapshot, storedCRC, expectedCRC)
	}

	return in, nil
}

func readRoad(r io.Reader) (RoadRecord, error) {
	var dr diskRoad
	if err := binary.Read(r, binary.LittleEndian, &dr); err != nil {
		return RoadRecord{}, err
	}
	name, err := readString(r)
	if err != nil {
		return RoadRecord{}, err
	}
	city, err := readString(r)
	if err != nil {
		return RoadRecord{}, err
	}
	return RoadRecord{
		ID:               int(dr.ID),
		Type:             int(dr.Type),
		Name:             name,
		City:             city,
		OneWay:           dr.Flags&flagOneWay != 0,
		SpeedClass:       int(dr.SpeedClass),
		RoadClass:        dr.Flags&flagRoadClass != 0,
		NotForCar:        dr.Flags&flagNotForCar != 0,
		NotForPedestrian: dr.Flags&flagNotForPedestrian != 0,
		NotForBicycle:    dr.Flags&flagNotForBicycle != 0,
	}, nil
}

func readSegment(r io.Reader) (SegmentRecord, error) {
	var ds diskSegment
	if err := binary.Read(r, binary.LittleEndian, &ds); err != nil {
		return SegmentRecord{}, err
	}
	if ds.NumCoords > maxCoords {
		return SegmentRecord{}, fmt.Errorf("coordinate count %d exceeds limit %d", ds.NumCoords, maxCoords)
	}
	rec := SegmentRecord{
		RoadID:    int(ds.RoadID),
		EndpointA: int(ds.EndpointA),
		EndpointB: int(ds.EndpointB),
		Length:    ds.Length,
	}
	if ds.NumCoords == 0 {
		return rec, nil
	}
	flat := make([]float64, 2*ds.NumCoords)
	if err := binary.Read(r, binary.LittleEndian, flat); err != nil {
		return SegmentRecord{}, err
	}
	rec.Coords = make([]geo.LatLon, ds.NumCoords)
	for i := range rec.Coords {
		rec.Coords[i] = geo.LatLon{Lat: flat[2*i], Lon: flat[2*i+1]}
	}
	return rec, nil
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n > maxStringSize {
		return "", fmt.Errorf("string length %d exceeds limit %d", n, maxStringSize)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// CRC32 wrapping writers/readers.

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
