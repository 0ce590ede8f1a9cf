package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		wantKm           float64
		tolerancePercent float64
	}{
		{
			name: "Auckland CBD to Airport",
			lat1: -36.8485, lon1: 174.7633,
			lat2: -37.0082, lon2: 174.7850,
			wantKm:           17.9,
			tolerancePercent: 2,
		},
		{
			name: "Same point",
			lat1: -36.8485, lon1: 174.7633,
			lat2: -36.8485, lon2: 174.7633,
			wantKm: 0,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantKm:           343.5,
			tolerancePercent: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if tt.wantKm == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantKm) / tt.wantKm * 100
			if diff > tt.tolerancePercent {
				t.Errorf("HaversineKm = %f km, want ~%f km (diff %.1f%%)", got, tt.wantKm, diff)
			}
		})
	}
}

func TestProject(t *testing.T) {
	p := Project(-36.5, 174.0)
	if p.X() != 174.0*lonScale {
		t.Errorf("X = %f, want %f", p.X(), 174.0*lonScale)
	}
	if p.Y() != 36.5*latScale {
		t.Errorf("Y = %f, want %f", p.Y(), 36.5*latScale)
	}

	// Sign is dropped on both axes.
	if Project(36.5, -174.0) != p {
		t.Errorf("Project should ignore sign")
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Point{0, 0}, Point{3, 4}); d != 5 {
		t.Errorf("Distance = %f, want 5", d)
	}
}

func TestPolylineLength(t *testing.T) {
	tests := []struct {
		name string
		line orb.LineString
		want float64
	}{
		{name: "empty", line: nil, want: 0},
		{name: "single point", line: orb.LineString{{1, 1}}, want: 0},
		{name: "two legs", line: orb.LineString{{0, 0}, {3, 4}, {3, 10}}, want: 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolylineLength(tt.line); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PolylineLength = %f, want %f", got, tt.want)
			}
		})
	}
}

func BenchmarkHaversineKm(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		HaversineKm(-36.8485, 174.7633, -37.0082, 174.7850)
	}
}
