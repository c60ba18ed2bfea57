package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMetersIdenticalPointsIsZero(t *testing.T) {
	points := []Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 37.0, Longitude: -122.0},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 89.9, Longitude: 179.9},
	}

	for _, p := range points {
		assert.Zero(t, DistanceMeters(p, p), "point %s", p)
	}
}

func TestDistanceMetersIsSymmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{{Latitude: 48.1351, Longitude: 11.5820}, {Latitude: 52.5200, Longitude: 13.4050}},
		{{Latitude: 37.0, Longitude: -122.0}, {Latitude: 37.0045, Longitude: -122.0}},
		{{Latitude: -45, Longitude: 170}, {Latitude: 45, Longitude: -170}},
	}

	for _, pair := range pairs {
		assert.InDelta(t, DistanceMeters(pair[0], pair[1]), DistanceMeters(pair[1], pair[0]), 1e-6)
	}
}

func TestDistanceMetersOneDegreeOfLongitudeAtEquator(t *testing.T) {
	got := DistanceMeters(Coordinate{}, Coordinate{Longitude: 1})

	want := EarthRadiusMeters * math.Pi / 180
	assert.InDelta(t, want, got, 1e-6)
}

func TestDistanceMetersGrowsWithSeparation(t *testing.T) {
	origin := Coordinate{Latitude: 37.0, Longitude: -122.0}

	previous := 0.0
	for _, delta := range []float64{0.001, 0.01, 0.1, 1, 10} {
		d := DistanceMeters(origin, Coordinate{Latitude: origin.Latitude + delta, Longitude: origin.Longitude})
		require.Greater(t, d, previous)
		previous = d
	}
}

func TestBoundingBoxEnclosesRadius(t *testing.T) {
	center := Coordinate{Latitude: 37.0, Longitude: -122.0}

	bound := BoundingBox(center, 1000)

	assert.InDelta(t, 36.99101, bound.Min.Lat(), 1e-4)
	assert.InDelta(t, 37.00899, bound.Max.Lat(), 1e-4)
	assert.InDelta(t, -122.01126, bound.Min.Lon(), 1e-4)
	assert.InDelta(t, -121.98874, bound.Max.Lon(), 1e-4)
	assert.True(t, bound.Contains(center.Point()))

	north := Coordinate{Latitude: bound.Max.Lat(), Longitude: center.Longitude}
	assert.InDelta(t, 1000, DistanceMeters(center, north), 1)
}

func TestCoordinatePointRoundTrip(t *testing.T) {
	c := Coordinate{Latitude: 48.1351, Longitude: 11.5820}

	p := c.Point()
	assert.Equal(t, 11.5820, p.Lon())
	assert.Equal(t, 48.1351, p.Lat())
	assert.Equal(t, c, CoordinateFromPoint(p))
}

func TestCoordinateValidate(t *testing.T) {
	tests := []struct {
		name    string
		coord   Coordinate
		wantErr string
	}{
		{name: "valid", coord: Coordinate{Latitude: 37, Longitude: -122}},
		{name: "latitude too high", coord: Coordinate{Latitude: 91}, wantErr: "latitude"},
		{name: "longitude too low", coord: Coordinate{Longitude: -181}, wantErr: "longitude"},
		{name: "nan latitude", coord: Coordinate{Latitude: math.NaN()}, wantErr: "latitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coord.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
