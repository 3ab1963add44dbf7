package boundary

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

func squarePolygon() *shp.Polygon {
	return &shp.Polygon{
		NumParts: 1,
		Parts:    []int32{0},
		Points: []shp.Point{
			{X: -3.0, Y: 51.0},
			{X: -3.0, Y: 52.0},
			{X: -2.0, Y: 52.0},
			{X: -2.0, Y: 51.0},
			{X: -3.0, Y: 51.0}, // closed ring
		},
	}
}

func TestEncodeWKB_Polygon(t *testing.T) {
	data, err := EncodeWKB(squarePolygon())
	require.NoError(t, err)
	require.NotNil(t, data)

	g, err := ewkb.Unmarshal(data)
	require.NoError(t, err)

	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 4326, mp.SRID())
	assert.Equal(t, 1, mp.NumPolygons())
}

func TestEncodeWKB_MultiPartPolygon(t *testing.T) {
	poly := &shp.Polygon{
		NumParts: 2,
		Parts:    []int32{0, 5},
		Points: []shp.Point{
			{X: -3.0, Y: 51.0},
			{X: -3.0, Y: 52.0},
			{X: -2.0, Y: 52.0},
			{X: -2.0, Y: 51.0},
			{X: -3.0, Y: 51.0},
			// Second part: an island.
			{X: -6.40, Y: 49.90},
			{X: -6.40, Y: 49.98},
			{X: -6.30, Y: 49.98},
			{X: -6.30, Y: 49.90},
			{X: -6.40, Y: 49.90},
		},
	}

	data, err := EncodeWKB(poly)
	require.NoError(t, err)
	require.NotNil(t, data)

	g, err := ewkb.Unmarshal(data)
	require.NoError(t, err)
	mp := g.(*geom.MultiPolygon)
	assert.Equal(t, 2, mp.NumPolygons())
}

func TestEncodeWKB_NonPolygon(t *testing.T) {
	data, err := EncodeWKB(&shp.Point{X: -3, Y: 51})
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = EncodeWKB(nil)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestEncodeWKB_EmptyPolygon(t *testing.T) {
	data, err := EncodeWKB(&shp.Polygon{})
	require.NoError(t, err)
	assert.Nil(t, data)
}
