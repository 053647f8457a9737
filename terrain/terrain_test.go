package terrain

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/osuushi/terrainmesh/advanced"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareAt(x, y, size float64) *advanced.Polygon {
	poly := &advanced.Polygon{}
	poly.AddContour([]r2.Point{
		{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size},
	}, 1)
	return poly
}

func TestPerlinFieldIsDeterministic(t *testing.T) {
	a := NewPerlinField(2, 2, 3, 42, 10)
	b := NewPerlinField(2, 2, 3, 42, 10)
	for _, p := range []r2.Point{{X: 0.5, Y: 0.25}, {X: 13, Y: -7}, {X: 100.1, Y: 3}} {
		assert.Equal(t, a.Height(p.X, p.Y), b.Height(p.X, p.Y))
	}
}

func TestSampleHeights(t *testing.T) {
	mesh, err := advanced.Triangulate(context.Background(), squareAt(0, 0, 4), nil,
		&advanced.QualityOptions{MaxArea: 1})
	require.NoError(t, err)

	heights := SampleHeights(mesh, HeightFunc(func(x, y float64) float64 { return x + 2*y }))
	vertices := mesh.Vertices()
	require.Len(t, heights, len(vertices))
	for _, v := range vertices {
		assert.InDelta(t, v.X+2*v.Y, heights[v.ID], 1e-12)
	}
}

func TestBuildTiles(t *testing.T) {
	var tiles []Tile
	for i := 0; i < 8; i++ {
		tiles = append(tiles, Tile{
			Name:    fmt.Sprintf("tile-%d", i),
			Polygon: squareAt(float64(i)*10, 0, 10),
			Quality: &advanced.QualityOptions{MinAngle: 20, MaxArea: 4},
			Heights: NewPerlinField(2, 2, 3, int64(i), 25),
		})
	}

	results, err := BuildTiles(context.Background(), tiles, 3)
	require.NoError(t, err)
	require.Len(t, results, len(tiles))
	for i, r := range results {
		assert.Equal(t, tiles[i].Name, r.Name)
		require.NotNil(t, r.Mesh)
		assert.NoError(t, r.Mesh.CheckConsistency())
		assert.InDelta(t, 100, r.Quality.TotalArea, 1e-9)
		assert.LessOrEqual(t, r.Quality.MaxArea, 4+1e-9)
		assert.Len(t, r.Heights, r.Quality.Vertices)
	}
}

func TestBuildTilesReportsFailures(t *testing.T) {
	tiles := []Tile{
		{Name: "good", Polygon: squareAt(0, 0, 1)},
		{Name: "bad", Polygon: &advanced.Polygon{Points: []r2.Point{{X: 0, Y: 0}}}},
	}
	results, err := BuildTiles(context.Background(), tiles, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, advanced.ErrTooFewVertices))
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
}

func TestBuildTilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildTiles(ctx, []Tile{{Name: "a", Polygon: squareAt(0, 0, 1)}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
