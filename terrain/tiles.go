package terrain

import (
	"context"
	"sync"

	"github.com/osuushi/terrainmesh/advanced"
	"github.com/pkg/errors"
)

// A Tile is one independently meshed piece of terrain.
type Tile struct {
	Name       string
	Polygon    *advanced.Polygon
	Constraint *advanced.ConstraintOptions
	Quality    *advanced.QualityOptions
	// Sampled at every vertex when set.
	Heights HeightField
}

type TileResult struct {
	Name    string
	Mesh    *advanced.Mesh
	Heights map[int]float64
	Quality advanced.Quality
	// Why the tile failed, if it did. Mesh may still hold a partial mesh.
	Err error
}

// BuildTiles meshes tiles on up to workers goroutines. Each tile gets its own
// Mesh, so nothing is shared between workers but the height fields. Results
// come back in input order. The returned error is the first tile failure;
// the other tiles are still built, unless ctx is cancelled.
func BuildTiles(ctx context.Context, tiles []Tile, workers int) ([]TileResult, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]TileResult, len(tiles))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = buildTile(ctx, tiles[i])
			}
		}()
	}

feed:
	for i := range tiles {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	for _, r := range results {
		if r.Err != nil {
			return results, errors.Wrapf(r.Err, "tile %q", r.Name)
		}
	}
	return results, nil
}

func buildTile(ctx context.Context, tile Tile) (result TileResult) {
	result.Name = tile.Name
	defer func() {
		if err := advanced.HandleTriangulatePanicRecover(recover()); err != nil {
			result.Mesh = nil
			result.Err = err
		}
	}()

	mesh, err := advanced.Triangulate(ctx, tile.Polygon, tile.Constraint, tile.Quality)
	result.Mesh = mesh
	result.Err = err
	if mesh == nil {
		return result
	}
	result.Quality = advanced.MeasureQuality(mesh)
	if tile.Heights != nil {
		result.Heights = SampleHeights(mesh, tile.Heights)
	}
	advanced.Logger().Debug("built tile", "name", tile.Name,
		"triangles", result.Quality.Triangles, "err", err)
	return result
}
