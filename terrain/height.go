// Package terrain puts finished meshes to work as terrain: heights sampled at
// every vertex, and many tiles meshed side by side.
package terrain

import (
	"github.com/aquilax/go-perlin"
	"github.com/osuushi/terrainmesh/advanced"
)

// A HeightField gives the terrain height at a point. Implementations must be
// safe for concurrent use if they are shared between tiles.
type HeightField interface {
	Height(x, y float64) float64
}

// HeightFunc adapts a plain function to HeightField.
type HeightFunc func(x, y float64) float64

func (f HeightFunc) Height(x, y float64) float64 { return f(x, y) }

// PerlinField is fractal Perlin noise, scaled in both the plane and height.
type PerlinField struct {
	noise *perlin.Perlin
	// Plane units per noise unit.
	Scale float64
	// Height of the noise at its extremes.
	Amplitude float64
}

// NewPerlinField creates a noise field. alpha is the weight falloff between
// octaves, beta the frequency step and n the number of octaves.
func NewPerlinField(alpha, beta float64, n int32, seed int64, scale float64) *PerlinField {
	if scale == 0 {
		scale = 1
	}
	return &PerlinField{
		noise:     perlin.NewPerlin(alpha, beta, n, seed),
		Scale:     scale,
		Amplitude: 1,
	}
}

func (p *PerlinField) Height(x, y float64) float64 {
	return p.Amplitude * p.noise.Noise2D(x/p.Scale, y/p.Scale)
}

// SampleHeights evaluates f at every live vertex of m, keyed by vertex ID.
func SampleHeights(m *advanced.Mesh, f HeightField) map[int]float64 {
	vertices := m.Vertices()
	heights := make(map[int]float64, len(vertices))
	for _, v := range vertices {
		heights[v.ID] = f.Height(v.X, v.Y)
	}
	return heights
}
