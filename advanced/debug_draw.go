package advanced

import (
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	imgcat "github.com/martinlindhe/imgcat/lib"
)

// Padding around the mesh in pixels
const dbgDrawPadding = 20

// Segment label colors, cycled. Unconstrained edges are grey.
var dbgLabelColors = [][3]float64{
	{0, 1, 1},
	{1, 0.5, 0},
	{1, 0, 1},
	{1, 1, 0},
	{0.4, 0.6, 1},
}

// DebugDraw renders the mesh as a PNG: triangles filled by region label,
// constrained edges colored by segment label, and Steiner points marked.
// scale is in pixels per unit.
func (m *Mesh) DebugDraw(w io.Writer, scale float64) error {
	return m.dbgContext(scale).EncodePNG(w)
}

// DebugCat draws the mesh to a temporary PNG and prints it in the terminal
// (iTerm only).
func (m *Mesh) DebugCat(scale float64) {
	path := filepath.Join(os.TempDir(), "terrainmesh.png")
	if err := m.dbgContext(scale).SavePNG(path); err != nil {
		Logger().Warn("could not save debug drawing", "err", err)
		return
	}
	imgcat.CatFile(path, os.Stdout)
}

func (m *Mesh) dbgContext(scale float64) *gg.Context {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range m.Vertices() {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	if math.IsInf(minX, 1) {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}

	// Set up the context
	width := int(scale*(maxX-minX)) + dbgDrawPadding*2
	height := int(scale*(maxY-minY)) + dbgDrawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	c.Translate(dbgDrawPadding, dbgDrawPadding)
	c.Scale(scale, scale)
	c.Translate(-minX, -minY)

	for _, t := range m.Triangles() {
		for i := 0; i < 3; i++ {
			v := t.vertices[i]
			if i == 0 {
				c.MoveTo(v.X, v.Y)
			} else {
				c.LineTo(v.X, v.Y)
			}
		}
		c.ClosePath()
		shade := 0.15 + 0.1*float64(t.Label%4)
		c.SetRGB(0, shade, 0)
		c.Fill()
	}

	c.SetLineWidth(1)
	for e := range m.Edges() {
		p0, p1 := m.Vertex(e.P0), m.Vertex(e.P1)
		if p0 == nil || p1 == nil {
			continue
		}
		c.DrawLine(p0.X, p0.Y, p1.X, p1.Y)
		if e.Label == 0 {
			c.SetRGB(0.5, 0.5, 0.5)
		} else {
			n := len(dbgLabelColors)
			rgb := dbgLabelColors[((e.Label-1)%n+n)%n]
			c.SetRGB(rgb[0], rgb[1], rgb[2])
		}
		c.Stroke()
	}

	c.SetRGB(1, 0, 0)
	for _, v := range m.Vertices() {
		if v.Kind != InputVertex {
			c.DrawCircle(v.X, v.Y, 1.5/scale)
			c.Fill()
		}
	}
	return c
}
