package svgio

import (
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoints(t *testing.T) {
	points, err := ParsePoints(" 0,0 1.5,0\n  1,2 ")
	require.NoError(t, err)
	assert.Equal(t, []r2.Point{{X: 0, Y: 0}, {X: 1.5, Y: 0}, {X: 1, Y: 2}}, points)

	_, err = ParsePoints("0,0 1")
	assert.Error(t, err)
	_, err = ParsePoints("0,x")
	assert.Error(t, err)
}

func TestRead(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
  <polygon points="0,0 4,0 4,4 0,4" data-label="7" />
  <polygon points="1,1 1,2 2,2 2,1" data-hole="true" />
  <polyline points="3,0.5 3,3.5" data-label="2" />
  <circle cx="3.5" cy="3.5" r="1" data-label="9" data-area="0.25" />
</svg>`
	poly, err := Read(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Len(t, poly.Points, 10)
	// Two closed rings of four, one chain of one.
	require.Len(t, poly.Segments, 9)
	assert.Equal(t, 7, poly.Segments[0].Label)
	assert.Equal(t, defaultLabel, poly.Segments[4].Label)
	assert.Equal(t, 2, poly.Segments[8].Label)

	require.Len(t, poly.Holes, 1)
	hole := poly.Holes[0]
	assert.True(t, hole.X > 1 && hole.X < 2 && hole.Y > 1 && hole.Y < 2, "hole point %v", hole)

	require.Len(t, poly.Regions, 1)
	assert.Equal(t, 9, poly.Regions[0].Label)
	assert.Equal(t, 0.25, poly.Regions[0].Area)
}

func TestReadErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":     `<svg xmlns="http://www.w3.org/2000/svg"></svg>`,
		"bad label": `<svg><polygon points="0,0 1,0 1,1" data-label="one" /></svg>`,
		"bad point": `<svg><polyline points="0,0 1;0" /></svg>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Read(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}
