// Package fixtures holds small SVG test inputs, available by name sans
// extension.
package fixtures

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/osuushi/terrainmesh/advanced"
	"github.com/osuushi/terrainmesh/internal/svgio"
	"github.com/pkg/errors"
)

//go:embed svg
var files embed.FS

func Load(name string) (*advanced.Polygon, error) {
	fixture, err := files.Open(path.Join("svg", name+".svg"))
	if err != nil {
		return nil, errors.Wrapf(err, "could not load fixture %q", name)
	}
	defer fixture.Close()
	poly, err := svgio.Read(fixture)
	return poly, errors.Wrapf(err, "fixture %q", name)
}

// MustLoad is Load for tests, panicking if anything goes wrong.
func MustLoad(name string) *advanced.Polygon {
	poly, err := Load(name)
	if err != nil {
		panic(err)
	}
	return poly
}

// Names lists every fixture.
func Names() []string {
	entries, err := fs.ReadDir(files, "svg")
	if err != nil {
		panic(err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".svg"))
	}
	sort.Strings(names)
	return names
}
