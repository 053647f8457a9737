package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/osuushi/terrainmesh/advanced"
	"github.com/osuushi/terrainmesh/internal/svgio"
	"github.com/pkg/errors"
)

// readInput loads an SVG file, or the plain text format for anything else.
func readInput(path string) (*advanced.Polygon, error) {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return svgio.ReadFile(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readContours(f)
}

// readContours reads newline separated points in the form "x y", with each
// contour separated by an extra newline. Counterclockwise contours are solid
// and clockwise ones are holes. Every contour is closed with segments, using
// its index plus one as the label.
func readContours(in io.Reader) (*advanced.Polygon, error) {
	poly := &advanced.Polygon{}
	scanner := bufio.NewScanner(in)
	var points []r2.Point
	contours := 0
	flush := func() {
		if len(points) == 0 {
			return
		}
		contours++
		label := contours
		if advanced.IsCW(points) {
			poly.AddHole(points, label)
		} else {
			poly.AddContour(points, label)
		}
		points = nil
	}

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		// If it's empty, and we collected any points, this is the end of the contour
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		point, err := parsePoint(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}
		points = append(points, point)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Handle trailing contour if any
	flush()
	return poly, nil
}

func parsePoint(line string) (r2.Point, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return r2.Point{}, errors.Errorf("expected \"x y\", got %q", line)
	}
	x, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return r2.Point{}, err
	}
	y, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return r2.Point{}, err
	}
	return r2.Point{X: x, Y: y}, nil
}
