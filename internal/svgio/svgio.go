// Package svgio reads planar straight line graphs out of SVG documents.
//
// This is not a full (or even correct) SVG reader. It understands exactly the
// elements the fixtures and the command line tool use:
//
//   - <polygon points="x,y x,y ..."> is a closed contour of segments. With
//     data-hole="true" its inside is a hole.
//   - <polyline points="..."> is an open chain of segments.
//   - <circle cx cy> seeds a region; data-label and data-area set its label
//     and maximum triangle area.
//
// Contours and chains take their segment label from data-label, defaulting
// to 1. Transforms, paths and units are ignored.
package svgio

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/golang/geo/r2"
	"github.com/osuushi/terrainmesh/advanced"
	"github.com/pkg/errors"
)

const defaultLabel = 1

// Read parses an SVG document into a polygon.
func Read(r io.Reader) (*advanced.Polygon, error) {
	rootEl, err := svgparser.Parse(r, false)
	if err != nil {
		return nil, errors.Wrap(err, "parsing svg")
	}

	poly := &advanced.Polygon{}
	for _, el := range rootEl.FindAll("polygon") {
		points, err := ParsePoints(el.Attributes["points"])
		if err != nil {
			return nil, errors.Wrap(err, "polygon")
		}
		label, err := intAttribute(el, "data-label", defaultLabel)
		if err != nil {
			return nil, err
		}
		if el.Attributes["data-hole"] == "true" {
			poly.AddHole(points, label)
		} else {
			poly.AddContour(points, label)
		}
	}

	for _, el := range rootEl.FindAll("polyline") {
		points, err := ParsePoints(el.Attributes["points"])
		if err != nil {
			return nil, errors.Wrap(err, "polyline")
		}
		label, err := intAttribute(el, "data-label", defaultLabel)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(points); i++ {
			poly.AddSegment(points[i-1], points[i], label)
		}
	}

	for _, el := range rootEl.FindAll("circle") {
		center, err := parsePoint(el.Attributes["cx"], el.Attributes["cy"])
		if err != nil {
			return nil, errors.Wrap(err, "circle")
		}
		label, err := intAttribute(el, "data-label", 0)
		if err != nil {
			return nil, err
		}
		area, err := floatAttribute(el, "data-area", 0)
		if err != nil {
			return nil, err
		}
		poly.Regions = append(poly.Regions, advanced.Region{Point: center, Label: label, Area: area})
	}

	if len(poly.Points) == 0 {
		return nil, errors.New("no polygons or polylines found")
	}
	return poly, nil
}

// ReadFile reads a polygon from the SVG file at path.
func ReadFile(path string) (*advanced.Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	poly, err := Read(f)
	return poly, errors.Wrapf(err, "reading %s", path)
}

// ParsePoints parses an SVG points attribute: "x,y" pairs separated by
// whitespace.
func ParsePoints(s string) ([]r2.Point, error) {
	fields := strings.Fields(s)
	points := make([]r2.Point, 0, len(fields))
	for _, pointString := range fields {
		pointStrings := strings.Split(pointString, ",")
		if len(pointStrings) != 2 {
			return nil, errors.Errorf("invalid point string %q", pointString)
		}
		p, err := parsePoint(pointStrings[0], pointStrings[1])
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

func parsePoint(xs, ys string) (r2.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return r2.Point{}, errors.Wrapf(err, "invalid x value %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return r2.Point{}, errors.Wrapf(err, "invalid y value %q", ys)
	}
	return r2.Point{X: x, Y: y}, nil
}

func intAttribute(el *svgparser.Element, name string, fallback int) (int, error) {
	s, ok := el.Attributes[name]
	if !ok {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	return v, errors.Wrapf(err, "invalid %s %q", name, s)
}

func floatAttribute(el *svgparser.Element, name string, fallback float64) (float64, error) {
	s, ok := el.Attributes[name]
	if !ok {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, errors.Wrapf(err, "invalid %s %q", name, s)
}
