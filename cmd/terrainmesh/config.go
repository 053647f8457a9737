package main

import (
	"io"
	"os"

	"github.com/osuushi/terrainmesh/advanced"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is everything the tool can be told in a YAML file. Flags given on
// the command line override it.
type Config struct {
	Quality struct {
		MinAngle      float64 `yaml:"min_angle"`
		MaxAngle      float64 `yaml:"max_angle"`
		MaxArea       float64 `yaml:"max_area"`
		ConstrainArea bool    `yaml:"constrain_area"`
		SteinerPoints int     `yaml:"steiner_points"`
		MaxIterations int     `yaml:"max_iterations"`
	} `yaml:"quality"`

	Constraint struct {
		Conforming bool `yaml:"conforming"`
		Convex     bool `yaml:"convex"`
		// split, internal or none
		BoundarySplit string `yaml:"boundary_split"`
	} `yaml:"constraint"`

	Terrain struct {
		Seed   int64   `yaml:"seed"`
		Scale  float64 `yaml:"scale"`
		Octave int32   `yaml:"octaves"`
	} `yaml:"terrain"`

	Output struct {
		PNG    string  `yaml:"png"`
		Scale  float64 `yaml:"scale"`
		Imgcat bool    `yaml:"imgcat"`
	} `yaml:"output"`
}

func defaultConfig() Config {
	var c Config
	c.Constraint.BoundarySplit = "split"
	c.Terrain.Scale = 50
	c.Terrain.Octave = 3
	c.Output.Scale = 10
	return c
}

// LoadConfig decodes a YAML config over the defaults. Unknown keys are an
// error, to catch typos.
func LoadConfig(r io.Reader) (Config, error) {
	c := defaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return c, errors.Wrap(err, "decoding config")
	}
	return c, nil
}

func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return LoadConfig(f)
}

func (c Config) QualityOptions() *advanced.QualityOptions {
	q := c.Quality
	return &advanced.QualityOptions{
		MinAngle:      q.MinAngle,
		MaxAngle:      q.MaxAngle,
		MaxArea:       q.MaxArea,
		ConstrainArea: q.ConstrainArea,
		SteinerPoints: q.SteinerPoints,
		MaxIterations: q.MaxIterations,
	}
}

func (c Config) ConstraintOptions() (*advanced.ConstraintOptions, error) {
	mode, err := parseBoundarySplit(c.Constraint.BoundarySplit)
	if err != nil {
		return nil, err
	}
	return &advanced.ConstraintOptions{
		ConformingDelaunay: c.Constraint.Conforming,
		EncloseConvexHull:  c.Constraint.Convex,
		BoundarySplit:      mode,
	}, nil
}

var boundarySplitModes = map[string]advanced.BoundarySplitMode{
	"split":    advanced.Split,
	"internal": advanced.SplitInternalOnly,
	"none":     advanced.NoSplit,
}

func parseBoundarySplit(s string) (advanced.BoundarySplitMode, error) {
	if s == "" {
		return advanced.Split, nil
	}
	mode, ok := boundarySplitModes[s]
	if !ok {
		return 0, errors.Errorf("unknown boundary split mode %q", s)
	}
	return mode, nil
}
