// Command terrainmesh triangulates a planar straight line graph and refines
// it to a quality mesh.
//
// Input is an SVG file (polygons, polylines and region circles) or a plain
// text file of "x y" lines, with a blank line between contours. Clockwise
// contours in the text format are holes.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"

	"github.com/kr/pretty"
	"github.com/logrusorgru/aurora"
	"github.com/osuushi/terrainmesh"
	"github.com/osuushi/terrainmesh/advanced"
	"github.com/osuushi/terrainmesh/terrain"
	"github.com/pkg/errors"
	"golang.org/x/term"
	"gopkg.in/alecthomas/kingpin.v2"
)

type options struct {
	input      string
	configPath string
	config     Config
	logLevel   string
	verbose    bool
	heights    bool
}

func newApp(o *options) *kingpin.Application {
	c := &o.config
	app := kingpin.New("terrainmesh", "Constrained Delaunay triangulation with quality refinement.")
	app.Arg("input", "SVG or text file to triangulate.").Required().ExistingFileVar(&o.input)
	app.Flag("config", "YAML config file. Flags override it.").Short('c').ExistingFileVar(&o.configPath)

	// Flags without defaults leave their target alone unless given, so
	// they only override what the config file set.
	app.Flag("min-angle", "Minimum angle in degrees.").Short('q').Float64Var(&c.Quality.MinAngle)
	app.Flag("max-angle", "Maximum angle in degrees.").Float64Var(&c.Quality.MaxAngle)
	app.Flag("max-area", "Maximum triangle area.").Short('a').Float64Var(&c.Quality.MaxArea)
	app.Flag("constrain-area", "Respect region area constraints.").BoolVar(&c.Quality.ConstrainArea)
	app.Flag("steiner", "Maximum number of Steiner points, 0 for unlimited.").IntVar(&c.Quality.SteinerPoints)
	app.Flag("max-iterations", "Refinement safety limit.").IntVar(&c.Quality.MaxIterations)
	app.Flag("conforming", "Conforming Delaunay.").Short('D').BoolVar(&c.Constraint.Conforming)
	app.Flag("convex", "Keep the convex hull.").BoolVar(&c.Constraint.Convex)
	app.Flag("boundary-split", "Which segments may be split.").
		EnumVar(&c.Constraint.BoundarySplit, "split", "internal", "none")
	app.Flag("png", "Write a debug drawing to this PNG file.").StringVar(&c.Output.PNG)
	app.Flag("scale", "Pixels per unit in drawings.").Float64Var(&c.Output.Scale)
	app.Flag("imgcat", "Print a debug drawing in the terminal (iTerm only).").BoolVar(&c.Output.Imgcat)
	app.Flag("seed", "Seed for the height field.").Int64Var(&c.Terrain.Seed)

	app.Flag("heights", "Sample a Perlin height field at every vertex.").BoolVar(&o.heights)
	app.Flag("verbose", "Dump full statistics.").Short('v').BoolVar(&o.verbose)
	app.Flag("log-level", "Log level.").Default("warn").EnumVar(&o.logLevel, "debug", "info", "warn", "error")
	return app
}

// parseArgs parses the command line, loading the config file (if any) under
// the flags that were actually given.
func parseArgs(args []string) (*options, error) {
	// First pass finds the config file; flags are thrown away.
	probe := &options{config: defaultConfig()}
	if _, err := newApp(probe).Parse(args); err != nil {
		return nil, err
	}
	o := &options{config: defaultConfig()}
	if probe.configPath != "" {
		config, err := LoadConfigFile(probe.configPath)
		if err != nil {
			return nil, errors.Wrapf(err, "loading %s", probe.configPath)
		}
		o.config = config
	}
	// Second pass lays the flags over the config.
	if _, err := newApp(o).Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func main() {
	o, err := parseArgs(os.Args[1:])
	kingpin.FatalIfError(err, "")

	var level slog.Level
	kingpin.FatalIfError(level.UnmarshalText([]byte(o.logLevel)), "log level")
	advanced.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(ctx, o, os.Stdout, isTerminal); err != nil {
		fmt.Fprintln(os.Stderr, aurora.NewAurora(term.IsTerminal(int(os.Stderr.Fd()))).Red(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options, out io.Writer, color bool) error {
	poly, err := readInput(o.input)
	if err != nil {
		return err
	}
	constraint, err := o.config.ConstraintOptions()
	if err != nil {
		return err
	}

	mesh, err := terrainmesh.TriangulateContext(ctx, poly, constraint, o.config.QualityOptions())
	if mesh == nil {
		return err
	}
	// A refinement failure still leaves a mesh worth reporting.
	if err != nil {
		fmt.Fprintln(out, aurora.NewAurora(color).Yellow(fmt.Sprintf("warning: %v", err)))
	}

	quality := terrainmesh.MeasureQuality(mesh)
	printSummary(out, quality, color)
	if o.verbose {
		pretty.Fprintf(out, "%# v\n", quality)
	}

	if o.heights {
		t := o.config.Terrain
		field := terrain.NewPerlinField(2, 2, t.Octave, t.Seed, t.Scale)
		heights := terrain.SampleHeights(mesh, field)
		low, high := math.Inf(1), math.Inf(-1)
		for _, h := range heights {
			low = math.Min(low, h)
			high = math.Max(high, h)
		}
		fmt.Fprintf(out, "heights:   %d samples in [%.3f, %.3f]\n", len(heights), low, high)
	}

	if path := o.config.Output.PNG; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := mesh.DebugDraw(f, o.config.Output.Scale); err != nil {
			f.Close()
			return errors.Wrapf(err, "drawing %s", path)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	if o.config.Output.Imgcat {
		mesh.DebugCat(o.config.Output.Scale)
	}
	return nil
}

func printSummary(out io.Writer, q terrainmesh.Quality, color bool) {
	au := aurora.NewAurora(color)
	fmt.Fprintf(out, "%s %d triangles, %d vertices, %d edges, %d segments\n",
		au.Green("mesh:"), q.Triangles, q.Vertices, q.Edges, q.Segments)
	fmt.Fprintf(out, "angles:    %.2f° to %.2f°\n", q.MinAngle, q.MaxAngle)
	fmt.Fprintf(out, "areas:     %.4g to %.4g (total %.6g)\n", q.MinArea, q.MaxArea, q.TotalArea)
	fmt.Fprintf(out, "edges:     %.4g to %.4g\n", q.MinEdge, q.MaxEdge)
}
