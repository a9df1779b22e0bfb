package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/planbiir/gpxalyzer/internal/analysis"
	"github.com/planbiir/gpxalyzer/internal/config"
	"github.com/planbiir/gpxalyzer/internal/export"
	"github.com/planbiir/gpxalyzer/internal/gpx"
	"github.com/planbiir/gpxalyzer/internal/logging"
	"github.com/planbiir/gpxalyzer/internal/track"
)

const version = "gpxalyzer v0.3.0 - GPS track speed analyzer"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.MustLoad()
	log := logging.Setup(cfg.Env, stderr)

	fs := flag.NewFlagSet("gpxalyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		inputFile   = fs.String("i", "", "Input GPX file")
		outputFile  = fs.String("o", "", "Output file (default: <input>_speed.<format>)")
		window      = fs.Int("window", cfg.Window, "Look-ahead window in points for speed (1 = instantaneous)")
		radius      = fs.Float64("radius", cfg.EarthRadius, "Earth radius in meters for distances")
		workers     = fs.Int("workers", cfg.Workers, "Concurrent segment workers (0 = one per CPU)")
		formatName  = fs.String("format", string(export.FormatCSV), "Output format: csv or json")
		showStats   = fs.Bool("stats", false, "Show track statistics")
		showVersion = fs.Bool("version", false, "Show version information")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "gpxalyzer - Annotate GPX tracks with speed and export columns\n\n")
		fmt.Fprintf(stderr, "usage: gpxalyzer -i /path/to/file.gpx\n\n")
		fmt.Fprintf(stderr, "examples:\n")
		fmt.Fprintf(stderr, "  gpxalyzer -i track.gpx\n")
		fmt.Fprintf(stderr, "  gpxalyzer -i track.gpx -window 15 -format json\n")
		fmt.Fprintf(stderr, "  gpxalyzer -i \"My Activity.gpx\" -stats -o speeds.csv\n\n")
		fmt.Fprintf(stderr, "options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}

	if *inputFile == "" {
		fs.Usage()
		return 2
	}

	format, err := export.ParseFormat(*formatName)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	trackCfg := track.Config{Window: *window, EarthRadius: *radius}
	analyzer, err := analysis.NewAnalyzer(log, trackCfg, *workers)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	// Generate output filename if not provided
	if *outputFile == "" {
		ext := filepath.Ext(*inputFile)
		base := strings.TrimSuffix(*inputFile, ext)
		*outputFile = base + "_speed." + string(format)
	}

	fmt.Fprintf(stdout, "📖 Reading GPX file: %s\n", *inputFile)
	doc, err := gpx.Parse(*inputFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading GPX file: %v\n", err)
		return 1
	}

	refs := doc.Segments()
	if len(refs) == 0 {
		fmt.Fprintf(stdout, "❌ No track segments found in file\n")
		return 1
	}

	if *showStats {
		printStats(stdout, doc)
	}

	segments := make([]*track.Segment, len(refs))
	for i, ref := range refs {
		segments[i] = ref.Segment
	}

	results, err := analyzer.Analyze(ctx, segments)
	if err != nil {
		fmt.Fprintf(stderr, "Error analyzing track: %v\n", err)
		return 1
	}

	entries := make([]export.Entry, len(results))
	failed := 0
	for i, res := range results {
		entries[i] = export.Entry{Track: refs[i].TrackIdx, Segment: refs[i].SegIdx, Result: res}
		printSegment(stdout, entries[i])
		if res.Err != nil {
			failed++
		}
	}

	if failed == len(results) {
		fmt.Fprintf(stdout, "❌ No segment could be annotated (window=%d)\n", trackCfg.Window)
		return 1
	}

	fmt.Fprintf(stdout, "💾 Writing %s: %s\n", format, *outputFile)
	if err := writeOutput(*outputFile, format, trackCfg, entries); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "✅ Annotated %d of %d segments\n", len(results)-failed, len(results))
	return 0
}

func writeOutput(path string, format export.Format, cfg track.Config, entries []export.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := export.Write(f, format, cfg, entries); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printSegment(w io.Writer, e export.Entry) {
	res := e.Result
	if res.Points == 0 {
		fmt.Fprintf(w, "⚠️  Track %d segment %d: empty\n", e.Track, e.Segment)
		return
	}

	fmt.Fprintf(w, "📍 Track %d segment %d: %d points, lat [%.6f, %.6f], lon [%.6f, %.6f]\n",
		e.Track, e.Segment, res.Points,
		res.Bounds.Min.Lat(), res.Bounds.Max.Lat(),
		res.Bounds.Min.Lon(), res.Bounds.Max.Lon())
	if res.Err != nil {
		fmt.Fprintf(w, "   ⚠️  speed not annotated (%s): %v\n", track.Classify(res.Err), res.Err)
	}
}

func printStats(w io.Writer, doc *gpx.Document) {
	points, tracks, segments, duration, distance := doc.Stats()
	fmt.Fprintf(w, "\n📊 Track Statistics:\n")
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(w, "📍 Points: %d across %d tracks, %d segments\n", points, tracks, segments)
	fmt.Fprintf(w, "📏 Distance: %.2f km\n", distance/1000)
	fmt.Fprintf(w, "⏱️  Duration: %v\n", duration)
	if duration > 0 {
		fmt.Fprintf(w, "⚡ Average speed: %.1f m/s\n", distance/duration.Seconds())
	}
	fmt.Fprintf(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}
