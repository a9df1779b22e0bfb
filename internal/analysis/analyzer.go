package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"github.com/planbiir/gpxalyzer/internal/track"
)

// Result is the analysis of one segment. Err holds the annotation failure, if
// any; Bounds and Columns are still filled for non-empty segments so callers
// can decide whether to skip the segment or use it without speeds.
type Result struct {
	Index   int
	Points  int
	Bounds  orb.Bound
	Columns track.Columns
	Err     error
}

// Analyzer annotates speed and extracts columns for batches of segments.
type Analyzer struct {
	log     *slog.Logger
	cfg     track.Config
	workers int
}

// NewAnalyzer creates an Analyzer. workers <= 0 means one per CPU.
func NewAnalyzer(log *slog.Logger, cfg track.Config, workers int) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid track config: %w", err)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Analyzer{log: log, cfg: cfg, workers: workers}, nil
}

// Config returns the annotation parameters in use.
func (a *Analyzer) Config() track.Config {
	return a.cfg
}

// Analyze processes every segment and returns one Result per segment in input
// order. Segments are annotated in place, each by a single goroutine; the
// caller must not touch them until Analyze returns.
func (a *Analyzer) Analyze(ctx context.Context, segments []*track.Segment) (_ []Result, err error) {
	defer a.timed(ctx, "analysis.Analyze")(&err)

	results := make([]Result, len(segments))
	jobs := make(chan int, len(segments))
	for i := range segments {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < min(a.workers, len(segments)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				results[idx] = a.analyzeSegment(ctx, idx, segments[idx])
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Analyzer) analyzeSegment(ctx context.Context, idx int, seg *track.Segment) Result {
	res := Result{Index: idx, Points: seg.Len()}

	bound, err := track.Bounds(seg)
	if err != nil {
		res.Err = err
		a.log.DebugContext(ctx, "Skipping segment", "segment", idx, "error", err)
		return res
	}
	res.Bounds = bound

	if err := a.cfg.Annotate(seg); err != nil {
		res.Err = fmt.Errorf("segment %d: %w", idx, err)
		a.log.WarnContext(ctx, "Speed annotation failed",
			"segment", idx,
			"points", res.Points,
			"window", a.cfg.Window,
			"class", track.Classify(err).String(),
			"error", err,
		)
	}

	res.Columns = track.Extract(seg)
	return res
}

// timed logs the duration of an operation when the returned func is deferred.
func (a *Analyzer) timed(ctx context.Context, op string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)
		if errp != nil && *errp != nil {
			a.log.DebugContext(ctx, "operation failed", "op", op, "dur_ms", dur.Milliseconds(), "error", *errp)
			return
		}
		a.log.DebugContext(ctx, "operation finished", "op", op, "dur_ms", dur.Milliseconds())
	}
}
