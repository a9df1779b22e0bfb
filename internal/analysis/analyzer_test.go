package analysis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planbiir/gpxalyzer/internal/track"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func timedSegment(n int) *track.Segment {
	base := time.Date(2025, 1, 1, 7, 0, 0, 0, time.UTC)
	seg := &track.Segment{Points: make([]track.Waypoint, n)}
	for i := range seg.Points {
		seg.Points[i] = track.Waypoint{
			Lat:  46.0 + float64(i)*0.0001,
			Lon:  7.0,
			Time: track.Time(base.Add(time.Duration(i) * time.Second)),
		}
	}
	return seg
}

func TestAnalyze(t *testing.T) {
	analyzer, err := NewAnalyzer(discardLogger(), track.DefaultConfig(), 2)
	require.NoError(t, err)

	broken := timedSegment(4)
	broken.Points[2].Time = nil

	segments := []*track.Segment{timedSegment(10), {}, broken, timedSegment(3)}

	results, err := analyzer.Analyze(context.Background(), segments)
	require.NoError(t, err)
	require.Len(t, results, 4)

	t.Run("annotated segment", func(t *testing.T) {
		res := results[0]
		require.NoError(t, res.Err)
		assert.Equal(t, 0, res.Index)
		assert.Equal(t, 10, res.Points)
		assert.Equal(t, 10, res.Columns.Len())
		assert.InDelta(t, 46.0, res.Bounds.Min.Lat(), 1e-12)
		assert.InDelta(t, 46.0009, res.Bounds.Max.Lat(), 1e-12)
		// 0.0001 deg of latitude per second
		assert.InDelta(t, 11.13, res.Columns.Speed[0], 0.01)
		assert.Zero(t, res.Columns.Speed[9])
		require.NotNil(t, segments[0].Points[0].Speed, "segment annotated in place")
	})

	t.Run("empty segment", func(t *testing.T) {
		assert.ErrorIs(t, results[1].Err, track.ErrEmptySegment)
		assert.Zero(t, results[1].Columns.Len())
	})

	t.Run("missing timestamp keeps columns", func(t *testing.T) {
		res := results[2]
		assert.ErrorIs(t, res.Err, track.ErrMissingTimestamp)
		assert.Equal(t, track.ClassInvalid, track.Classify(res.Err))
		assert.Equal(t, 4, res.Columns.Len())
		assert.Equal(t, []float64{0, 0, 0, 0}, res.Columns.Speed)
	})

	t.Run("independent segments", func(t *testing.T) {
		assert.NoError(t, results[3].Err)
		assert.Equal(t, 3, results[3].Index)
	})
}

func TestAnalyzeWindowTooLarge(t *testing.T) {
	cfg := track.DefaultConfig()
	cfg.Window = track.SmoothedWindow
	analyzer, err := NewAnalyzer(discardLogger(), cfg, 0)
	require.NoError(t, err)

	results, err := analyzer.Analyze(context.Background(), []*track.Segment{timedSegment(10), timedSegment(40)})
	require.NoError(t, err)

	assert.ErrorIs(t, results[0].Err, track.ErrInvalidWindow)
	require.NoError(t, results[1].Err)
	assert.NotZero(t, results[1].Columns.Speed[24])
	assert.Zero(t, results[1].Columns.Speed[25])
}

func TestAnalyzeCancelled(t *testing.T) {
	analyzer, err := NewAnalyzer(discardLogger(), track.DefaultConfig(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = analyzer.Analyze(ctx, []*track.Segment{timedSegment(5)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewAnalyzerInvalidConfig(t *testing.T) {
	_, err := NewAnalyzer(discardLogger(), track.Config{Window: 0, EarthRadius: 1}, 1)
	assert.ErrorIs(t, err, track.ErrInvalidWindow)

	analyzer, err := NewAnalyzer(discardLogger(), track.DefaultConfig(), 0)
	require.NoError(t, err)
	assert.Positive(t, analyzer.workers)
	assert.Equal(t, track.DefaultConfig(), analyzer.Config())
}
