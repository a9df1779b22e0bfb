package track

import (
	"fmt"

	"github.com/planbiir/gpxalyzer/internal/geo"
)

// AnnotateSpeed sets Speed on every point that has a partner window points
// ahead, using the default sphere. See Config.Annotate.
func AnnotateSpeed(seg *Segment, window int) error {
	cfg := DefaultConfig()
	cfg.Window = window
	return cfg.Annotate(seg)
}

// Annotate assigns each point i in [0, n-window) the average speed between
// it and point i+window: great-circle distance over elapsed seconds. The
// trailing window points have no look-ahead partner and are left with a nil
// Speed.
//
// Speeds are computed into a scratch buffer and written back only when every
// pair succeeded, so on error the segment is unchanged.
//
// The caller must hold exclusive access to seg for the duration of the call.
func (c Config) Annotate(seg *Segment) error {
	n := seg.Len()
	if n == 0 {
		return ErrEmptySegment
	}
	if c.Window <= 0 || c.Window >= n {
		return fmt.Errorf("window %d for %d points: %w", c.Window, n, ErrInvalidWindow)
	}
	if !(c.EarthRadius > 0) {
		return fmt.Errorf("earth radius must be positive, got %v", c.EarthRadius)
	}

	speeds, err := windowedSpeeds(seg.Points, c.Window, c.Sphere())
	if err != nil {
		return err
	}

	for i := range seg.Points {
		if i < len(speeds) {
			v := speeds[i]
			seg.Points[i].Speed = &v
		} else {
			seg.Points[i].Speed = nil
		}
	}
	return nil
}

// windowedSpeeds returns n-window speeds. Endpoints are read by value so the
// caller's slice is never aliased while it is being written.
func windowedSpeeds(points []Waypoint, window int, sphere geo.Sphere) ([]float64, error) {
	speeds := make([]float64, len(points)-window)

	for i := range speeds {
		j := i + window
		p, q := points[i], points[j]

		if p.Time == nil || q.Time == nil {
			return nil, &PointError{Index: i, Other: j, Err: ErrMissingTimestamp}
		}

		seconds := q.Time.Sub(*p.Time).Seconds()
		if seconds <= 0 {
			return nil, &PointError{Index: i, Other: j, Err: ErrZeroDuration}
		}

		speeds[i] = sphere.Distance(p.Position(), q.Position()) / seconds
	}

	return speeds, nil
}
