package track

import (
	"fmt"
	"time"

	"github.com/planbiir/gpxalyzer/internal/geo"
)

// Waypoint is a single timestamped GPS sample. Elevation, Time and Speed are
// nil when absent; Speed is only ever set by the annotator.
type Waypoint struct {
	Lat       float64
	Lon       float64
	Elevation *float64
	Time      *time.Time
	Speed     *float64 // m/s
}

// Position returns the waypoint's coordinates.
func (w Waypoint) Position() geo.Point {
	return geo.Point{Lat: w.Lat, Lon: w.Lon}
}

// Segment is an ordered run of waypoints, chronological by convention.
type Segment struct {
	Points []Waypoint
}

// Len returns the number of points in the segment.
func (s *Segment) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

const (
	// InstantWindow compares consecutive points. Noisy under GPS jitter.
	InstantWindow = 1

	// SmoothedWindow averages over 15 sample intervals at the cost of a
	// delayed signal and a 15-point unannotated tail.
	SmoothedWindow = 15

	// DefaultWindow is the window used by DefaultConfig.
	DefaultWindow = InstantWindow
)

// Config holds speed annotation parameters
type Config struct {
	Window      int     // index offset between compared points
	EarthRadius float64 // meters - sphere radius for haversine
}

// DefaultConfig returns the instantaneous-speed configuration on the
// equatorial-radius sphere.
func DefaultConfig() Config {
	return Config{
		Window:      DefaultWindow,
		EarthRadius: geo.EarthRadius,
	}
}

// Validate reports configuration values that can never annotate a segment.
func (c Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("window %d: %w", c.Window, ErrInvalidWindow)
	}
	if !(c.EarthRadius > 0) {
		return fmt.Errorf("earth radius must be positive, got %v", c.EarthRadius)
	}
	return nil
}

// Sphere returns the sphere distances are measured on.
func (c Config) Sphere() geo.Sphere {
	return geo.Sphere{Radius: c.EarthRadius}
}

// Float returns a pointer to v, for building waypoints with optional fields.
func Float(v float64) *float64 {
	return &v
}

// Time returns a pointer to t, for building waypoints with optional fields.
func Time(t time.Time) *time.Time {
	return &t
}
