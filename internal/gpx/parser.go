package gpx

import (
	"fmt"
	"io"
	"os"
	"time"

	gpxgo "github.com/tkrajina/gpxgo/gpx"

	"github.com/planbiir/gpxalyzer/internal/geo"
	"github.com/planbiir/gpxalyzer/internal/track"
)

// Parse reads and parses a GPX file
func Parse(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader parses GPX from an io.Reader
func ParseReader(r io.Reader) (*Document, error) {
	gpxData, err := gpxgo.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	return fromGPX(gpxData), nil
}

// fromGPX converts gpxgo's model. Absent elevations and zero timestamps
// become nil so the analytics can tell them apart from real values.
func fromGPX(g *gpxgo.GPX) *Document {
	doc := &Document{
		Name:    g.Name,
		Creator: g.Creator,
		Tracks:  make([]Track, len(g.Tracks)),
	}

	for trackIdx, trk := range g.Tracks {
		segments := make([]track.Segment, len(trk.Segments))
		for segIdx, seg := range trk.Segments {
			points := make([]track.Waypoint, len(seg.Points))
			for ptIdx, pt := range seg.Points {
				points[ptIdx] = toWaypoint(pt)
			}
			segments[segIdx] = track.Segment{Points: points}
		}
		doc.Tracks[trackIdx] = Track{Name: trk.Name, Segments: segments}
	}

	return doc
}

func toWaypoint(pt gpxgo.GPXPoint) track.Waypoint {
	w := track.Waypoint{
		Lat: pt.Latitude,
		Lon: pt.Longitude,
	}
	if pt.Elevation.NotNull() {
		w.Elevation = track.Float(pt.Elevation.Value())
	}
	if !pt.Timestamp.IsZero() {
		w.Time = track.Time(pt.Timestamp)
	}
	return w
}

// Stats returns basic statistics about the document. Distance is summed
// within segments only; the gap between two segments is not travelled.
func (d *Document) Stats() (pointCount int, trackCount int, segmentCount int, duration time.Duration, distance float64) {
	trackCount = len(d.Tracks)

	var first, last time.Time
	for _, ref := range d.Segments() {
		segmentCount++
		points := ref.Segment.Points
		pointCount += len(points)

		for i, pt := range points {
			if pt.Time != nil {
				if first.IsZero() || pt.Time.Before(first) {
					first = *pt.Time
				}
				if last.IsZero() || pt.Time.After(last) {
					last = *pt.Time
				}
			}
			if i > 0 {
				distance += geo.Distance(points[i-1].Position(), pt.Position())
			}
		}
	}

	if !first.IsZero() {
		duration = last.Sub(first)
	}

	return
}
