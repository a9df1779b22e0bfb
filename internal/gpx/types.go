package gpx

import (
	"github.com/planbiir/gpxalyzer/internal/track"
)

// Document is a parsed GPX file reduced to what track analysis needs.
type Document struct {
	Name    string
	Creator string
	Tracks  []Track
}

// Track is a named GPX track with its segments.
type Track struct {
	Name     string
	Segments []track.Segment
}

// SegmentRef points at one segment inside a Document.
type SegmentRef struct {
	TrackIdx int
	SegIdx   int
	Segment  *track.Segment
}

// Segments returns every segment of every track in file order.
func (d *Document) Segments() []SegmentRef {
	var refs []SegmentRef

	for trackIdx := range d.Tracks {
		for segIdx := range d.Tracks[trackIdx].Segments {
			refs = append(refs, SegmentRef{
				TrackIdx: trackIdx,
				SegIdx:   segIdx,
				Segment:  &d.Tracks[trackIdx].Segments[segIdx],
			})
		}
	}

	return refs
}
