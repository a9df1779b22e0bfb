package export

import (
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/planbiir/gpxalyzer/internal/analysis"
	"github.com/planbiir/gpxalyzer/internal/track"
)

// Entry labels one analysis result with its position in the source document.
type Entry struct {
	Track   int
	Segment int
	Result  analysis.Result
}

// Report is the JSON form of an analysis run. ID is set by the service to
// correlate a response with its log lines.
type Report struct {
	ID          string          `json:"id,omitempty"`
	Window      int             `json:"window"`
	EarthRadius float64         `json:"earth_radius_m"`
	Segments    []SegmentReport `json:"segments"`
}

// SegmentReport describes one segment. Ranges and BBox are omitted for
// empty segments; Error and Class are set when annotation failed.
type SegmentReport struct {
	Track     int          `json:"track"`
	Segment   int          `json:"segment"`
	Points    int          `json:"points"`
	LatRange  *[2]float64  `json:"lat_range,omitempty"`
	LonRange  *[2]float64  `json:"lon_range,omitempty"`
	BBox      geojson.BBox `json:"bbox,omitempty"`
	Error     string       `json:"error,omitempty"`
	Class     string       `json:"class,omitempty"`
	Lat       []float64    `json:"lat"`
	Lon       []float64    `json:"lon"`
	Elevation []*float64   `json:"ele"`
	Time      []*time.Time `json:"time"`
	Speed     []float64    `json:"speed_mps"`
}

// NewReport builds a Report from analysis entries.
func NewReport(cfg track.Config, entries []Entry) Report {
	report := Report{
		Window:      cfg.Window,
		EarthRadius: cfg.EarthRadius,
		Segments:    make([]SegmentReport, 0, len(entries)),
	}

	for _, e := range entries {
		res := e.Result
		sr := SegmentReport{
			Track:     e.Track,
			Segment:   e.Segment,
			Points:    res.Points,
			Lat:       orEmpty(res.Columns.Lat),
			Lon:       orEmpty(res.Columns.Lon),
			Elevation: res.Columns.Elevation,
			Time:      res.Columns.Time,
			Speed:     orEmpty(res.Columns.Speed),
		}
		if sr.Elevation == nil {
			sr.Elevation = []*float64{}
		}
		if sr.Time == nil {
			sr.Time = []*time.Time{}
		}
		if res.Points > 0 {
			sr.LatRange = &[2]float64{res.Bounds.Min.Lat(), res.Bounds.Max.Lat()}
			sr.LonRange = &[2]float64{res.Bounds.Min.Lon(), res.Bounds.Max.Lon()}
			sr.BBox = geojson.NewBBox(res.Bounds)
		}
		if res.Err != nil {
			sr.Error = res.Err.Error()
			sr.Class = track.Classify(res.Err).String()
		}
		report.Segments = append(report.Segments, sr)
	}

	return report
}

func orEmpty(xs []float64) []float64 {
	if xs == nil {
		return []float64{}
	}
	return xs
}
