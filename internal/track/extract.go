package track

import "time"

// Latitudes returns one latitude per point, in point order.
func Latitudes(seg *Segment) []float64 {
	out := make([]float64, seg.Len())
	for i := range out {
		out[i] = seg.Points[i].Lat
	}
	return out
}

// Longitudes returns one longitude per point, in point order.
func Longitudes(seg *Segment) []float64 {
	out := make([]float64, seg.Len())
	for i := range out {
		out[i] = seg.Points[i].Lon
	}
	return out
}

// Elevations returns one elevation per point. It fails with a *FieldError at
// the first point without elevation.
func Elevations(seg *Segment) ([]float64, error) {
	out := make([]float64, seg.Len())
	for i := range out {
		ele := seg.Points[i].Elevation
		if ele == nil {
			return nil, &FieldError{Field: "elevation", Index: i}
		}
		out[i] = *ele
	}
	return out, nil
}

// Timestamps returns one timestamp per point. It fails with a *FieldError at
// the first point without a time.
func Timestamps(seg *Segment) ([]time.Time, error) {
	out := make([]time.Time, seg.Len())
	for i := range out {
		ts := seg.Points[i].Time
		if ts == nil {
			return nil, &FieldError{Field: "time", Index: i}
		}
		out[i] = *ts
	}
	return out, nil
}

// Speeds returns one speed per point in m/s. Points that were never annotated
// read as 0 so the series can be plotted end to end.
func Speeds(seg *Segment) []float64 {
	out := make([]float64, seg.Len())
	for i := range out {
		if v := seg.Points[i].Speed; v != nil {
			out[i] = *v
		}
	}
	return out
}

// ElapsedSeconds returns the seconds since the first point for every point.
func ElapsedSeconds(seg *Segment) ([]float64, error) {
	times, err := Timestamps(seg)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(times))
	for i, ts := range times {
		out[i] = ts.Sub(times[0]).Seconds()
	}
	return out, nil
}

// Columns holds a segment projected into parallel per-point sequences.
// Elevation and Time keep nil entries where the point lacks the field.
type Columns struct {
	Lat       []float64
	Lon       []float64
	Elevation []*float64
	Time      []*time.Time
	Speed     []float64
}

// Len returns the number of rows.
func (c Columns) Len() int {
	return len(c.Lat)
}

// Extract projects every field of the segment. It never fails; use
// Elevations or Timestamps when a missing value must be an error.
func Extract(seg *Segment) Columns {
	n := seg.Len()
	cols := Columns{
		Lat:       Latitudes(seg),
		Lon:       Longitudes(seg),
		Elevation: make([]*float64, n),
		Time:      make([]*time.Time, n),
		Speed:     Speeds(seg),
	}
	for i, w := range seg.Points {
		cols.Elevation[i] = w.Elevation
		cols.Time[i] = w.Time
	}
	return cols
}
