package track

import "github.com/paulmach/orb"

// Bounds scans the segment once and returns the bounding box of its points.
// orb points are [lon, lat], so Min[1]/Max[1] hold the latitude range.
func Bounds(seg *Segment) (orb.Bound, error) {
	if seg.Len() == 0 {
		return orb.Bound{}, ErrEmptySegment
	}

	first := orb.Point{seg.Points[0].Lon, seg.Points[0].Lat}
	bound := orb.Bound{Min: first, Max: first}
	for _, w := range seg.Points[1:] {
		bound = bound.Extend(orb.Point{w.Lon, w.Lat})
	}

	return bound, nil
}

// LatitudeRange returns the smallest and largest latitude in the segment.
func LatitudeRange(seg *Segment) (lo, hi float64, err error) {
	bound, err := Bounds(seg)
	if err != nil {
		return 0, 0, err
	}
	return bound.Min.Lat(), bound.Max.Lat(), nil
}

// LongitudeRange returns the smallest and largest longitude in the segment.
func LongitudeRange(seg *Segment) (lo, hi float64, err error) {
	bound, err := Bounds(seg)
	if err != nil {
		return 0, 0, err
	}
	return bound.Min.Lon(), bound.Max.Lon(), nil
}
