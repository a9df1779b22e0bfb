package geo

import "math"

const (
	// EarthRadius is the sphere radius (meters) used for track distances.
	// 6.3781e6 m is the equatorial radius; speeds computed with it read about
	// 0.1% higher than with MeanEarthRadius.
	EarthRadius = 6378100.0

	// MeanEarthRadius is the IUGG mean Earth radius in meters.
	MeanEarthRadius = 6371000.0
)

// Point is a position in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Sphere computes great-circle distances on a sphere of the given radius.
type Sphere struct {
	Radius float64 // meters
}

// Distance returns the haversine distance in meters between a and b on a
// sphere of EarthRadius.
func Distance(a, b Point) float64 {
	return Sphere{Radius: EarthRadius}.Distance(a, b)
}

// Distance returns the haversine surface distance in meters between a and b.
//
//	a = sin²(Δφ/2) + cos φ1 ⋅ cos φ2 ⋅ sin²(Δλ/2)
//	d = 2 ⋅ R ⋅ asin(√a)
func (s Sphere) Distance(a, b Point) float64 {
	if a == b {
		return 0
	}

	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	sinLat := math.Sin(radians(b.Lat-a.Lat) / 2)
	sinLon := math.Sin(radians(b.Lon-a.Lon) / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	// rounding can push h a hair past 1 for near-antipodal points
	h = math.Min(h, 1)

	return 2 * s.Radius * math.Asin(math.Sqrt(h))
}

func radians(d float64) float64 {
	return d * math.Pi / 180
}
