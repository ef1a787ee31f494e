// Package geo provides spherical-earth distance and bearing math.
package geo

import (
	"math"
)

// EarthRadiusMeters is the mean earth radius used by the haversine formula
const EarthRadiusMeters = 6_371_000.0

const metersPerDegreeLat = math.Pi * EarthRadiusMeters / 180

// Point is a latitude/longitude pair in degrees
type Point struct {
	Lat float64
	Lng float64
}

// Bounds is an axis-aligned lat/lng box
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// DistanceMeters returns the great-circle distance between two coordinates
// using the haversine formula. Inputs must be valid coordinates; see
// ValidCoordinate.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	dLatRad := toRadians(lat2 - lat1)
	dLngRad := toRadians(lng2 - lng1)

	a := math.Sin(dLatRad/2)*math.Sin(dLatRad/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLngRad/2)*math.Sin(dLngRad/2)
	// Rounding can push a slightly past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// Distance is DistanceMeters for Points
func Distance(a, b Point) float64 {
	return DistanceMeters(a.Lat, a.Lng, b.Lat, b.Lng)
}

// BearingDegrees returns the initial compass bearing from the first
// coordinate to the second, normalized to [0, 360).
func BearingDegrees(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	dLngRad := toRadians(lng2 - lng1)

	y := math.Sin(dLngRad) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) - math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dLngRad)
	theta := math.Atan2(y, x)
	return math.Mod(toDegrees(theta)+360, 360)
}

// BoundsAround returns a box that contains every point within radiusMeters
// of center. Used as an index-friendly prefilter before exact distance checks.
func BoundsAround(center Point, radiusMeters float64) Bounds {
	dLat := radiusMeters / metersPerDegreeLat
	minLat := math.Max(-90, center.Lat-dLat)
	maxLat := math.Min(90, center.Lat+dLat)

	// Longitude degrees shrink toward the poles; size the box for the
	// box edge closest to a pole.
	cosLat := math.Cos(toRadians(math.Max(math.Abs(minLat), math.Abs(maxLat))))
	dLng := 180.0
	if cosLat > 1e-9 {
		dLng = math.Min(180, dLat/cosLat)
	}

	return Bounds{
		MinLat: minLat,
		MaxLat: maxLat,
		MinLng: center.Lng - dLng,
		MaxLng: center.Lng + dLng,
	}
}

// Contains reports whether p is inside b. Longitudes are compared after
// wrapping so boxes crossing the antimeridian still match.
func (b Bounds) Contains(p Point) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	if b.MaxLng-b.MinLng >= 360 {
		return true
	}
	lng := p.Lng
	for lng < b.MinLng {
		lng += 360
	}
	for lng > b.MaxLng {
		lng -= 360
	}
	return lng >= b.MinLng && lng <= b.MaxLng
}

// ValidCoordinate rejects NaN, infinities and out-of-range degrees
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Destination returns the point reached by travelling distanceMeters from
// start along the given initial bearing.
func Destination(start Point, bearingDeg, distanceMeters float64) Point {
	delta := distanceMeters / EarthRadiusMeters
	theta := toRadians(bearingDeg)
	lat1Rad := toRadians(start.Lat)
	lng1Rad := toRadians(start.Lng)

	lat2Rad := math.Asin(math.Sin(lat1Rad)*math.Cos(delta) +
		math.Cos(lat1Rad)*math.Sin(delta)*math.Cos(theta))
	lng2Rad := lng1Rad + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1Rad),
		math.Cos(delta)-math.Sin(lat1Rad)*math.Sin(lat2Rad),
	)

	lng := math.Mod(toDegrees(lng2Rad)+540, 360) - 180
	return Point{Lat: toDegrees(lat2Rad), Lng: lng}
}
