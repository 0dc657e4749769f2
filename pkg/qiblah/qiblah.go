// Package qiblah computes the direction of and distance to the Kaaba.
package qiblah

import (
	"fmt"
	"math"

	"github.com/leapstack-labs/miqat/internal/astro"
	"github.com/leapstack-labs/miqat/pkg/salah"
)

// Kaaba coordinates in degrees.
const (
	KaabaLatitude  = 21.4225241
	KaabaLongitude = 39.8261818
)

// earthRadius is the mean radius of the earth in kilometres.
const earthRadius = 6371.0088

// Direction returns the initial great-circle bearing from (lat, lon) to the
// Kaaba, in degrees clockwise from true north within [0, 360).
func Direction(lat, lon float64) float64 {
	dLon := KaabaLongitude - lon
	y := astro.Sin(dLon) * astro.Cos(KaabaLatitude)
	x := astro.Cos(lat)*astro.Sin(KaabaLatitude) -
		astro.Sin(lat)*astro.Cos(KaabaLatitude)*astro.Cos(dLon)

	bearing := math.Mod(astro.Degrees(math.Atan2(y, x))+360, 360)
	if bearing >= 360 {
		bearing = 0
	}
	return bearing
}

// Distance returns the great-circle distance from (lat, lon) to the Kaaba
// in kilometres.
func Distance(lat, lon float64) float64 {
	dLat := astro.Radians(KaabaLatitude - lat)
	dLon := astro.Radians(KaabaLongitude - lon)
	a := math.Pow(math.Sin(dLat/2), 2) +
		astro.Cos(lat)*astro.Cos(KaabaLatitude)*math.Pow(math.Sin(dLon/2), 2)
	return 2 * earthRadius * math.Asin(math.Sqrt(a))
}

// Sixty formats a bearing in degrees, minutes and seconds: 295° 8' 39".
// Minutes and seconds are truncated.
func Sixty(bearing float64) string {
	deg := math.Floor(bearing)
	minutes := (bearing - deg) * 60
	seconds := (minutes - math.Floor(minutes)) * 60
	return fmt.Sprintf("%d° %d' %d\"", int(deg), int(minutes), int(seconds))
}

// Qiblah is the qiblah of one location.
type Qiblah struct {
	location salah.Location
}

// New returns the qiblah of loc.
func New(loc salah.Location) Qiblah {
	return Qiblah{location: loc}
}

// Direction returns the bearing in degrees from true north.
func (q Qiblah) Direction() float64 {
	return Direction(q.location.Latitude, q.location.Longitude)
}

// Sixty returns the bearing as degrees, minutes and seconds.
func (q Qiblah) Sixty() string {
	return Sixty(q.Direction())
}

// Distance returns the distance to the Kaaba in kilometres.
func (q Qiblah) Distance() float64 {
	return Distance(q.location.Latitude, q.location.Longitude)
}
