package salah

import (
	"fmt"
	"math"
	"time"
)

// Location is a point on earth and the UTC offset its clocks follow.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Timezone is the UTC offset in hours, e.g. 7 or 5.5.
	Timezone float64 `json:"timezone"`
}

// NewLocation validates and returns a location.
func NewLocation(latitude, longitude, timezone float64) (Location, error) {
	loc := Location{Latitude: latitude, Longitude: longitude, Timezone: timezone}
	if err := loc.Validate(); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// Validate checks the coordinate and offset ranges.
func (l Location) Validate() error {
	switch {
	case math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90:
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidLocation, l.Latitude)
	case math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180:
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidLocation, l.Longitude)
	case math.IsNaN(l.Timezone) || l.Timezone < -12 || l.Timezone > 14:
		return fmt.Errorf("%w: timezone %v out of range [-12, 14]", ErrInvalidLocation, l.Timezone)
	}
	return nil
}

// Zone returns a fixed time zone for the location's offset.
func (l Location) Zone() *time.Location {
	offset := int(math.Round(l.Timezone * 3600))
	sign := '+'
	abs := offset
	if offset < 0 {
		sign = '-'
		abs = -offset
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, offset)
}

// String formats the location as "6.1000, 106.4900 (UTC+07:00)".
func (l Location) String() string {
	return fmt.Sprintf("%.4f, %.4f (%s)", l.Latitude, l.Longitude, l.Zone())
}
