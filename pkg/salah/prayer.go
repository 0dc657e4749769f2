package salah

import "fmt"

// Prayer identifies one of the daily time boundaries.
type Prayer int

// Prayers in the order they occur.
const (
	Fajr Prayer = iota
	Sherook
	Dohr
	Asr
	Maghreb
	Ishaa
	FajrTomorrow
)

// String returns the display name. Dohr is always "Dohr"; use Times.Name
// for the Friday name.
func (p Prayer) String() string {
	switch p {
	case Fajr:
		return "Fajr"
	case Sherook:
		return "Sherook"
	case Dohr:
		return "Dohr"
	case Asr:
		return "Asr"
	case Maghreb:
		return "Maghreb"
	case Ishaa:
		return "Ishaa"
	case FajrTomorrow:
		return "Fajr"
	default:
		return fmt.Sprintf("Prayer(%d)", int(p))
	}
}

// Daily returns the six boundaries of a day, fajr to ishaa.
func Daily() []Prayer {
	return []Prayer{Fajr, Sherook, Dohr, Asr, Maghreb, Ishaa}
}
