package salah

import "time"

// IshaInterval places ishaa a fixed time after maghreb instead of at a
// twilight angle. A zero AllYear disables it.
type IshaInterval struct {
	AllYear time.Duration
	Ramadan time.Duration
}

// Enabled reports whether the interval replaces the ishaa angle.
func (i IshaInterval) Enabled() bool {
	return i.AllYear > 0
}

// Config holds the parameters of a calculation.
type Config struct {
	// FajrAngle and IshaAngle are sun depression angles below the horizon.
	FajrAngle float64
	IshaAngle float64
	Method    Method
	Madhab    Madhab
	// SummerTime adds one hour to every computed time.
	SummerTime   bool
	IshaInterval IshaInterval
}

// NewConfig returns the default configuration: 18° for both twilights,
// Muslim World League, Shafi asr.
func NewConfig() Config {
	return Config{
		FajrAngle: 18,
		IshaAngle: 18,
		Method:    MuslimWorldLeague,
		Madhab:    Shafi,
	}
}

// With returns the preset of method with madhab applied. The receiver is
// not consulted; it exists so calls read as NewConfig().With(...).
func (c Config) With(method Method, madhab Madhab) Config {
	preset := method.Config()
	preset.Madhab = madhab
	preset.SummerTime = c.SummerTime
	return preset
}

// Angle sets the fajr and ishaa depression angles.
func (c Config) Angle(fajr, isha float64) Config {
	c.FajrAngle = fajr
	c.IshaAngle = isha
	return c
}

// WithSummerTime toggles the one hour daylight saving shift.
func (c Config) WithSummerTime(on bool) Config {
	c.SummerTime = on
	return c
}

// WithIshaInterval switches ishaa to a fixed interval after maghreb.
func (c Config) WithIshaInterval(interval IshaInterval) Config {
	c.IshaAngle = 0
	c.IshaInterval = interval
	return c
}
