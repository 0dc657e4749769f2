package salah

import (
	"fmt"
	"strings"
)

// Madhab selects the asr convention. Its value is the shadow length factor:
// asr begins when an object's shadow equals its noon shadow plus this many
// times its height.
type Madhab int

// Asr conventions.
const (
	Shafi  Madhab = 1
	Hanafi Madhab = 2
)

// String returns the lower-case name of m.
func (m Madhab) String() string {
	switch m {
	case Shafi:
		return "shafi"
	case Hanafi:
		return "hanafi"
	default:
		return fmt.Sprintf("Madhab(%d)", int(m))
	}
}

// ShadowFactor returns the shadow multiplier for asr.
func (m Madhab) ShadowFactor() float64 {
	return float64(m)
}

// ParseMadhab accepts "shafi", "hanafi" and the common spellings of each.
// Maliki and Hanbali share the Shafi asr.
func ParseMadhab(s string) (Madhab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shafi", "shafii", "shafi'i", "standard", "maliki", "hanbali", "1":
		return Shafi, nil
	case "hanafi", "2":
		return Hanafi, nil
	}
	return 0, fmt.Errorf("unknown madhab %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Madhab) MarshalText() ([]byte, error) {
	if m != Shafi && m != Hanafi {
		return nil, fmt.Errorf("unknown madhab %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Madhab) UnmarshalText(text []byte) error {
	parsed, err := ParseMadhab(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
