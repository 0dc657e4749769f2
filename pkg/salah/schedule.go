package salah

import (
	"fmt"
	"time"
)

// Schedule builds a calculation for one location. The zero date means
// "today in the location's zone".
//
//	times, err := salah.NewSchedule(loc).
//		On(date).
//		WithConfig(salah.NewConfig().With(salah.Singapore, salah.Shafi)).
//		Calculate()
type Schedule struct {
	location Location
	date     time.Time
	at       time.Time
	config   Config
}

// NewSchedule returns a schedule for loc with the default configuration.
func NewSchedule(loc Location) Schedule {
	return Schedule{
		location: loc,
		config:   NewConfig(),
	}
}

// On sets the calendar day. Only the year, month and day of date are used.
func (s Schedule) On(date time.Time) Schedule {
	s.date = date
	return s
}

// At fixes the clock used by Current, Next and TimeRemaining. Without On,
// the calendar day is the day of t in the location's zone.
func (s Schedule) At(t time.Time) Schedule {
	s.at = t
	return s
}

// WithConfig replaces the calculation parameters.
func (s Schedule) WithConfig(cfg Config) Schedule {
	s.config = cfg
	return s
}

// Calculate computes the prayer times.
func (s Schedule) Calculate() (*Times, error) {
	if err := s.location.Validate(); err != nil {
		return nil, err
	}
	if s.config.Madhab != Shafi && s.config.Madhab != Hanafi {
		return nil, fmt.Errorf("invalid configuration: unknown madhab %d", int(s.config.Madhab))
	}

	date := s.date
	if date.IsZero() {
		ref := s.at
		if ref.IsZero() {
			ref = time.Now()
		}
		date = ref.In(s.location.Zone())
	}

	times, err := calculate(s.location, s.config, date)
	if err != nil {
		return nil, err
	}
	if !s.at.IsZero() {
		at := s.at
		times.now = func() time.Time { return at }
	}
	return times, nil
}

// Timetable returns the times of every day of a month.
func Timetable(loc Location, cfg Config, year int, month time.Month) ([]*Times, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	out := make([]*Times, 0, days)
	for day := 1; day <= days; day++ {
		times, err := NewSchedule(loc).
			On(time.Date(year, month, day, 0, 0, 0, 0, time.UTC)).
			WithConfig(cfg).
			Calculate()
		if err != nil {
			return nil, fmt.Errorf("timetable %04d-%02d: %w", year, int(month), err)
		}
		out = append(out, times)
	}
	return out, nil
}
