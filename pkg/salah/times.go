package salah

import (
	"fmt"
	"math"
	"time"

	"github.com/leapstack-labs/miqat/internal/astro"
	"github.com/leapstack-labs/miqat/pkg/hijri"
)

// sunsetAngle is the zenith distance of the sun's upper limb at sunrise and
// sunset, including atmospheric refraction.
const sunsetAngle = 90.83333

// Times holds the prayer times of one day at one location.
//
// Every time is expressed in the location's fixed zone. Times past midnight
// (the night thirds at most latitudes) fall on the following calendar day.
type Times struct {
	Date     time.Time `json:"date"`
	Location Location  `json:"location"`
	Config   Config    `json:"-"`

	Fajr         time.Time `json:"fajr"`
	Sherook      time.Time `json:"sherook"`
	Dohr         time.Time `json:"dohr"`
	Asr          time.Time `json:"asr"`
	Maghreb      time.Time `json:"maghreb"`
	Ishaa        time.Time `json:"ishaa"`
	FajrTomorrow time.Time `json:"fajr_tomorrow"`

	FirstThirdOfNight time.Time `json:"first_third_of_night"`
	Midnight          time.Time `json:"midnight"`
	// LastThirdOfNight is the recommended start of qiyam.
	LastThirdOfNight time.Time `json:"last_third_of_night"`

	now func() time.Time
}

// PrayerTime pairs a prayer with its display name and time.
type PrayerTime struct {
	Prayer Prayer    `json:"-"`
	Name   string    `json:"name"`
	Time   time.Time `json:"time"`
}

// Time returns the time of p.
func (t *Times) Time(p Prayer) time.Time {
	switch p {
	case Fajr:
		return t.Fajr
	case Sherook:
		return t.Sherook
	case Dohr:
		return t.Dohr
	case Asr:
		return t.Asr
	case Maghreb:
		return t.Maghreb
	case Ishaa:
		return t.Ishaa
	case FajrTomorrow:
		return t.FajrTomorrow
	}
	return time.Time{}
}

// Prayers returns the six daily prayers and their times, in order.
func (t *Times) Prayers() []PrayerTime {
	out := make([]PrayerTime, 0, 6)
	for _, p := range Daily() {
		out = append(out, PrayerTime{Prayer: p, Name: t.Name(p), Time: t.Time(p)})
	}
	return out
}

// Name returns the display name of p on this day: dohr is "Jumua" on Fridays.
func (t *Times) Name(p Prayer) string {
	if p == Dohr && t.Date.Weekday() == time.Friday {
		return "Jumua"
	}
	return p.String()
}

// Current returns the prayer whose period contains the schedule's clock.
func (t *Times) Current() Prayer {
	return t.CurrentAt(t.clock())
}

// CurrentAt returns the prayer whose period contains at.
//
// Periods run from one boundary to the next; ishaa lasts until fajr of the
// following day, and anything before today's fajr also belongs to ishaa.
// Instants at or after FajrTomorrow return FajrTomorrow.
func (t *Times) CurrentAt(at time.Time) Prayer {
	ranges := []struct {
		prayer     Prayer
		start, end time.Time
	}{
		{Fajr, t.Fajr, t.Sherook},
		{Sherook, t.Sherook, t.Dohr},
		{Dohr, t.Dohr, t.Asr},
		{Asr, t.Asr, t.Maghreb},
		{Maghreb, t.Maghreb, t.Ishaa},
		{Ishaa, t.Ishaa, t.FajrTomorrow},
	}
	for _, r := range ranges {
		if !at.Before(r.start) && at.Before(r.end) {
			return r.prayer
		}
	}
	if at.Before(t.Fajr) {
		return Ishaa
	}
	return FajrTomorrow
}

// Next returns the upcoming prayer at the schedule's clock.
func (t *Times) Next() Prayer {
	return t.NextAt(t.clock())
}

// NextAt returns the upcoming prayer at the given instant.
func (t *Times) NextAt(at time.Time) Prayer {
	switch t.CurrentAt(at) {
	case Fajr:
		return Sherook
	case Sherook:
		return Dohr
	case Dohr:
		return Asr
	case Asr:
		return Maghreb
	case Maghreb:
		return Ishaa
	case Ishaa:
		if at.Before(t.Fajr) {
			return Fajr
		}
		return FajrTomorrow
	}
	return FajrTomorrow
}

// TimeRemaining returns the time left until the next prayer.
func (t *Times) TimeRemaining() time.Duration {
	return t.TimeRemainingAt(t.clock())
}

// TimeRemainingAt returns the time between at and the next prayer, never
// negative.
func (t *Times) TimeRemainingAt(at time.Time) time.Duration {
	d := t.Time(t.NextAt(at)).Sub(at)
	if d < 0 {
		return 0
	}
	return d
}

func (t *Times) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

// solarDay carries the per-day solar quantities every prayer derives from.
type solarDay struct {
	latitude    float64
	declination float64
	// dohr is the local clock time of solar noon, in hours.
	dohr float64
}

func newSolarDay(loc Location, date time.Time) solarDay {
	jd := astro.GregorianToJulian(date.Year(), int(date.Month()), date.Day())
	middleLongitude := loc.Timezone * 15
	return solarDay{
		latitude:    loc.Latitude,
		declination: astro.SunDeclination(jd),
		dohr:        12 + (middleLongitude-loc.Longitude)/15 + astro.EquationOfTime(jd)/60,
	}
}

// hoursFromNoon returns how long, in hours, the sun takes to travel from
// the meridian to the given zenith distance.
func (s solarDay) hoursFromNoon(angle float64) (float64, error) {
	cosH := (astro.Cos(angle) - astro.Sin(s.latitude)*astro.Sin(s.declination)) /
		(astro.Cos(s.latitude) * astro.Cos(s.declination))
	if math.IsNaN(cosH) || cosH < -1 || cosH > 1 {
		return 0, ErrUnreachableAngle
	}
	return astro.Degrees(math.Acos(cosH)) / 15, nil
}

// asrAngle returns the zenith distance of the sun at asr for the madhab's
// shadow factor.
func (s solarDay) asrAngle(m Madhab) float64 {
	noonElevation := math.Asin(astro.Sin(s.latitude)*astro.Sin(s.declination) +
		astro.Cos(s.latitude)*astro.Cos(s.declination))
	x := m.ShadowFactor() + 1/math.Tan(noonElevation)
	return 90 - astro.Degrees(math.Atan(x)+2*math.Atan(1))
}

func (s solarDay) fajr(c Config) (float64, error) {
	h, err := s.hoursFromNoon(c.FajrAngle + 90)
	return s.dohr - h, err
}

func (s solarDay) sherook() (float64, error) {
	h, err := s.hoursFromNoon(sunsetAngle)
	return s.dohr - h, err
}

func (s solarDay) asr(c Config) (float64, error) {
	h, err := s.hoursFromNoon(s.asrAngle(c.Madhab))
	return s.dohr + h, err
}

func (s solarDay) maghreb() (float64, error) {
	h, err := s.hoursFromNoon(sunsetAngle)
	return s.dohr + h, err
}

func (s solarDay) ishaa(c Config, ramadan bool) (float64, error) {
	if c.IshaInterval.Enabled() {
		maghreb, err := s.maghreb()
		if err != nil {
			return 0, err
		}
		interval := c.IshaInterval.AllYear
		if ramadan && c.IshaInterval.Ramadan > 0 {
			interval = c.IshaInterval.Ramadan
		}
		return maghreb + interval.Hours(), nil
	}
	h, err := s.hoursFromNoon(c.IshaAngle + 90)
	return s.dohr + h, err
}

// clockTime converts decimal hours after midnight to a time on day,
// truncating to whole seconds.
func clockTime(midnight time.Time, hours float64, summer bool) time.Time {
	h := math.Floor(hours)
	minutes := (hours - h) * 60
	seconds := (minutes - math.Floor(minutes)) * 60

	d := time.Duration(h)*time.Hour +
		time.Duration(math.Floor(minutes))*time.Minute +
		time.Duration(math.Floor(seconds))*time.Second
	if summer {
		d += time.Hour
	}
	return midnight.Add(d)
}

// calculate computes every time for the calendar day of date.
func calculate(loc Location, cfg Config, date time.Time) (*Times, error) {
	zone := loc.Zone()
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, zone)
	day := newSolarDay(loc, midnight)

	wrap := func(p Prayer, err error) error {
		return fmt.Errorf("%s on %s at %s: %w", p, midnight.Format(time.DateOnly), loc, err)
	}

	fajr, err := day.fajr(cfg)
	if err != nil {
		return nil, wrap(Fajr, err)
	}
	sherook, err := day.sherook()
	if err != nil {
		return nil, wrap(Sherook, err)
	}
	asr, err := day.asr(cfg)
	if err != nil {
		return nil, wrap(Asr, err)
	}
	maghreb, err := day.maghreb()
	if err != nil {
		return nil, wrap(Maghreb, err)
	}
	ishaa, err := day.ishaa(cfg, hijri.FromGregorian(midnight, 0).IsRamadan())
	if err != nil {
		return nil, wrap(Ishaa, err)
	}

	tomorrow := midnight.AddDate(0, 0, 1)
	fajrTomorrow, err := newSolarDay(loc, tomorrow).fajr(cfg)
	if err != nil {
		return nil, wrap(FajrTomorrow, err)
	}

	night := 24 - (maghreb - fajr)
	at := func(h float64) time.Time { return clockTime(midnight, h, cfg.SummerTime) }

	return &Times{
		Date:              midnight,
		Location:          loc,
		Config:            cfg,
		Fajr:              at(fajr),
		Sherook:           at(sherook),
		Dohr:              at(day.dohr),
		Asr:               at(asr),
		Maghreb:           at(maghreb),
		Ishaa:             at(ishaa),
		FajrTomorrow:      clockTime(tomorrow, fajrTomorrow, cfg.SummerTime),
		FirstThirdOfNight: at(maghreb + night/3),
		Midnight:          at(maghreb + night/2),
		LastThirdOfNight:  at(maghreb + 2*night/3),
	}, nil
}
