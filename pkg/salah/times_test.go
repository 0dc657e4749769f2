package salah

import (
	"errors"
	"testing"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jakarta is the reference city the expected values were checked against
// (jadwalsholat.org).
var jakarta = Location{Latitude: -6.18233995, Longitude: 106.84287154, Timezone: 7}

func jakartaDate(day int) time.Time {
	return time.Date(2021, 4, day, 0, 0, 0, 0, jakarta.Zone())
}

func clock(day, hour, minute, second int) time.Time {
	return time.Date(2021, 4, day, hour, minute, second, 0, jakarta.Zone())
}

func calculateJakarta(t *testing.T, cfg Config, day int) *Times {
	t.Helper()
	times, err := NewSchedule(jakarta).On(jakartaDate(day)).WithConfig(cfg).Calculate()
	require.NoError(t, err)
	return times
}

// assertClose allows for the float64 arithmetic landing a few seconds away
// from the published minute.
func assertClose(t *testing.T, want, got time.Time, name string) {
	t.Helper()
	assert.WithinDuration(t, want, got, time.Minute, "%s: want %s, got %s", name, want.Format(time.TimeOnly), got.Format(time.TimeOnly))
}

func TestTimes_JakartaSingapore(t *testing.T) {
	times := calculateJakarta(t, NewConfig().With(Singapore, Shafi), 9)

	assertClose(t, clock(9, 11, 54, 14), times.Dohr, "dohr")
	assertClose(t, clock(9, 15, 12, 14), times.Asr, "asr")
	assertClose(t, clock(9, 17, 54, 14), times.Maghreb, "maghreb")
	assertClose(t, clock(9, 19, 3, 49), times.Ishaa, "ishaa")
	assertClose(t, clock(9, 4, 36, 34), times.Fajr, "fajr")
	assertClose(t, clock(9, 5, 54, 14), times.Sherook, "sherook")
	assertClose(t, clock(9, 21, 28, 21), times.FirstThirdOfNight, "first third")
	assertClose(t, clock(9, 23, 15, 24), times.Midnight, "midnight")
	// Past midnight: lands on the next calendar day.
	assertClose(t, clock(10, 1, 2, 28), times.LastThirdOfNight, "last third")
}

func TestTimes_JakartaUmmAlQura(t *testing.T) {
	times := calculateJakarta(t, NewConfig().With(UmmAlQura, Shafi), 9)

	assertClose(t, clock(9, 19, 24, 14), times.Ishaa, "ishaa")
	assertClose(t, clock(9, 4, 42, 39), times.Fajr, "fajr")
	assertClose(t, clock(9, 21, 30, 22), times.FirstThirdOfNight, "first third")
	assertClose(t, clock(9, 23, 18, 26), times.Midnight, "midnight")
	assertClose(t, clock(10, 1, 6, 30), times.LastThirdOfNight, "last third")

	assert.InDelta(t, (90 * time.Minute).Seconds(), times.Ishaa.Sub(times.Maghreb).Seconds(), 1)
}

func TestTimes_JakartaFixedInterval(t *testing.T) {
	times := calculateJakarta(t, NewConfig().With(FixedInterval, Shafi), 9)

	assertClose(t, clock(9, 19, 24, 14), times.Ishaa, "ishaa")
	assertClose(t, clock(9, 4, 38, 36), times.Fajr, "fajr")
	assertClose(t, clock(9, 21, 29, 1), times.FirstThirdOfNight, "first third")
	assertClose(t, clock(9, 23, 16, 25), times.Midnight, "midnight")
	assertClose(t, clock(10, 1, 3, 49), times.LastThirdOfNight, "last third")
}

func TestTimes_RamadanInterval(t *testing.T) {
	// 2021-04-20 falls in Ramadan 1442 of the tabular calendar.
	times := calculateJakarta(t, NewConfig().With(UmmAlQura, Shafi), 20)
	assert.InDelta(t, (120 * time.Minute).Seconds(), times.Ishaa.Sub(times.Maghreb).Seconds(), 1)
}

func TestTimes_Order(t *testing.T) {
	for _, m := range Methods() {
		for _, madhab := range []Madhab{Shafi, Hanafi} {
			times := calculateJakarta(t, NewConfig().With(m, madhab), 9)
			seq := []time.Time{
				times.Fajr, times.Sherook, times.Dohr, times.Asr, times.Maghreb,
				times.Ishaa, times.FirstThirdOfNight, times.Midnight,
				times.LastThirdOfNight, times.FajrTomorrow,
			}
			for i := 1; i < len(seq); i++ {
				assert.True(t, seq[i-1].Before(seq[i]), "%s/%s: boundary %d not before %d", m, madhab, i-1, i)
			}
		}
	}
}

func TestTimes_HanafiAsrIsLater(t *testing.T) {
	shafi := calculateJakarta(t, NewConfig().With(Singapore, Shafi), 9)
	hanafi := calculateJakarta(t, NewConfig().With(Singapore, Hanafi), 9)

	assert.True(t, hanafi.Asr.After(shafi.Asr))
	assert.True(t, shafi.Dohr.Equal(hanafi.Dohr))
}

func TestTimes_SummerTime(t *testing.T) {
	base := NewConfig().With(Singapore, Shafi)
	normal := calculateJakarta(t, base, 9)
	summer := calculateJakarta(t, base.WithSummerTime(true), 9)

	assert.Equal(t, time.Hour, summer.Dohr.Sub(normal.Dohr))
	assert.Equal(t, time.Hour, summer.Fajr.Sub(normal.Fajr))
}

func TestTimes_AgreesWithSunrise(t *testing.T) {
	times := calculateJakarta(t, NewConfig(), 9)
	rise, set := sunrise.SunriseSunset(jakarta.Latitude, jakarta.Longitude, 2021, time.April, 9)

	assert.WithinDuration(t, rise, times.Sherook, 3*time.Minute)
	assert.WithinDuration(t, set, times.Maghreb, 3*time.Minute)
}

func TestTimes_FajrTomorrow(t *testing.T) {
	times := calculateJakarta(t, NewConfig().With(Singapore, Shafi), 9)
	next := calculateJakarta(t, NewConfig().With(Singapore, Shafi), 10)

	assert.True(t, next.Fajr.Equal(times.FajrTomorrow))
}

func TestTimes_Name(t *testing.T) {
	// 2021-04-09 is a Friday.
	friday := calculateJakarta(t, NewConfig(), 9)
	assert.Equal(t, "Jumua", friday.Name(Dohr))
	assert.Equal(t, "Asr", friday.Name(Asr))

	monday := calculateJakarta(t, NewConfig(), 19)
	assert.Equal(t, "Dohr", monday.Name(Dohr))
}

func TestTimes_CurrentAt(t *testing.T) {
	cfg := NewConfig().With(Singapore, Shafi)
	// Reference times on 2021-04-19: fajr 04:34:54, dohr 11:51:45,
	// asr 15:11:51, maghreb 17:50:12, ishaa 19:00:27.
	times := calculateJakarta(t, cfg, 19)

	tests := []struct {
		name string
		at   time.Time
		want Prayer
	}{
		{name: "fajr", at: clock(19, 4, 37, 0), want: Fajr},
		{name: "sherook", at: clock(19, 8, 0, 0), want: Sherook},
		{name: "dohr", at: clock(19, 11, 53, 0), want: Dohr},
		{name: "asr", at: clock(19, 15, 14, 0), want: Asr},
		{name: "maghreb", at: clock(19, 17, 52, 0), want: Maghreb},
		{name: "ishaa", at: clock(19, 19, 2, 0), want: Ishaa},
		{name: "ishaa after midnight", at: clock(20, 2, 0, 0), want: Ishaa},
		{name: "before fajr is ishaa", at: clock(19, 4, 30, 0), want: Ishaa},
		{name: "exactly at dohr", at: times.Dohr, want: Dohr},
		{name: "past fajr tomorrow", at: clock(20, 6, 0, 0), want: FajrTomorrow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, times.CurrentAt(tt.at))
		})
	}
}

func TestTimes_NextAt(t *testing.T) {
	times := calculateJakarta(t, NewConfig().With(Singapore, Shafi), 19)

	assert.Equal(t, Asr, times.NextAt(clock(19, 12, 0, 0)))
	assert.Equal(t, FajrTomorrow, times.NextAt(clock(19, 21, 0, 0)))
	// Early morning: the next prayer is today's fajr, not tomorrow's.
	assert.Equal(t, Fajr, times.NextAt(clock(19, 3, 0, 0)))
}

func TestTimes_TimeRemaining(t *testing.T) {
	at := clock(19, 11, 0, 0)
	times, err := NewSchedule(jakarta).
		On(jakartaDate(19)).
		At(at).
		WithConfig(NewConfig().With(Singapore, Shafi)).
		Calculate()
	require.NoError(t, err)

	assert.Equal(t, Sherook, times.Current())
	assert.Equal(t, Dohr, times.Next())
	assert.Equal(t, times.Dohr.Sub(at), times.TimeRemaining())
	assert.InDelta(t, 52, times.TimeRemaining().Minutes(), 2)

	assert.Equal(t, time.Duration(0), times.TimeRemainingAt(clock(21, 0, 0, 0)))
}

func TestSchedule_AtWithoutOn(t *testing.T) {
	at := time.Date(2021, 4, 19, 3, 0, 0, 0, time.UTC) // 10:00 in Jakarta
	times, err := NewSchedule(jakarta).At(at).Calculate()
	require.NoError(t, err)

	assert.True(t, jakartaDate(19).Equal(times.Date))
	assert.Equal(t, Sherook, times.Current())
}

func TestSchedule_InvalidLocation(t *testing.T) {
	_, err := NewSchedule(Location{Latitude: 91}).Calculate()
	assert.True(t, errors.Is(err, ErrInvalidLocation))
}

func TestSchedule_InvalidMadhab(t *testing.T) {
	cfg := NewConfig()
	cfg.Madhab = 0
	_, err := NewSchedule(jakarta).WithConfig(cfg).Calculate()
	assert.Error(t, err)
}

func TestSchedule_PolarDay(t *testing.T) {
	tromso := Location{Latitude: 69.6492, Longitude: 18.9553, Timezone: 1}
	_, err := NewSchedule(tromso).
		On(time.Date(2021, 6, 21, 0, 0, 0, 0, time.UTC)).
		Calculate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachableAngle)
}

func TestTimetable(t *testing.T) {
	days, err := Timetable(jakarta, NewConfig().With(Singapore, Shafi), 2021, time.February)
	require.NoError(t, err)
	require.Len(t, days, 28)

	assert.Equal(t, 1, days[0].Date.Day())
	assert.Equal(t, 28, days[27].Date.Day())
	for i := 1; i < len(days); i++ {
		assert.True(t, days[i].Fajr.Equal(days[i-1].FajrTomorrow), "day %d", i+1)
	}
}

func TestLocation_Zone(t *testing.T) {
	assert.Equal(t, "UTC+07:00", Location{Timezone: 7}.Zone().String())
	assert.Equal(t, "UTC+05:30", Location{Timezone: 5.5}.Zone().String())
	assert.Equal(t, "UTC-03:00", Location{Timezone: -3}.Zone().String())
}

func TestNewLocation(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		tz      float64
		wantErr bool
	}{
		{name: "jakarta", lat: -6.18, lon: 106.84, tz: 7},
		{name: "latitude too high", lat: 90.5, lon: 0, tz: 0, wantErr: true},
		{name: "longitude too low", lat: 0, lon: -181, tz: 0, wantErr: true},
		{name: "timezone too high", lat: 0, lon: 0, tz: 15, wantErr: true},
		{name: "kiribati", lat: 1.87, lon: -157.4, tz: 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocation(tt.lat, tt.lon, tt.tz)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLocation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimes_Prayers(t *testing.T) {
	times := calculateJakarta(t, NewConfig(), 9)
	prayers := times.Prayers()

	require.Len(t, prayers, 6)
	assert.Equal(t, Fajr, prayers[0].Prayer)
	assert.Equal(t, "Jumua", prayers[2].Name)
	assert.True(t, prayers[5].Time.Equal(times.Ishaa))
}
