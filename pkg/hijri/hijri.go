// Package hijri converts between Gregorian and Hijri (lunar) dates.
//
// Dates follow the tabular Islamic calendar: odd months have 30 days, even
// months 29, with 11 leap years in every 30 year cycle. Local moon sighting
// can move the start of a month by a day or two; every conversion from a
// Gregorian or julian day accepts a correction in whole days for that.
package hijri

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/miqat/internal/astro"
)

// Ramadan is the month of fasting.
const Ramadan = 9

// MaxCorrection bounds the day offset accepted for local moon sighting.
const MaxCorrection = 3

var arabicMonths = [12]string{
	"محرم",
	"صفر",
	"ربيع الأول",
	"ربيع الثاني",
	"جمادى الأولى",
	"جمادى الثانية",
	"رجب",
	"شعبان",
	"رمضان",
	"شوال",
	"ذو القعدة",
	"ذو الحجة",
}

var englishMonths = [12]string{
	"Moharram",
	"Safar",
	"Rabie-I",
	"Rabie-II",
	"Jumada-I",
	"Jumada-II",
	"Rajab",
	"Shaban",
	"Ramadan",
	"Shawwal",
	"Delqada",
	"Delhijja",
}

// Date is a day in the Hijri calendar.
type Date struct {
	Year  int
	Month int
	Day   int
}

// New returns a validated Hijri date.
func New(year, month, day int) (Date, error) {
	if month < 1 || month > 12 {
		return Date{}, &MonthError{Month: month}
	}
	if day < 1 || day > 30 {
		return Date{}, &DayError{Day: day}
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// FromJulian returns the Hijri date of a julian day number.
func FromJulian(jd, correction int) Date {
	y, m, d := astro.JulianToHijri(jd, correction)
	return Date{Year: y, Month: m, Day: d}
}

// FromGregorian returns the Hijri date of the calendar day of t.
// The clock part and location of t are ignored.
func FromGregorian(t time.Time, correction int) Date {
	jd := astro.GregorianToJulian(t.Year(), int(t.Month()), t.Day())
	return FromJulian(int(jd), correction)
}

// Today returns the Hijri date of the current local day.
func Today(correction int) Date {
	return TodayAt(time.Now(), correction)
}

// TodayAt is Today with an explicit clock.
func TodayAt(now time.Time, correction int) Date {
	return FromGregorian(now, correction)
}

// Julian returns the julian day number of d.
func (d Date) Julian() int {
	return astro.HijriToJulian(d.Year, d.Month, d.Day)
}

// Gregorian returns the Gregorian day of d at midnight UTC.
func (d Date) Gregorian() time.Time {
	y, m, day := astro.JulianToGregorian(float64(d.Julian()))
	return time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
}

// Next returns the following day.
func (d Date) Next() Date {
	return FromJulian(d.Julian()+1, 0)
}

// IsRamadan reports whether d falls in the month of Ramadan.
func (d Date) IsRamadan() bool {
	return d.Month == Ramadan
}

// MonthArabic returns the Arabic month name, or "" for an invalid month.
func (d Date) MonthArabic() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return arabicMonths[d.Month-1]
}

// MonthEnglish returns the transliterated month name, or "" for an invalid month.
func (d Date) MonthEnglish() string {
	if d.Month < 1 || d.Month > 12 {
		return ""
	}
	return englishMonths[d.Month-1]
}

// String formats d as "25 Shaban 1442".
func (d Date) String() string {
	return fmt.Sprintf("%d %s %d", d.Day, d.MonthEnglish(), d.Year)
}

// ISO formats d as "1442-08-25".
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// jsonDate is the wire form of Date.
type jsonDate struct {
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	Day          int    `json:"day"`
	MonthArabic  string `json:"month_arabic"`
	MonthEnglish string `json:"month_english"`
	Formatted    string `json:"formatted"`
}

// MarshalJSON includes the month names next to the numeric fields.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonDate{
		Year:         d.Year,
		Month:        d.Month,
		Day:          d.Day,
		MonthArabic:  d.MonthArabic(),
		MonthEnglish: d.MonthEnglish(),
		Formatted:    d.String(),
	})
}

// Parse reads a date in "YYYY-MM-DD" form.
func Parse(s string) (Date, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid hijri date %q: expected YYYY-MM-DD", s)
	}
	var fields [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Date{}, fmt.Errorf("invalid hijri date %q: expected YYYY-MM-DD", s)
		}
		fields[i] = n
	}
	return New(fields[0], fields[1], fields[2])
}
