package hijri

import "fmt"

// MonthError reports a month outside 1..12.
type MonthError struct {
	Month int
}

func (e *MonthError) Error() string {
	return fmt.Sprintf("no such month: %d", e.Month)
}

// DayError reports a day outside 1..30.
type DayError struct {
	Day int
}

func (e *DayError) Error() string {
	return fmt.Sprintf("no such day: %d", e.Day)
}
