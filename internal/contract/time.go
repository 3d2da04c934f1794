package contract

import "time"

// File name stamp layouts.
const (
	DateStampFormat = "20060102"       // dataset cache prefix
	TimestampFormat = "20060102150405" // report prefix
)

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

// Now implements Clock.
func (c FixedClock) Now() time.Time { return c.T }

// DateStamp formats t as the dataset cache prefix, e.g. 20240131.
func DateStamp(t time.Time) string {
	return t.Format(DateStampFormat)
}

// Timestamp formats t as the report prefix, e.g. 20240131235959.
func Timestamp(t time.Time) string {
	return t.Format(TimestampFormat)
}

// YearWindow returns the inclusive [from, to] year range covering the trailing
// number of years up to and including the current year.
func YearWindow(now time.Time, years int) (from, to int) {
	to = now.Year()
	return to - years, to
}
