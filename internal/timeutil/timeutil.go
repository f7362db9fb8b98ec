// Package timeutil implements the time arithmetic used by the reservation
// engine: KST day boundaries, the 10-minute booking granularity, and date
// string validation.
package timeutil

import (
	"fmt"
	"regexp"
	"time"
)

// Granularity is the minimum bookable time unit.
const Granularity = 10 * time.Minute

// KST is the fixed UTC+9 offset the service operates in. Day boundaries are
// always derived from this offset, never from the caller's local timezone, so
// date-filtered queries behave the same regardless of where the server runs.
var KST = time.FixedZone("KST", 9*60*60)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DayBounds returns the inclusive UTC instant range covering the KST calendar
// day of d: the previous day 15:00:00 UTC through the same day 14:59:59.999
// UTC.
func DayBounds(d time.Time) (startOfDay, endOfDay time.Time) {
	y, m, day := d.UTC().Date()
	startOfDay = time.Date(y, m, day-1, 15, 0, 0, 0, time.UTC)
	endOfDay = time.Date(y, m, day, 14, 59, 59, 999_000_000, time.UTC)
	return startOfDay, endOfDay
}

// TodayKST returns the KST calendar date containing now, at midnight UTC.
// Feeding the result to DayBounds yields today's bounds even when the UTC and
// KST calendar dates disagree (15:00-24:00 UTC).
func TodayKST(now time.Time) time.Time {
	y, m, d := now.In(KST).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsGranularityValid reports whether t sits exactly on the 10-minute grid.
func IsGranularityValid(t time.Time) bool {
	return t.Minute()%10 == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// ParseDate parses a YYYY-MM-DD string naming a real calendar date, returning
// it at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("not a YYYY-MM-DD date: %q", s)
	}
	return time.Parse("2006-01-02", s)
}

// IsValidDateString reports whether s is a YYYY-MM-DD string naming a real
// calendar date.
func IsValidDateString(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// NextSlot returns the earliest instant on the 10-minute grid at or after now.
func NextSlot(now time.Time) time.Time {
	t := now.Truncate(Granularity)
	if t.Equal(now) {
		return t
	}
	return t.Add(Granularity)
}
