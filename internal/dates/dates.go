// Package dates produces the canonical YYYY-MM-DD day keys used to place
// tasks on the calendar. Every piece of code that needs to answer "which
// day does this task belong to" goes through this package.
package dates

import (
	"fmt"
	"time"
)

// keyLayout is the day key format shared with the task service.
const keyLayout = "2006-01-02"

// Key builds a day key from a year, a 0-based month index, and a day of
// month. The month index follows the calendar-grid convention of the UI
// layers (0 = January).
func Key(year, monthIndex, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, monthIndex+1, day)
}

// KeyFromTime returns the day key for the civil date of t.
func KeyFromTime(t time.Time) string {
	return t.Format(keyLayout)
}

// KeyFromISO truncates an ISO-8601 timestamp or bare date to its date
// portion. The time and zone components are dropped, never applied: the
// calendar date named in the input is the date of the key, regardless of
// which timezone produced the value.
func KeyFromISO(value string) (string, bool) {
	if len(value) < len(keyLayout) {
		return "", false
	}
	datePart := value[:len(keyLayout)]
	if _, err := time.Parse(keyLayout, datePart); err != nil {
		return "", false
	}
	if len(value) > len(keyLayout) {
		if sep := value[len(keyLayout)]; sep != 'T' && sep != ' ' {
			return "", false
		}
	}
	return datePart, true
}

// Parse converts a day key back into a UTC midnight time, for callers
// that need arithmetic rather than ordering. Day keys compare
// chronologically as plain strings, so sorting never needs Parse.
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(keyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing day key %q: %w", key, err)
	}
	return t, nil
}

// Valid reports whether key is a well-formed day key.
func Valid(key string) bool {
	_, err := time.Parse(keyLayout, key)
	return err == nil && len(key) == len(keyLayout)
}
