// Package time contains time related helpers
package time

import "time"

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// UTCMillis normalizes t to UTC with millisecond precision, the single wire
// format all bridge timestamps use
func UTCMillis(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
