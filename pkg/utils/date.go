package utils

import "time"

// DaysAgo returns the instant n days before now, in UTC.
func DaysAgo(n int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -n)
}
