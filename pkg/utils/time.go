package utils

import (
	"math"
	"time"
)

const (
	// SecondsPerDay is the length of one simulation step
	SecondsPerDay = 24 * 60 * 60
	// SecondsPerYear counts a year as 365 days
	SecondsPerYear = 365 * SecondsPerDay
)

// EpochLayout is the timestamp layout used when reporting launch and landing times
const EpochLayout = "2006-01-02 15:04:05"

// EpochTime converts fractional epoch seconds into a UTC time
func EpochTime(seconds float64) time.Time {
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*float64(time.Second))).UTC()
}

// FormatEpoch formats fractional epoch seconds using EpochLayout
func FormatEpoch(seconds float64) string {
	return EpochTime(seconds).Format(EpochLayout)
}

// DaysToSeconds converts a period in days into seconds
func DaysToSeconds(days float64) float64 {
	return days * SecondsPerDay
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	if d < time.Minute {
		return d.Round(10 * time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
