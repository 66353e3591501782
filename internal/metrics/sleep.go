package metrics

import "time"

// Sleep quality buckets derived from duration thresholds.
const (
	SleepQualityPoor      = "Poor"
	SleepQualityAverage   = "Average"
	SleepQualityExcellent = "Excellent"
	SleepQualityTooMuch   = "Sleeping Too Much"
)

// SleepInterval is a recorded sleep window. End values at or before Start are
// treated as overnight sleep ending the next calendar day.
type SleepInterval struct {
	Start time.Time
	End   time.Time
}

// SleepResult is the derived duration and quality bucket.
type SleepResult struct {
	Start         time.Time
	End           time.Time
	DurationHours float64
	Quality       string
}

// ClassifySleep computes the sleep duration and maps it onto a quality
// bucket: under 6h Poor, 6-8h inclusive Excellent, over 8h Sleeping Too Much.
func ClassifySleep(interval SleepInterval) SleepResult {
	start, end := interval.Start, interval.End
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	hours := end.Sub(start).Hours()

	// The thresholds cover the whole real line; Average remains only as the
	// fallback for non-finite durations.
	quality := SleepQualityAverage
	switch {
	case hours < 6:
		quality = SleepQualityPoor
	case hours <= 8:
		quality = SleepQualityExcellent
	case hours > 8:
		quality = SleepQualityTooMuch
	}

	return SleepResult{
		Start:         start,
		End:           end,
		DurationHours: hours,
		Quality:       quality,
	}
}
