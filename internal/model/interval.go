package model

// IntervalOption is one entry of the auto-update menu.
type IntervalOption struct {
	Millis int64
	Label  string
}

// Auto-update periods in milliseconds
const (
	IntervalOff       int64 = 0
	Interval30Seconds int64 = 30_000
	Interval30Minutes int64 = 1_800_000
	Interval1Hour     int64 = 3_600_000
	Interval2Hours    int64 = 7_200_000
	Interval6Hours    int64 = 21_600_000
	Interval12Hours   int64 = 43_200_000
	Interval24Hours   int64 = 86_400_000
)

var intervalOptions = []IntervalOption{
	{IntervalOff, "Off"},
	{Interval30Seconds, "Every 30 seconds"},
	{Interval30Minutes, "Every 30 minutes"},
	{Interval1Hour, "Every 1 hour"},
	{Interval2Hours, "Every 2 hours"},
	{Interval6Hours, "Every 6 hours"},
	{Interval12Hours, "Every 12 hours"},
	{Interval24Hours, "Every 24 hours"},
}

// IntervalOptions returns the enumerated auto-update options in menu order
func IntervalOptions() []IntervalOption {
	out := make([]IntervalOption, len(intervalOptions))
	copy(out, intervalOptions)
	return out
}

// IsValidInterval reports whether ms is one of the enumerated options
func IsValidInterval(ms int64) bool {
	for _, opt := range intervalOptions {
		if opt.Millis == ms {
			return true
		}
	}
	return false
}

// IntervalLabel returns the menu label for ms, or "" when ms is not an option
func IntervalLabel(ms int64) string {
	for _, opt := range intervalOptions {
		if opt.Millis == ms {
			return opt.Label
		}
	}
	return ""
}
