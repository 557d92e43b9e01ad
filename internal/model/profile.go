package model

import (
	"fmt"
	"time"
)

// GlobalProfileName is the sentinel profile_name of the settings row.
const GlobalProfileName = "global"

// TimestampLayout is the layout of last_updated values in the store
const TimestampLayout = "2006-01-02 15:04:05"

// Relative time thresholds
const (
	SecondsPerMinute = 60
	SecondsPerHour   = 3600
	SecondsPerDay    = 86400
	dateOnlyLayout   = "2006-01-02"
)

// Profile is a content-creator account tracked in the profiles table.
type Profile struct {
	ID                 int64         `db:"id"`
	Name               string        `db:"profile_name"`
	LastUpdated        string        `db:"last_updated"`
	Status             ProfileStatus `db:"status"`
	AutoUpdateInterval int64         `db:"auto_update_interval"`
}

// GlobalSettings holds values stored on the sentinel "global" row.
type GlobalSettings struct {
	AutoUpdateInterval int64 // milliseconds, 0 = disabled
}

// JobKind distinguishes queued profile updates from ad-hoc single downloads.
type JobKind string

const (
	JobKindProfileUpdate JobKind = "profile_update"
	JobKindSingleItem    JobKind = "single_item"
)

// UpdateRequest is a pending profile update owned by the queue until dispatch.
type UpdateRequest struct {
	ID         string
	Profile    string
	OutputDir  string
	Position   int
	EnqueuedAt time.Time
}

// JobResult is produced by a background job and consumed by the runner's control loop.
type JobResult struct {
	RequestID   string
	Kind        JobKind
	Profile     string
	LastUpdated string
	Status      ProfileStatus
	Report      *SweepReport
	Err         error
}

// Succeeded reports whether the job finished without a job-level error
func (r JobResult) Succeeded() bool {
	return r.Err == nil
}

// Metadata is the subset of extractor metadata used for naming and embedding.
type Metadata struct {
	ID          string `json:"id"`
	Uploader    string `json:"uploader"`
	UploadDate  string `json:"upload_date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"webpage_url"`
}

// ProfileItem is one entry of a flat profile listing.
type ProfileItem struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// SweepReport summarizes one profile sweep.
type SweepReport struct {
	Profile           string
	Listed            int
	AlreadyDownloaded int
	Downloaded        []string // item ids appended to the ledger
	Failed            []string // item URLs written to the failed-items file
}

// HasFailures returns true if any item failed during the sweep
func (sr *SweepReport) HasFailures() bool {
	return sr != nil && len(sr.Failed) > 0
}

// FormatTimestamp renders t in the store layout
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a store timestamp in the local time zone
func ParseTimestamp(value string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, value, time.Local)
}

// RelativeTime renders a stored timestamp relative to now ("5 minutes ago").
// Values that cannot be parsed are returned unchanged; anything older than a
// day is shown as a plain date.
func RelativeTime(timestamp string, now time.Time) string {
	lastUpdated, err := ParseTimestamp(timestamp)
	if err != nil {
		return timestamp
	}

	secs := int64(now.Sub(lastUpdated) / time.Second)
	switch {
	case secs < SecondsPerMinute:
		if secs <= 0 {
			return "Just now"
		}
		return pluralAgo(secs, "second")
	case secs < SecondsPerHour:
		return pluralAgo(secs/SecondsPerMinute, "minute")
	case secs < SecondsPerDay:
		return pluralAgo(secs/SecondsPerHour, "hour")
	default:
		return lastUpdated.Format(dateOnlyLayout)
	}
}

func pluralAgo(n int64, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
