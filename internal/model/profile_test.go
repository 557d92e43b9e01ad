package model

import (
	"errors"
	"testing"
	"time"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		timestamp string
		expected  string
	}{
		{"same second", "2025-03-10 12:00:00", "Just now"},
		{"one second", "2025-03-10 11:59:59", "1 second ago"},
		{"seconds", "2025-03-10 11:59:15", "45 seconds ago"},
		{"one minute", "2025-03-10 11:59:00", "1 minute ago"},
		{"minutes", "2025-03-10 11:30:00", "30 minutes ago"},
		{"one hour", "2025-03-10 11:00:00", "1 hour ago"},
		{"hours", "2025-03-10 01:00:00", "11 hours ago"},
		{"older than a day", "2025-03-08 09:15:00", "2025-03-08"},
		{"future timestamp", "2025-03-10 12:00:30", "Just now"},
		{"unparseable", "yesterday-ish", "yesterday-ish"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeTime(tt.timestamp, now); got != tt.expected {
				t.Errorf("RelativeTime(%q) = %q, expected %q", tt.timestamp, got, tt.expected)
			}
		})
	}
}

func TestFormatParseTimestamp(t *testing.T) {
	ts := time.Date(2024, 12, 31, 23, 59, 58, 0, time.Local)
	formatted := FormatTimestamp(ts)
	if formatted != "2024-12-31 23:59:58" {
		t.Fatalf("FormatTimestamp() = %s", formatted)
	}

	parsed, err := ParseTimestamp(formatted)
	if err != nil {
		t.Fatalf("ParseTimestamp() error: %v", err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("ParseTimestamp() = %v, expected %v", parsed, ts)
	}
}

func TestIntervalOptions(t *testing.T) {
	options := IntervalOptions()
	if len(options) != 8 {
		t.Fatalf("Expected 8 interval options, got %d", len(options))
	}
	if options[0].Millis != IntervalOff || options[0].Label != "Off" {
		t.Errorf("First option should be Off, got %+v", options[0])
	}

	// Returned slice is a copy
	options[0].Label = "changed"
	if IntervalLabel(IntervalOff) != "Off" {
		t.Error("IntervalOptions should return a copy")
	}
}

func TestIsValidInterval(t *testing.T) {
	tests := []struct {
		ms       int64
		expected bool
	}{
		{0, true},
		{30000, true},
		{1800000, true},
		{86400000, true},
		{1000, false},
		{-1, false},
	}

	for _, test := range tests {
		if got := IsValidInterval(test.ms); got != test.expected {
			t.Errorf("IsValidInterval(%d) = %v, expected %v", test.ms, got, test.expected)
		}
	}
}

func TestIntervalLabel(t *testing.T) {
	if got := IntervalLabel(Interval2Hours); got != "Every 2 hours" {
		t.Errorf("IntervalLabel(2h) = %q", got)
	}
	if got := IntervalLabel(12345); got != "" {
		t.Errorf("IntervalLabel(unknown) = %q, expected empty", got)
	}
}

func TestJobResult_Succeeded(t *testing.T) {
	ok := JobResult{Profile: "alice", Status: StatusUpdated}
	if !ok.Succeeded() {
		t.Error("Expected result without error to succeed")
	}

	failed := JobResult{Profile: "alice", Err: errors.New("boom")}
	if failed.Succeeded() {
		t.Error("Expected result with error to fail")
	}
}

func TestSweepReport_HasFailures(t *testing.T) {
	var nilReport *SweepReport
	if nilReport.HasFailures() {
		t.Error("nil report should have no failures")
	}

	report := &SweepReport{Failed: []string{"https://www.tiktok.com/@a/video/1"}}
	if !report.HasFailures() {
		t.Error("Expected report to have failures")
	}
}
