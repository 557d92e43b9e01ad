// Package events publishes job completion notices for other processes, such
// as a media server that rescans a profile folder after an update.
package events

import (
	"context"
	"time"

	"github.com/ytget/tokkit/internal/model"
)

// CompletionMessage is the JSON body of a completion event
type CompletionMessage struct {
	RequestID   string    `json:"request_id"`
	Kind        string    `json:"kind"`
	Profile     string    `json:"profile"`
	LastUpdated string    `json:"last_updated"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	Downloaded  int       `json:"downloaded"`
	Failed      []string  `json:"failed,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewCompletionMessage converts a job result into its wire form
func NewCompletionMessage(res model.JobResult, now time.Time) CompletionMessage {
	msg := CompletionMessage{
		RequestID:   res.RequestID,
		Kind:        string(res.Kind),
		Profile:     res.Profile,
		LastUpdated: res.LastUpdated,
		Status:      res.Status.String(),
		Timestamp:   now.UTC(),
	}
	if res.Err != nil {
		msg.Error = res.Err.Error()
	}
	if res.Report != nil {
		msg.Downloaded = len(res.Report.Downloaded)
		msg.Failed = append([]string(nil), res.Report.Failed...)
	}
	return msg
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, model.JobResult) error { return nil }

func (Noop) Close() error { return nil }
