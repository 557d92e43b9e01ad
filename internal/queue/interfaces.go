package queue

import (
	"context"

	"github.com/ytget/tokkit/internal/model"
)

// Worker performs one profile update. It is called from a background goroutine.
type Worker interface {
	UpdateProfile(ctx context.Context, profile string) (*model.SweepReport, error)
}

// Repository is the part of the profile store the runner writes to.
type Repository interface {
	UpsertProfile(ctx context.Context, name, lastUpdated string, status model.ProfileStatus) error
}

// Publisher announces completed jobs to interested parties.
type Publisher interface {
	Publish(ctx context.Context, result model.JobResult) error
}

// Observer receives queue state changes. Methods are called from the runner's
// control loop in order and must not block; UI implementations hop to the UI
// goroutine themselves.
type Observer interface {
	OnQueued(profile string, position int)
	OnStarted(profile string)
	OnCompleted(result model.JobResult)
}

// AdHocFunc is an out-of-queue job such as a single-item download.
type AdHocFunc func(ctx context.Context) model.JobResult

type noopObserver struct{}

func (noopObserver) OnQueued(string, int)        {}
func (noopObserver) OnStarted(string)            {}
func (noopObserver) OnCompleted(model.JobResult) {}
