// Package queue serializes profile updates through a single worker slot.
//
// All queue state (pending requests, the in-flight marker, the stall timer) is
// owned by the goroutine running Runner.Run. Other goroutines talk to it over
// channels, and job results come back the same way, so profile rows in the
// store are only ever written from that one goroutine.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/tokkit/internal/model"
)

// Runner defaults
const (
	DefaultWriteTimeout   = 10 * time.Second
	DefaultPublishTimeout = 5 * time.Second
	resultsBuffer         = 16
)

var (
	// ErrStopped is returned when work is submitted after the runner stopped.
	ErrStopped = errors.New("update runner stopped")
	// ErrStalled is the job error recorded when an update exceeds the stall timeout.
	ErrStalled = errors.New("update stalled")
)

// Options configures a Runner
type Options struct {
	// StallTimeout bounds how long one update may run; zero waits forever
	StallTimeout   time.Duration
	WriteTimeout   time.Duration
	PublishTimeout time.Duration
	Logger         *slog.Logger
	// Now is the clock used for last_updated values
	Now func() time.Time
}

// Snapshot is a point-in-time copy of the queue state
type Snapshot struct {
	Pending  []string
	InFlight string
	AdHoc    int
}

type commandKind int

const (
	cmdEnqueue commandKind = iota
	cmdAdHoc
)

type command struct {
	kind  commandKind
	req   model.UpdateRequest
	job   model.JobKind
	fn    AdHocFunc
	reply chan int
}

type inFlight struct {
	req    model.UpdateRequest
	cancel context.CancelFunc
}

// Runner is the single-worker FIFO update queue.
type Runner struct {
	worker    Worker
	repo      Repository
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time

	stallTimeout   time.Duration
	writeTimeout   time.Duration
	publishTimeout time.Duration

	commands chan command
	results  chan model.JobResult
	done     chan struct{}
	once     sync.Once

	observerMu sync.RWMutex
	observer   Observer

	// owned by the control loop
	baseCtx    context.Context // outlives Run's ctx for final writes
	jobCtx     context.Context
	cancelJobs context.CancelFunc
	pending    []model.UpdateRequest
	inFlight   *inFlight
	stall      *time.Timer
	adHoc      int
	jobs       sync.WaitGroup

	snapMu sync.Mutex
	snap   Snapshot
}

// NewRunner creates a runner. A nil publisher disables completion events.
func NewRunner(worker Worker, repo Repository, publisher Publisher, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	writeTimeout := opts.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	publishTimeout := opts.PublishTimeout
	if publishTimeout <= 0 {
		publishTimeout = DefaultPublishTimeout
	}
	return &Runner{
		worker:         worker,
		repo:           repo,
		publisher:      publisher,
		logger:         logger.With("component", "queue"),
		now:            now,
		stallTimeout:   opts.StallTimeout,
		writeTimeout:   writeTimeout,
		publishTimeout: publishTimeout,
		commands:       make(chan command),
		results:        make(chan model.JobResult, resultsBuffer),
		done:           make(chan struct{}),
		observer:       noopObserver{},
	}
}

// SetObserver sets the receiver of queue state changes
func (r *Runner) SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	r.observerMu.Lock()
	r.observer = o
	r.observerMu.Unlock()
}

func (r *Runner) obs() Observer {
	r.observerMu.RLock()
	defer r.observerMu.RUnlock()
	return r.observer
}

// Enqueue appends a profile update to the tail of the queue and returns its
// 1-based position counting the in-flight job.
func (r *Runner) Enqueue(ctx context.Context, profile string) (int, error) {
	if profile == "" || profile == model.GlobalProfileName {
		return 0, fmt.Errorf("invalid profile name %q", profile)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return 0, fmt.Errorf("generate request id: %w", err)
	}

	cmd := command{
		kind: cmdEnqueue,
		req: model.UpdateRequest{
			ID:         id.String(),
			Profile:    profile,
			EnqueuedAt: r.now(),
		},
		reply: make(chan int, 1),
	}
	if err := r.send(ctx, cmd); err != nil {
		return 0, err
	}

	select {
	case pos := <-cmd.reply:
		return pos, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-r.done:
		return 0, ErrStopped
	}
}

// EnqueueAll enqueues profiles in order
func (r *Runner) EnqueueAll(ctx context.Context, profiles []string) error {
	for _, p := range profiles {
		if _, err := r.Enqueue(ctx, p); err != nil {
			return fmt.Errorf("enqueue %s: %w", p, err)
		}
	}
	return nil
}

// Go runs fn outside the queue. Its result is applied by the control loop
// like a queued job but never occupies the worker slot.
func (r *Runner) Go(ctx context.Context, kind model.JobKind, fn AdHocFunc) error {
	return r.send(ctx, command{kind: cmdAdHoc, job: kind, fn: fn})
}

func (r *Runner) send(ctx context.Context, cmd command) error {
	select {
	case r.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-r.done:
		return ErrStopped
	}
}

// Done is closed when Run has returned
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Snapshot returns the current queue state
func (r *Runner) Snapshot() Snapshot {
	r.snapMu.Lock()
	defer r.snapMu.Unlock()
	s := r.snap
	s.Pending = append([]string(nil), r.snap.Pending...)
	return s
}

// Run processes queue commands and job results until ctx is cancelled. On
// cancellation pending requests are dropped and running jobs are waited for
// and applied before Run returns. A non-zero stall timeout bounds that wait.
func (r *Runner) Run(ctx context.Context) error {
	alreadyStarted := true
	r.once.Do(func() { alreadyStarted = false })
	if alreadyStarted {
		return errors.New("update runner already started")
	}
	defer close(r.done)

	r.baseCtx = context.WithoutCancel(ctx)
	r.jobCtx, r.cancelJobs = context.WithCancel(r.baseCtx)
	defer r.cancelJobs()
	r.logger.Info("update runner started", "stall_timeout", r.stallTimeout)

	for {
		var stallC <-chan time.Time
		if r.stall != nil {
			stallC = r.stall.C
		}

		select {
		case <-ctx.Done():
			r.drain()
			return nil
		case cmd := <-r.commands:
			r.handle(cmd)
		case res := <-r.results:
			r.onJobComplete(res)
		case <-stallC:
			r.stall = nil
			r.onStall()
		}
	}
}

func (r *Runner) handle(cmd command) {
	switch cmd.kind {
	case cmdEnqueue:
		r.pending = append(r.pending, cmd.req)
		pos := len(r.pending)
		if r.inFlight != nil {
			pos++
		}
		r.pending[len(r.pending)-1].Position = pos
		r.logger.Info("update queued", "profile", cmd.req.Profile, "position", pos, "request_id", cmd.req.ID)
		r.publishSnapshot()

		cmd.reply <- pos
		r.obs().OnQueued(cmd.req.Profile, pos)
		r.tryDispatch()

	case cmdAdHoc:
		r.startAdHoc(cmd.job, cmd.fn)
	}
}

// tryDispatch starts the head of the queue when the worker slot is free
func (r *Runner) tryDispatch() {
	if r.inFlight != nil || len(r.pending) == 0 {
		return
	}

	req := r.pending[0]
	r.pending = r.pending[1:]

	ctx, cancel := context.WithCancel(r.jobCtx)
	r.inFlight = &inFlight{req: req, cancel: cancel}
	if r.stallTimeout > 0 {
		r.stall = time.NewTimer(r.stallTimeout)
	}
	r.publishSnapshot()

	r.logger.Info("update started", "profile", req.Profile, "request_id", req.ID)
	r.obs().OnStarted(req.Profile)

	r.jobs.Add(1)
	go func() {
		defer r.jobs.Done()
		report, err := r.worker.UpdateProfile(ctx, req.Profile)
		r.results <- r.profileResult(req, report, err)
	}()
}

func (r *Runner) profileResult(req model.UpdateRequest, report *model.SweepReport, err error) model.JobResult {
	status := model.StatusUpdated
	if err != nil {
		status = model.StatusUpdateFailed
	}
	return model.JobResult{
		RequestID:   req.ID,
		Kind:        model.JobKindProfileUpdate,
		Profile:     req.Profile,
		LastUpdated: model.FormatTimestamp(r.now()),
		Status:      status,
		Report:      report,
		Err:         err,
	}
}

func (r *Runner) startAdHoc(kind model.JobKind, fn AdHocFunc) {
	id, err := uuid.NewV7()
	if err != nil {
		r.logger.Error("failed to generate request id", "error", err)
		return
	}
	if kind == "" {
		kind = model.JobKindSingleItem
	}

	r.adHoc++
	r.publishSnapshot()

	ctx := r.jobCtx
	r.jobs.Add(1)
	go func() {
		defer r.jobs.Done()
		res := fn(ctx)
		res.RequestID = id.String()
		res.Kind = kind
		if res.LastUpdated == "" {
			res.LastUpdated = model.FormatTimestamp(r.now())
		}
		r.results <- res
	}()
}

// onJobComplete applies a finished job. It runs exactly once per dispatched request.
func (r *Runner) onJobComplete(res model.JobResult) {
	if res.Kind != model.JobKindProfileUpdate {
		r.adHoc--
		r.publishSnapshot()
		r.apply(res)
		r.obs().OnCompleted(res)
		return
	}

	if r.inFlight == nil || r.inFlight.req.ID != res.RequestID {
		r.logger.Warn("discarding late result", "profile", res.Profile, "request_id", res.RequestID, "status", res.Status)
		return
	}

	r.finishInFlight(res)
}

// onStall gives up on the in-flight job after the stall timeout
func (r *Runner) onStall() {
	if r.inFlight == nil {
		return
	}
	req := r.inFlight.req
	r.logger.Warn("update stalled", "profile", req.Profile, "request_id", req.ID, "timeout", r.stallTimeout)

	r.finishInFlight(model.JobResult{
		RequestID:   req.ID,
		Kind:        model.JobKindProfileUpdate,
		Profile:     req.Profile,
		LastUpdated: model.FormatTimestamp(r.now()),
		Status:      model.StatusStalled,
		Err:         ErrStalled,
	})
}

func (r *Runner) finishInFlight(res model.JobResult) {
	if r.stall != nil {
		r.stall.Stop()
		r.stall = nil
	}

	r.apply(res)

	r.inFlight.cancel()
	r.inFlight = nil
	r.publishSnapshot()

	r.logger.Info("update finished", "profile", res.Profile, "status", res.Status, "error", res.Err)
	r.obs().OnCompleted(res)
	r.tryDispatch()
}

// apply persists a result and publishes the completion event
func (r *Runner) apply(res model.JobResult) {
	if res.Profile != "" && res.Status != "" {
		ctx, cancel := context.WithTimeout(r.baseCtx, r.writeTimeout)
		if err := r.repo.UpsertProfile(ctx, res.Profile, res.LastUpdated, res.Status); err != nil {
			r.logger.Error("failed to save profile", "profile", res.Profile, "error", err)
		}
		cancel()
	}

	if r.publisher != nil {
		ctx, cancel := context.WithTimeout(r.baseCtx, r.publishTimeout)
		if err := r.publisher.Publish(ctx, res); err != nil {
			r.logger.Warn("failed to publish completion", "profile", res.Profile, "error", err)
		}
		cancel()
	}
}

func (r *Runner) drain() {
	if len(r.pending) > 0 {
		names := make([]string, 0, len(r.pending))
		for _, p := range r.pending {
			names = append(names, p.Profile)
		}
		r.logger.Info("dropping pending updates", "profiles", names)
		r.pending = nil
	}
	r.publishSnapshot()

	idle := make(chan struct{})
	go func() {
		r.jobs.Wait()
		close(idle)
	}()

	// The stall timer keeps bounding the in-flight update while draining.
	// Ad-hoc jobs get the same budget before every job context is cancelled.
	var deadline <-chan time.Time
	if r.stallTimeout > 0 {
		t := time.NewTimer(r.stallTimeout)
		defer t.Stop()
		deadline = t.C
	}

	for {
		var stallC <-chan time.Time
		if r.stall != nil {
			stallC = r.stall.C
		}

		select {
		case res := <-r.results:
			r.onJobComplete(res)
		case <-stallC:
			r.stall = nil
			r.onStall()
		case <-deadline:
			deadline = nil
			r.logger.Warn("shutdown deadline reached, cancelling running jobs", "timeout", r.stallTimeout)
			r.onStall()
			r.cancelJobs()
		case <-idle:
			for {
				select {
				case res := <-r.results:
					r.onJobComplete(res)
				default:
					r.logger.Info("update runner stopped")
					return
				}
			}
		}
	}
}

func (r *Runner) publishSnapshot() {
	s := Snapshot{AdHoc: r.adHoc}
	for _, p := range r.pending {
		s.Pending = append(s.Pending, p.Profile)
	}
	if r.inFlight != nil {
		s.InFlight = r.inFlight.req.Profile
	}
	r.snapMu.Lock()
	r.snap = s
	r.snapMu.Unlock()
}
