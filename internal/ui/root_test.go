package ui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/tokkit/internal/config"
	"github.com/ytget/tokkit/internal/model"
	"github.com/ytget/tokkit/internal/queue"
)

type fakeQueue struct {
	mu       sync.Mutex
	observer queue.Observer
	enqueued []string
	results  []model.JobResult
}

func (q *fakeQueue) Enqueue(_ context.Context, profile string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, profile)
	return len(q.enqueued), nil
}

func (q *fakeQueue) Go(ctx context.Context, _ model.JobKind, fn queue.AdHocFunc) error {
	res := fn(ctx)
	q.mu.Lock()
	q.results = append(q.results, res)
	q.mu.Unlock()
	return nil
}

func (q *fakeQueue) SetObserver(o queue.Observer) { q.observer = o }

func (q *fakeQueue) Enqueued() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.enqueued...)
}

func (q *fakeQueue) Results() []model.JobResult {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]model.JobResult(nil), q.results...)
}

type fakeScheduler struct {
	mu        sync.Mutex
	started   bool
	stopped   bool
	sweeps    int
	intervals []int64
	onChange  func(int64)
}

func (s *fakeScheduler) Start(context.Context) error {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	return nil
}

func (s *fakeScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

func (s *fakeScheduler) SetInterval(_ context.Context, millis int64) error {
	s.mu.Lock()
	s.intervals = append(s.intervals, millis)
	s.mu.Unlock()
	return nil
}

func (s *fakeScheduler) Sweep(context.Context) error {
	s.mu.Lock()
	s.sweeps++
	s.mu.Unlock()
	return nil
}

func (s *fakeScheduler) SetOnIntervalChange(fn func(int64)) { s.onChange = fn }

func (s *fakeScheduler) state() (bool, bool, int, []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started, s.stopped, s.sweeps, append([]int64(nil), s.intervals...)
}

type fakeLister struct {
	profiles []model.Profile
	err      error
}

func (l *fakeLister) ListProfiles(context.Context) ([]model.Profile, error) {
	return l.profiles, l.err
}

type fakeDownloader struct {
	mu    sync.Mutex
	calls [][2]string
	meta  *model.Metadata
	err   error
}

func (d *fakeDownloader) DownloadItem(_ context.Context, url, outputDir string) (*model.Metadata, error) {
	d.mu.Lock()
	d.calls = append(d.calls, [2]string{url, outputDir})
	d.mu.Unlock()
	return d.meta, d.err
}

func (d *fakeDownloader) ProfileDir(profile string) string { return "/videos/" + profile }

func (d *fakeDownloader) VideosDir() string { return "/videos" }

type fixture struct {
	app        fyne.App
	ui         *RootUI
	queue      *fakeQueue
	scheduler  *fakeScheduler
	downloader *fakeDownloader
	stopped    chan struct{}
}

func newFixture(t *testing.T, profiles ...model.Profile) *fixture {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	f := &fixture{
		app:        app,
		queue:      &fakeQueue{},
		scheduler:  &fakeScheduler{},
		downloader: &fakeDownloader{meta: &model.Metadata{ID: "1", Uploader: "dave smith"}},
		stopped:    make(chan struct{}),
	}
	var once sync.Once
	f.ui = NewRootUI(app, app.NewWindow("test"), Deps{
		Queue:      f.queue,
		Scheduler:  f.scheduler,
		Profiles:   &fakeLister{profiles: profiles},
		Downloader: f.downloader,
		Settings:   config.NewSettings(app),
		StopQueue:  func() { once.Do(func() { close(f.stopped) }) },
	})
	return f
}

func TestNewRootUILoadsProfiles(t *testing.T) {
	f := newFixture(t,
		model.Profile{Name: "alice", LastUpdated: "2025-01-01 10:00:00", Status: model.StatusUpdated},
		model.Profile{Name: "bob"},
	)

	require.Len(t, f.ui.rows, 2)
	alice := f.ui.rows["alice"]
	assert.Equal(t, model.StatusUpdated, alice.Status())
	assert.Equal(t, model.UpdateButtonLabel, alice.updateButton.Text)
	assert.False(t, alice.updateButton.Disabled())
	assert.Equal(t, DashPlaceholder, f.ui.rows["bob"].statusLabel.Text)

	assert.Equal(t, WindowTitle, f.ui.Window().Title())
	assert.Same(t, f.ui, f.queue.observer)
	assert.NotNil(t, f.scheduler.onChange)
}

func TestNewRootUIListFailureKeepsEmptyTable(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	ui := NewRootUI(app, app.NewWindow("test"), Deps{
		Queue:      &fakeQueue{},
		Scheduler:  &fakeScheduler{},
		Profiles:   &fakeLister{err: errors.New("db locked")},
		Downloader: &fakeDownloader{},
		Settings:   config.NewSettings(app),
	})
	assert.Empty(t, ui.rows)
}

func TestDownloadButtonFollowsInput(t *testing.T) {
	f := newFixture(t)
	btn := f.ui.downloadBtn
	assert.True(t, btn.Disabled(), "disabled until input is valid")

	tests := []struct {
		input   string
		enabled bool
	}{
		{"@alice", true},
		{"https://www.tiktok.com/@alice", true},
		{"https://www.tiktok.com/@alice/video/7301", true},
		{"https://example.com/@alice", false},
		{"alice", false},
		{"", false},
	}
	for _, tt := range tests {
		f.ui.urlEntry.SetText(tt.input)
		assert.Equal(t, tt.enabled, !btn.Disabled(), "input %q", tt.input)
	}
}

func TestDownloadProfileHandleQueuesUpdate(t *testing.T) {
	f := newFixture(t)

	f.ui.urlEntry.SetText("@carol")
	test.Tap(f.ui.downloadBtn)

	require.Contains(t, f.ui.rows, "carol")
	assert.True(t, f.ui.rows["carol"].updateButton.Disabled())
	assert.Empty(t, f.ui.urlEntry.Text)
	assert.Eventually(t, func() bool {
		return len(f.queue.Enqueued()) == 1 && f.queue.Enqueued()[0] == "carol"
	}, time.Second, 10*time.Millisecond)
}

func TestDownloadSingleItemRunsAsAdHocJob(t *testing.T) {
	f := newFixture(t)
	f.ui.deps.Settings.SetOutputDirectory("/out")

	url := "https://www.tiktok.com/@dave/video/7301"
	f.ui.urlEntry.SetText(url)
	test.Tap(f.ui.downloadBtn)

	assert.True(t, f.ui.downloadBtn.Disabled())
	assert.Equal(t, NotifyDownloading, f.ui.notificationLabel.Text)
	assert.Eventually(t, func() bool { return len(f.queue.Results()) == 1 }, time.Second, 10*time.Millisecond)

	res := f.queue.Results()[0]
	assert.NoError(t, res.Err)
	assert.Equal(t, "dave_smith", res.Profile)
	assert.Equal(t, model.StatusDownloaded, res.Status)

	f.downloader.mu.Lock()
	defer f.downloader.mu.Unlock()
	require.Len(t, f.downloader.calls, 1)
	assert.Equal(t, [2]string{url, "/out"}, f.downloader.calls[0])
}

func TestRowUpdateButtonEnqueues(t *testing.T) {
	f := newFixture(t, model.Profile{Name: "alice"})

	test.Tap(f.ui.rows["alice"].updateButton)

	assert.True(t, f.ui.rows["alice"].updateButton.Disabled())
	assert.Eventually(t, func() bool { return len(f.queue.Enqueued()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestObserverTransitions(t *testing.T) {
	f := newFixture(t, model.Profile{Name: "alice"}, model.Profile{Name: "bob"})
	alice, bob := f.ui.rows["alice"], f.ui.rows["bob"]

	f.ui.OnQueued("alice", 1)
	f.ui.OnQueued("bob", 2)
	assert.Equal(t, "In queue (1)", alice.updateButton.Text)
	assert.Equal(t, "In queue (2)", bob.updateButton.Text)
	assert.True(t, bob.updateButton.Disabled())

	f.ui.OnStarted("alice")
	assert.Equal(t, model.StatusBeingUpdated, alice.Status())
	assert.Equal(t, model.StatusBeingUpdated.String(), alice.statusLabel.Text)
	assert.True(t, alice.updateButton.Disabled())

	f.ui.OnCompleted(model.JobResult{
		Kind:        model.JobKindProfileUpdate,
		Profile:     "alice",
		LastUpdated: "2025-01-01 10:00:00",
		Status:      model.StatusUpdated,
	})
	assert.Equal(t, model.UpdateButtonLabel, alice.updateButton.Text)
	assert.False(t, alice.updateButton.Disabled())
	assert.Equal(t, model.StatusUpdated, alice.Status())
	assert.True(t, bob.updateButton.Disabled())

	f.ui.OnStarted("bob")
	assert.Empty(t, f.ui.waiting)
	f.ui.OnCompleted(model.JobResult{Kind: model.JobKindProfileUpdate, Profile: "bob", Status: model.StatusStalled})
	assert.Equal(t, model.StatusStalled, bob.Status())
	assert.False(t, bob.updateButton.Disabled())
}

func TestObserverRenumbersWaitingRows(t *testing.T) {
	f := newFixture(t)

	f.ui.OnQueued("alice", 1)
	f.ui.OnQueued("bob", 2)
	f.ui.OnQueued("carol", 3)
	f.ui.OnStarted("alice")
	f.ui.OnCompleted(model.JobResult{Kind: model.JobKindProfileUpdate, Profile: "alice", Status: model.StatusUpdated})
	f.ui.OnStarted("bob")

	assert.Equal(t, "In queue (2)", f.ui.rows["carol"].updateButton.Text)
	assert.Equal(t, []string{"carol"}, f.ui.waiting)
}

func TestObserverSingleItemCompletion(t *testing.T) {
	f := newFixture(t)
	f.ui.urlEntry.SetText("https://www.tiktok.com/@dave/video/7301")

	f.ui.OnCompleted(model.JobResult{
		Kind:        model.JobKindSingleItem,
		Profile:     "dave",
		LastUpdated: "2025-01-01 10:00:00",
		Status:      model.StatusDownloaded,
	})

	require.Contains(t, f.ui.rows, "dave")
	assert.Equal(t, model.StatusDownloaded, f.ui.rows["dave"].Status())
	assert.Empty(t, f.ui.urlEntry.Text)
	assert.True(t, f.ui.downloadBtn.Disabled())
}

func TestObserverSingleItemFailure(t *testing.T) {
	f := newFixture(t)
	f.ui.urlEntry.SetText("https://www.tiktok.com/@dave/video/7301")
	f.ui.downloadBtn.Disable()

	f.ui.OnCompleted(model.JobResult{Kind: model.JobKindSingleItem, Err: errors.New("yt-dlp exited 1")})

	assert.Empty(t, f.ui.rows)
	assert.False(t, f.ui.downloadBtn.Disabled())
	assert.Contains(t, f.ui.notificationLabel.Text, "yt-dlp exited 1")
}

func TestMarkIntervalChecksExactlyOne(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, model.IntervalOff, f.ui.CheckedInterval())

	f.scheduler.onChange(model.Interval30Minutes)
	assert.Equal(t, model.Interval30Minutes, f.ui.CheckedInterval())

	checked := 0
	for _, item := range f.ui.intervalItems {
		if item.Checked {
			checked++
		}
	}
	assert.Equal(t, 1, checked)

	f.ui.markInterval(12345)
	assert.Equal(t, model.IntervalOff, f.ui.CheckedInterval())
}

func TestMenuActionsReachScheduler(t *testing.T) {
	f := newFixture(t)
	require.Len(t, f.ui.intervalItems, len(model.IntervalOptions()))

	f.ui.intervalItems[model.Interval1Hour].Action()
	f.ui.onUpdateAll()

	assert.Eventually(t, func() bool {
		_, _, sweeps, intervals := f.scheduler.state()
		return sweeps == 1 && len(intervals) == 1 && intervals[0] == model.Interval1Hour
	}, time.Second, 10*time.Millisecond)
}

func TestOpenProfileFolder(t *testing.T) {
	f := newFixture(t, model.Profile{Name: "alice"})
	dir := t.TempDir()
	var opened string
	f.ui.openPath = func(p string) error {
		opened = p
		return nil
	}

	f.ui.openFolder(dir)
	assert.Equal(t, dir, opened)
}

func TestRefreshTimes(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 5, 0, 0, time.Local)
	f := newFixture(t, model.Profile{Name: "alice", LastUpdated: "2025-01-01 10:00:00"})
	f.ui.now = func() time.Time { return now }

	f.ui.refreshTimes()
	assert.Equal(t, "5 minutes ago", f.ui.rows["alice"].timeLabel.Text)
}

func TestStartAndClose(t *testing.T) {
	f := newFixture(t)
	f.ui.deps.RefreshInterval = 10 * time.Millisecond

	f.ui.Start()
	assert.Eventually(t, func() bool {
		started, _, _, _ := f.scheduler.state()
		return started
	}, time.Second, 10*time.Millisecond)

	f.ui.requestClose()
	_, stopped, _, _ := f.scheduler.state()
	assert.True(t, stopped)
	assert.Nil(t, f.ui.refreshStop)

	select {
	case <-f.stopped:
	case <-time.After(time.Second):
		t.Fatal("queue was not stopped")
	}

	// second close is a no-op
	f.ui.requestClose()
}
