package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/tokkit/internal/config"
	"github.com/ytget/tokkit/internal/model"
	"github.com/ytget/tokkit/internal/platform"
	"github.com/ytget/tokkit/internal/queue"
)

// Queue is the part of the runner the window drives
type Queue interface {
	Enqueue(ctx context.Context, profile string) (int, error)
	Go(ctx context.Context, kind model.JobKind, fn queue.AdHocFunc) error
	SetObserver(o queue.Observer)
}

// AutoUpdater is the recurring sweep behind the Auto Update menu
type AutoUpdater interface {
	Start(ctx context.Context) error
	Stop()
	SetInterval(ctx context.Context, millis int64) error
	Sweep(ctx context.Context) error
	SetOnIntervalChange(fn func(millis int64))
}

// ProfileLister loads the rows shown at startup
type ProfileLister interface {
	ListProfiles(ctx context.Context) ([]model.Profile, error)
}

// Downloader fetches single items and knows where profile folders live
type Downloader interface {
	DownloadItem(ctx context.Context, url, outputDir string) (*model.Metadata, error)
	ProfileDir(profile string) string
	VideosDir() string
}

// Deps holds the collaborators of the main window
type Deps struct {
	Queue      Queue
	Scheduler  AutoUpdater
	Profiles   ProfileLister
	Downloader Downloader
	Settings   *config.Settings

	// StopQueue cancels the runner and blocks until it has drained
	StopQueue func()

	RefreshInterval time.Duration
	Logger          *slog.Logger
}

// RootUI represents the main window
type RootUI struct {
	app    fyne.App
	window fyne.Window
	deps   Deps
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	urlEntry    *widget.Entry
	downloadBtn *widget.Button
	rowsBox     *fyne.Container

	// UI goroutine only
	rows    map[string]*ProfileRow
	waiting []string

	intervalItems map[int64]*fyne.MenuItem
	mainMenu      *fyne.MainMenu

	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite

	// Relative time refresher
	refreshStop chan struct{}
	refreshDone chan struct{}

	closeOnce sync.Once
	openPath  func(string) error
	now       func() time.Time
}

// NewRootUI builds the window content and registers the queue observer.
// Background work starts with Start.
func NewRootUI(app fyne.App, window fyne.Window, deps Deps) *RootUI {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.RefreshInterval <= 0 {
		deps.RefreshInterval = DefaultRefreshInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	ui := &RootUI{
		app:           app,
		window:        window,
		deps:          deps,
		logger:        logger.With("component", "ui"),
		ctx:           ctx,
		cancel:        cancel,
		rows:          make(map[string]*ProfileRow),
		intervalItems: make(map[int64]*fyne.MenuItem),
		openPath:      platform.OpenFolderInManager,
		now:           time.Now,
	}

	window.SetTitle(WindowTitle)
	ui.setupUI()
	ui.loadProfiles()

	deps.Queue.SetObserver(ui)
	deps.Scheduler.SetOnIntervalChange(func(millis int64) {
		fyne.Do(func() { ui.markInterval(millis) })
	})
	window.SetCloseIntercept(ui.requestClose)
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(URLPlaceholder)
	ui.urlEntry.OnChanged = ui.onInputChanged
	ui.urlEntry.OnSubmitted = func(string) { ui.onDownloadClick() }

	ui.downloadBtn = widget.NewButton(DownloadButtonText, ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance
	ui.downloadBtn.Disable()

	inputRow := container.NewBorder(nil, nil, nil, ui.downloadBtn, ui.urlEntry)

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	top := container.NewVBox(
		widget.NewLabel(URLInputLabel),
		inputRow,
		ui.notificationContainer,
		widget.NewSeparator(),
		newHeaderRow(),
	)

	ui.rowsBox = container.NewVBox()
	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, container.NewVScroll(ui.rowsBox)))
}

// loadProfiles fills the table from the store
func (ui *RootUI) loadProfiles() {
	profiles, err := ui.deps.Profiles.ListProfiles(ui.ctx)
	if err != nil {
		ui.logger.Error("failed to load profiles", "error", err)
		return
	}
	for _, p := range profiles {
		ui.addRow(p)
	}
}

// Start launches the auto-update scheduler and the relative time refresher.
// It must run after the content is built so interval changes have a menu to mark.
func (ui *RootUI) Start() {
	go func() {
		if err := ui.deps.Scheduler.Start(ui.ctx); err != nil {
			ui.logger.Error("failed to start auto update", "error", err)
		}
	}()
	ui.startRefresher()
}

// Window returns the main window
func (ui *RootUI) Window() fyne.Window {
	return ui.window
}

func (ui *RootUI) addRow(p model.Profile) *ProfileRow {
	if row, ok := ui.rows[p.Name]; ok {
		return row
	}
	row := NewProfileRow(p)
	row.SetCallbacks(ui.onUpdateProfile, ui.onOpenProfileFolder)
	ui.rows[p.Name] = row
	ui.rowsBox.Add(row)
	return row
}

func (ui *RootUI) onInputChanged(text string) {
	if platform.IsValidInput(strings.TrimSpace(text)) {
		ui.downloadBtn.Enable()
	} else {
		ui.downloadBtn.Disable()
	}
}

// onDownloadClick queues a profile for @name and profile URLs, and downloads
// anything else as a single item into the output folder.
func (ui *RootUI) onDownloadClick() {
	input := strings.TrimSpace(ui.urlEntry.Text)
	if !platform.IsValidInput(input) {
		return
	}

	if platform.IsProfileHandle(input) || platform.IsProfileURL(input) {
		name, err := platform.ProfileNameFromURL(input)
		if err != nil {
			ui.showError(err)
			return
		}
		ui.addRow(model.Profile{Name: name})
		ui.urlEntry.SetText("")
		ui.onUpdateProfile(name)
		return
	}

	ui.downloadBtn.Disable()
	ui.showNotification(NotifyDownloading, true)
	outputDir := ui.deps.Settings.GetOutputDirectory()
	downloader := ui.deps.Downloader

	go func() {
		err := ui.deps.Queue.Go(ui.ctx, model.JobKindSingleItem, func(ctx context.Context) model.JobResult {
			meta, err := downloader.DownloadItem(ctx, input, outputDir)
			if err != nil {
				return model.JobResult{Err: err}
			}
			return model.JobResult{
				Profile: platform.SanitizeUploader(meta.Uploader),
				Status:  model.StatusDownloaded,
			}
		})
		if err != nil {
			fyne.Do(func() {
				ui.showError(err)
				ui.onInputChanged(ui.urlEntry.Text)
			})
		}
	}()
}

// onUpdateProfile disables the trigger and hands the profile to the queue
func (ui *RootUI) onUpdateProfile(name string) {
	if row, ok := ui.rows[name]; ok {
		row.updateButton.Disable()
	}
	go func() {
		if _, err := ui.deps.Queue.Enqueue(ui.ctx, name); err != nil {
			ui.logger.Warn("enqueue failed", "profile", name, "error", err)
			fyne.Do(func() {
				if row, ok := ui.rows[name]; ok {
					row.SetCompleted("", "", ui.now())
				}
			})
		}
	}()
}

func (ui *RootUI) onOpenProfileFolder(name string) {
	ui.openFolder(ui.deps.Downloader.ProfileDir(name))
}

func (ui *RootUI) openFolder(dir string) {
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		ui.showError(err)
		return
	}
	if err := ui.openPath(dir); err != nil {
		ui.logger.Warn("failed to open folder", "path", dir, "error", err)
		ui.showError(err)
	}
}

// showNotification displays a message in the panel under the URL input.
// When spinning is true a spinner indicates background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	ui.notificationLabel.SetText(message)
	if spinning {
		ui.notificationSpinner.Show()
	} else {
		ui.notificationSpinner.Hide()
	}
	ui.notificationContainer.Show()
	ui.notificationContainer.Refresh()
}

// flashNotification shows a message that hides itself after a delay
func (ui *RootUI) flashNotification(message string) {
	ui.showNotification(message, false)
	time.AfterFunc(NotificationAutoHide, func() {
		fyne.Do(func() {
			if ui.notificationLabel.Text == message {
				ui.hideNotification()
			}
		})
	})
}

func (ui *RootUI) hideNotification() {
	ui.notificationSpinner.Hide()
	ui.notificationContainer.Hide()
}

func (ui *RootUI) showError(err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, queue.ErrStopped) {
		return
	}
	ui.hideNotification()
	ui.flashNotification(fmt.Sprintf(NotifyDownloadFailed, err))
}

// startRefresher redraws the relative time labels on a ticker. It only reads
// timestamps already held by the rows.
func (ui *RootUI) startRefresher() {
	ui.refreshStop = make(chan struct{})
	ui.refreshDone = make(chan struct{})
	stop, done := ui.refreshStop, ui.refreshDone

	go func() {
		defer close(done)
		ticker := time.NewTicker(ui.deps.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fyne.Do(ui.refreshTimes)
			}
		}
	}()
}

func (ui *RootUI) stopRefresher() {
	if ui.refreshStop == nil {
		return
	}
	close(ui.refreshStop)
	<-ui.refreshDone
	ui.refreshStop = nil
}

func (ui *RootUI) refreshTimes() {
	now := ui.now()
	for _, row := range ui.rows {
		row.RefreshTime(now)
	}
}

// requestClose stops the scheduler and refresher, drains the runner off the
// UI goroutine and then quits.
func (ui *RootUI) requestClose() {
	ui.closeOnce.Do(func() {
		ui.deps.Settings.SetWindowSize(ui.window.Canvas().Size())
		ui.deps.Scheduler.Stop()
		ui.stopRefresher()
		ui.showNotification(NotifyShuttingDown, true)

		go func() {
			if ui.deps.StopQueue != nil {
				ui.deps.StopQueue()
			}
			ui.cancel()
			fyne.Do(func() {
				ui.window.Close()
				ui.app.Quit()
			})
		}()
	})
}
