package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/tokkit/internal/model"
)

// ProfileRow is one line of the profile table
type ProfileRow struct {
	widget.BaseWidget

	name        string
	lastUpdated string
	status      model.ProfileStatus

	nameLabel    *widget.Label
	timeLabel    *widget.Label
	statusLabel  *widget.Label
	updateButton *widget.Button
	folderButton *widget.Button

	onUpdate func(name string)
	onOpen   func(name string)
}

// NewProfileRow creates a row from a stored profile
func NewProfileRow(p model.Profile) *ProfileRow {
	row := &ProfileRow{
		name:        p.Name,
		lastUpdated: p.LastUpdated,
		status:      p.Status,
	}

	row.nameLabel = widget.NewLabel(p.Name)
	row.nameLabel.Truncation = fyne.TextTruncateEllipsis
	row.timeLabel = widget.NewLabel("")
	row.statusLabel = widget.NewLabel("")

	row.updateButton = widget.NewButton(model.UpdateButtonLabel, func() {
		if row.onUpdate != nil {
			row.onUpdate(row.name)
		}
	})
	row.folderButton = widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		if row.onOpen != nil {
			row.onOpen(row.name)
		}
	})
	row.folderButton.Importance = widget.LowImportance

	row.renderStatus()
	row.RefreshTime(time.Now())
	row.ExtendBaseWidget(row)
	return row
}

// SetCallbacks sets the update and open-folder handlers
func (r *ProfileRow) SetCallbacks(onUpdate, onOpen func(name string)) {
	r.onUpdate = onUpdate
	r.onOpen = onOpen
}

// Name returns the profile name
func (r *ProfileRow) Name() string {
	return r.name
}

// Status returns the displayed status
func (r *ProfileRow) Status() model.ProfileStatus {
	return r.status
}

// SetQueued disables the trigger and shows the queue position
func (r *ProfileRow) SetQueued(position int) {
	r.updateButton.SetText(model.QueueLabel(position))
	r.updateButton.Disable()
}

// SetStarted marks the row as the in-flight update
func (r *ProfileRow) SetStarted() {
	r.updateButton.Disable()
	r.status = model.StatusBeingUpdated
	r.renderStatus()
}

// SetCompleted re-enables the trigger and shows the final time and status.
// An empty timestamp keeps the previous one.
func (r *ProfileRow) SetCompleted(lastUpdated string, status model.ProfileStatus, now time.Time) {
	if lastUpdated != "" {
		r.lastUpdated = lastUpdated
	}
	if status != "" {
		r.status = status
	}
	r.updateButton.SetText(model.UpdateButtonLabel)
	r.updateButton.Enable()
	r.renderStatus()
	r.RefreshTime(now)
}

// RefreshTime redraws the relative "last update" label
func (r *ProfileRow) RefreshTime(now time.Time) {
	text := DashPlaceholder
	if r.lastUpdated != "" {
		text = model.RelativeTime(r.lastUpdated, now)
	}
	r.timeLabel.SetText(text)
}

func (r *ProfileRow) renderStatus() {
	text := DashPlaceholder
	if r.status != "" {
		text = r.status.String()
	}
	r.statusLabel.Importance = statusImportance(r.status)
	r.statusLabel.SetText(text)
}

// CreateRenderer creates the row renderer
func (r *ProfileRow) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(rowLayout(r.nameLabel, r.timeLabel, r.statusLabel,
		container.NewHBox(r.updateButton, r.folderButton)))
}

// rowLayout lays out one table line: the name takes the remaining width
func rowLayout(name, lastUpdate, status, actions fyne.CanvasObject) *fyne.Container {
	fixed := container.NewHBox(
		container.New(layout.NewGridWrapLayout(fyne.NewSize(LastUpdateW, RowMinHeight)), lastUpdate),
		container.New(layout.NewGridWrapLayout(fyne.NewSize(StatusWidth, RowMinHeight)), status),
		container.New(layout.NewGridWrapLayout(fyne.NewSize(ActionsWidth, RowMinHeight)), actions),
	)
	return container.NewBorder(nil, nil, nil, fixed, name)
}

// newHeaderRow creates the bold table header aligned with rowLayout
func newHeaderRow() *fyne.Container {
	bold := fyne.TextStyle{Bold: true}
	return rowLayout(
		widget.NewLabelWithStyle(HeaderProfile, fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle(HeaderLastUpdate, fyne.TextAlignLeading, bold),
		widget.NewLabelWithStyle(HeaderStatus, fyne.TextAlignLeading, bold),
		layout.NewSpacer(),
	)
}
