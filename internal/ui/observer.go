package ui

import (
	"fmt"
	"slices"

	"fyne.io/fyne/v2"

	"github.com/ytget/tokkit/internal/model"
)

// OnQueued marks the row as waiting. Called from the runner goroutine.
func (ui *RootUI) OnQueued(profile string, position int) {
	fyne.Do(func() {
		row := ui.addRow(model.Profile{Name: profile})
		ui.waiting = append(ui.waiting, profile)
		row.SetQueued(position)
	})
}

// OnStarted marks the row as the in-flight update and moves the waiting rows
// one place up.
func (ui *RootUI) OnStarted(profile string) {
	fyne.Do(func() {
		if i := slices.Index(ui.waiting, profile); i >= 0 {
			ui.waiting = slices.Delete(ui.waiting, i, i+1)
		}
		if row, ok := ui.rows[profile]; ok {
			row.SetStarted()
		}
		// position 1 is the in-flight job
		for i, name := range ui.waiting {
			if row, ok := ui.rows[name]; ok {
				row.SetQueued(i + 2)
			}
		}
	})
}

// OnCompleted restores the trigger and shows the result
func (ui *RootUI) OnCompleted(res model.JobResult) {
	fyne.Do(func() {
		if res.Kind == model.JobKindSingleItem {
			ui.completeDownload(res)
			return
		}
		if row, ok := ui.rows[res.Profile]; ok && !ui.isWaiting(res.Profile) {
			row.SetCompleted(res.LastUpdated, res.Status, ui.now())
		} else if ok {
			row.status = res.Status
			row.renderStatus()
		}
	})
}

func (ui *RootUI) completeDownload(res model.JobResult) {
	ui.onInputChanged(ui.urlEntry.Text)
	if res.Err != nil {
		ui.showError(res.Err)
		return
	}

	ui.hideNotification()
	ui.urlEntry.SetText("")
	if res.Profile != "" {
		row := ui.addRow(model.Profile{Name: res.Profile})
		if !ui.isWaiting(res.Profile) && row.status != model.StatusBeingUpdated {
			row.SetCompleted(res.LastUpdated, res.Status, ui.now())
		}
		ui.flashNotification(fmt.Sprintf(NotifyDownloaded, res.Profile))
	}
}

func (ui *RootUI) isWaiting(profile string) bool {
	return slices.Contains(ui.waiting, profile)
}
