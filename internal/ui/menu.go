package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"github.com/ytget/tokkit/internal/model"
)

// createMenu builds the main menu with one checkable item per auto-update interval
func (ui *RootUI) createMenu() {
	changeOutput := fyne.NewMenuItem(MenuChangeOutput, ui.onChangeOutputFolder)
	updateAll := fyne.NewMenuItem(MenuUpdateAll, ui.onUpdateAll)
	openVideos := fyne.NewMenuItem(MenuOpenVideos, func() {
		ui.openFolder(ui.deps.Downloader.VideosDir())
	})

	autoUpdate := fyne.NewMenuItem(MenuAutoUpdate, nil)
	autoUpdate.ChildMenu = fyne.NewMenu(MenuAutoUpdate)
	for _, opt := range model.IntervalOptions() {
		millis := opt.Millis
		item := fyne.NewMenuItem(opt.Label, func() { ui.onIntervalSelected(millis) })
		ui.intervalItems[millis] = item
		autoUpdate.ChildMenu.Items = append(autoUpdate.ChildMenu.Items, item)
	}
	ui.intervalItems[model.IntervalOff].Checked = true

	closeItem := fyne.NewMenuItem(MenuClose, ui.requestClose)
	closeItem.IsQuit = true

	ui.mainMenu = fyne.NewMainMenu(fyne.NewMenu(IconMenu,
		changeOutput,
		updateAll,
		autoUpdate,
		openVideos,
		fyne.NewMenuItemSeparator(),
		closeItem,
	))
	ui.window.SetMainMenu(ui.mainMenu)
}

// markInterval checks exactly one interval item
func (ui *RootUI) markInterval(millis int64) {
	if _, ok := ui.intervalItems[millis]; !ok {
		millis = model.IntervalOff
	}
	for ms, item := range ui.intervalItems {
		item.Checked = ms == millis
	}
	ui.mainMenu.Refresh()
}

// CheckedInterval returns the interval whose menu item is checked
func (ui *RootUI) CheckedInterval() int64 {
	for ms, item := range ui.intervalItems {
		if item.Checked {
			return ms
		}
	}
	return model.IntervalOff
}

func (ui *RootUI) onIntervalSelected(millis int64) {
	go func() {
		if err := ui.deps.Scheduler.SetInterval(ui.ctx, millis); err != nil {
			ui.logger.Error("failed to change auto update", "interval_ms", millis, "error", err)
			fyne.Do(func() { ui.showError(err) })
		}
	}()
}

func (ui *RootUI) onUpdateAll() {
	go func() {
		if err := ui.deps.Scheduler.Sweep(ui.ctx); err != nil {
			ui.logger.Error("update all failed", "error", err)
			fyne.Do(func() { ui.showError(err) })
		}
	}()
}

func (ui *RootUI) onChangeOutputFolder() {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			ui.showError(err)
			return
		}
		if dir == nil {
			return
		}
		ui.deps.Settings.SetOutputDirectory(dir.Path())
		ui.flashNotification(fmt.Sprintf(NotifyOutputChanged, dir.Path()))
	}, ui.window)
}
