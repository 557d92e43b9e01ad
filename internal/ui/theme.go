package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/tokkit/internal/model"
)

// AppTheme tightens the default spacing and uses the brand accent colors
type AppTheme struct{}

// NewAppTheme creates the application theme
func NewAppTheme() fyne.Theme {
	return &AppTheme{}
}

// Color returns theme colors
func (t *AppTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.RGBA{R: 254, G: 44, B: 85, A: 255}
	case theme.ColorNameSuccess:
		return color.RGBA{R: 37, G: 244, B: 238, A: 255}
	case theme.ColorNameError:
		return color.RGBA{R: 198, G: 40, B: 40, A: 255}
	case theme.ColorNameWarning:
		return color.RGBA{R: 255, G: 179, B: 0, A: 255}
	}
	return theme.DefaultTheme().Color(name, variant)
}

// Font returns theme fonts
func (t *AppTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *AppTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes
func (t *AppTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameText:
		return 13
	case theme.SizeNameInputRadius:
		return 3
	}
	return theme.DefaultTheme().Size(name)
}

// statusImportance maps a profile status to the label importance used to color it
func statusImportance(status model.ProfileStatus) widget.Importance {
	switch status {
	case model.StatusUpdated, model.StatusDownloaded:
		return widget.SuccessImportance
	case model.StatusUpdateFailed:
		return widget.DangerImportance
	case model.StatusStalled:
		return widget.WarningImportance
	case model.StatusBeingUpdated:
		return widget.HighImportance
	default:
		return widget.MediumImportance
	}
}
