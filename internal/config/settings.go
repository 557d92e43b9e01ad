package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/tokkit/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyOutputDir    = "output_directory"
	KeyWindowWidth  = "window_width"
	KeyWindowHeight = "window_height"
)

// Default values
const (
	DefaultWindowWidth  = 600
	DefaultWindowHeight = 400
	FallbackOutputDir   = "/tmp/downloads"
)

// Settings manages per-user desktop preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetOutputDirectory returns the folder single downloads are saved to
func (s *Settings) GetOutputDirectory() string {
	dir := s.app.Preferences().String(KeyOutputDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = FallbackOutputDir
		}
		s.SetOutputDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetOutputDirectory sets the folder single downloads are saved to
func (s *Settings) SetOutputDirectory(dir string) {
	s.app.Preferences().SetString(KeyOutputDir, dir)
}

// GetWindowSize returns the last saved main window size
func (s *Settings) GetWindowSize() fyne.Size {
	prefs := s.app.Preferences()
	w := prefs.FloatWithFallback(KeyWindowWidth, DefaultWindowWidth)
	h := prefs.FloatWithFallback(KeyWindowHeight, DefaultWindowHeight)
	if w <= 0 || h <= 0 {
		return fyne.NewSize(DefaultWindowWidth, DefaultWindowHeight)
	}
	return fyne.NewSize(float32(w), float32(h))
}

// SetWindowSize remembers the main window size
func (s *Settings) SetWindowSize(size fyne.Size) {
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	s.app.Preferences().SetFloat(KeyWindowWidth, float64(size.Width))
	s.app.Preferences().SetFloat(KeyWindowHeight, float64(size.Height))
}
