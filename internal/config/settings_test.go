package config

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestOutputDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetOutputDirectory()
	if dir == "" {
		t.Error("Output directory should not be empty")
	}
	if got := app.Preferences().String(KeyOutputDir); got != dir {
		t.Errorf("Default should be persisted, got %q", got)
	}

	// Test setting custom value
	customDir := "/custom/downloads"
	settings.SetOutputDirectory(customDir)

	retrievedDir := settings.GetOutputDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected output directory %s, got %s", customDir, retrievedDir)
	}
}

func TestWindowSize(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	size := settings.GetWindowSize()
	if size.Width != DefaultWindowWidth || size.Height != DefaultWindowHeight {
		t.Errorf("Expected default size %dx%d, got %v", DefaultWindowWidth, DefaultWindowHeight, size)
	}

	settings.SetWindowSize(fyne.NewSize(800, 500))
	size = settings.GetWindowSize()
	if size.Width != 800 || size.Height != 500 {
		t.Errorf("Expected 800x500, got %v", size)
	}

	// Invalid sizes are ignored
	settings.SetWindowSize(fyne.NewSize(0, 10))
	size = settings.GetWindowSize()
	if size.Width != 800 {
		t.Errorf("Invalid size should not be saved, got %v", size)
	}
}
