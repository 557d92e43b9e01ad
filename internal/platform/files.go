package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
)

// User folder names
const (
	DownloadsFolderName = "Downloads"
	VideosFolderName    = "Videos"
	AppVideosFolderName = "4K Tokkit"
	XDGDownloadEnv      = "XDG_DOWNLOAD_DIR"
	XDGVideosEnv        = "XDG_VIDEOS_DIR"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// OpenFolderInManager opens a directory in the system file manager
func OpenFolderInManager(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("folder does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a folder: %s", dirPath)
	}

	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, absPath).Run()
	case OSLinux:
		return openFolderLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openFolderLinux tries xdg-open first, then well-known file managers
func openFolderLinux(dir string) error {
	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}
	return fmt.Errorf("no file manager found to open %s", dir)
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomeDownloadsDir returns the user's Downloads directory.
// XDG_DOWNLOAD_DIR wins when set, otherwise ~/Downloads.
func GetHomeDownloadsDir() (string, error) {
	return userFolder(XDGDownloadEnv, DownloadsFolderName)
}

// GetVideosDir returns the folder that holds one sub-folder per profile
func GetVideosDir() (string, error) {
	videos, err := userFolder(XDGVideosEnv, VideosFolderName)
	if err != nil {
		return "", err
	}
	return filepath.Join(videos, AppVideosFolderName), nil
}

// ProfileDir returns the folder for a profile under videosDir
func ProfileDir(videosDir, profile string) string {
	return filepath.Join(videosDir, profile)
}

func userFolder(envKey, fallbackName string) (string, error) {
	if dir := os.Getenv(envKey); dir != "" {
		return os.ExpandEnv(dir), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, fallbackName), nil
}
