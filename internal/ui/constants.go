package ui

import "time"

// IconMenu titles the main menu
const IconMenu = "☰"

// Window and labels
const (
	WindowTitle        = "TikTok Video Downloader"
	URLInputLabel      = "Enter TikTok URL or @profile_name:"
	URLPlaceholder     = "https://www.tiktok.com/@profile_name"
	DownloadButtonText = "Download Video"

	HeaderProfile    = "Profile Name"
	HeaderLastUpdate = "Last Update"
	HeaderStatus     = "Status"

	DashPlaceholder = "—"
)

// Menu labels
const (
	MenuChangeOutput = "Change Output folder"
	MenuUpdateAll    = "Update All"
	MenuAutoUpdate   = "Auto Update"
	MenuOpenVideos   = "Open Videos folder"
	MenuClose        = "Close"
)

// Notifications
const (
	NotifyDownloading    = "Downloading video..."
	NotifyDownloaded     = "Saved video from %s"
	NotifyDownloadFailed = "Download failed: %v"
	NotifyOutputChanged  = "Output folder: %s"
	NotifyShuttingDown   = "Finishing the current update before closing..."
)

// Layout sizing
const (
	RowMinHeight float32 = 36
	StatusWidth  float32 = 140
	LastUpdateW  float32 = 120
	ActionsWidth float32 = 150
)

// Timing
const (
	DefaultRefreshInterval = 30 * time.Second
	NotificationAutoHide   = 5 * time.Second
)
