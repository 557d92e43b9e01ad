// Package download implements the item and profile download pipeline built on
// top of yt-dlp (via github.com/lrstanley/go-ytdlp) and ffmpeg. A single item
// goes through metadata lookup, download and metadata embedding; a profile
// sweep lists the profile, skips what the history ledger already holds and
// downloads the rest one item at a time.
package download
