// Package platform contains OS/platform integration and external tooling glue:
// user folder discovery, reveal-in-file-manager, TikTok URL handling and
// parsing of yt-dlp JSON output.
package platform
