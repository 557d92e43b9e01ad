package platform

import (
	"fmt"
	"regexp"
	"strings"
)

// URL templates and markers
const (
	ProfileURLTemplate = "https://www.tiktok.com/@%s"
	ProfileMarker      = "/@"
	ProfilePrefix      = "@"
	VideoFileExt       = ".mp4"
)

// Hints that make a URL with a profile marker refer to a single item
var itemURLHints = []string{".mp4", "video"}

var (
	tiktokURLPattern = regexp.MustCompile(
		`^(https?://)?(www\.)?tiktok\.com/(@[\w.-]+(/video/\d+)?|[\w/-]+)(\?.*)?$` +
			`|^(https?://)?vm\.tiktok\.com/[\w/-]+/?$`)
	profileHandlePattern = regexp.MustCompile(`^@[\w.-]+$`)
)

// IsValidInput reports whether text is a TikTok URL (profile, video, short link)
// or a bare @username.
func IsValidInput(text string) bool {
	text = strings.TrimSpace(text)
	return tiktokURLPattern.MatchString(text) || profileHandlePattern.MatchString(text)
}

// IsProfileHandle reports whether text is a bare @username
func IsProfileHandle(text string) bool {
	return profileHandlePattern.MatchString(strings.TrimSpace(text))
}

// IsProfileURL reports whether url points at a whole profile rather than an item
func IsProfileURL(url string) bool {
	if !strings.Contains(url, ProfileMarker) {
		return false
	}
	for _, hint := range itemURLHints {
		if strings.Contains(url, hint) {
			return false
		}
	}
	return true
}

// ProfileNameFromURL extracts the username from a profile URL or @handle
func ProfileNameFromURL(url string) (string, error) {
	url = strings.TrimSpace(url)
	if IsProfileHandle(url) {
		return strings.TrimPrefix(url, ProfilePrefix), nil
	}

	parts := strings.SplitN(url, ProfileMarker, 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("no profile marker in URL: %s", url)
	}

	name := parts[1]
	if idx := strings.IndexAny(name, "/?#"); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		return "", fmt.Errorf("empty profile name in URL: %s", url)
	}
	return name, nil
}

// ProfileURL builds the canonical profile URL for a username
func ProfileURL(profile string) string {
	return fmt.Sprintf(ProfileURLTemplate, profile)
}

// SanitizeUploader replaces spaces so the uploader can prefix a filename
func SanitizeUploader(uploader string) string {
	return strings.ReplaceAll(uploader, " ", "_")
}

// ItemBaseName returns "<uploader>_<YYYYMMDD>_<id>" without extension
func ItemBaseName(uploader, uploadDate, id string) string {
	return fmt.Sprintf("%s_%s_%s", SanitizeUploader(uploader), uploadDate, id)
}
