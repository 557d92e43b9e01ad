package platform

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/tokkit/internal/model"
)

// Metadata parsing errors
var (
	ErrMalformedOutput    = errors.New("malformed extractor output")
	ErrIncompleteMetadata = errors.New("missing critical metadata")
)

// Date layout of upload_date values
const UploadDateLayout = "20060102"

// URL templates
const (
	VideoURLTemplate = "https://www.tiktok.com/@%s/video/%s"
)

// ParseMetadata decodes a single --dump-json document and checks that the
// fields needed for naming (uploader, id, upload_date) are present.
func ParseMetadata(data []byte) (*model.Metadata, error) {
	var meta model.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	var missing []string
	if meta.Uploader == "" {
		missing = append(missing, "uploader")
	}
	if meta.ID == "" {
		missing = append(missing, "id")
	}
	if meta.UploadDate == "" {
		missing = append(missing, "upload_date")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteMetadata, strings.Join(missing, ", "))
	}
	if len(meta.UploadDate) < len(UploadDateLayout) {
		return nil, fmt.Errorf("%w: upload_date %q", ErrIncompleteMetadata, meta.UploadDate)
	}
	meta.UploadDate = meta.UploadDate[:len(UploadDateLayout)]

	return &meta, nil
}

// ParseFlatPlaylist parses --flat-playlist --dump-json output (one JSON document
// per line). Entries without an id are skipped and entries without a url get
// the canonical video URL of profile. The number of lines that are not JSON is
// returned; when no line parses at all the result is ErrMalformedOutput.
func ParseFlatPlaylist(output string, profile string) ([]model.ProfileItem, int, error) {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	items := make([]model.ProfileItem, 0, len(lines))
	nonEmpty, malformed := 0, 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		nonEmpty++

		var item model.ProfileItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			malformed++
			continue
		}
		if item.ID == "" {
			continue
		}
		if item.URL == "" {
			if profile == "" {
				continue
			}
			item.URL = fmt.Sprintf(VideoURLTemplate, profile, item.ID)
		}
		items = append(items, item)
	}

	if malformed > 0 && malformed == nonEmpty {
		return nil, malformed, fmt.Errorf("%w: %d listing lines are not JSON", ErrMalformedOutput, malformed)
	}
	return items, malformed, nil
}

// IsValidUploadDate checks a YYYYMMDD date string
func IsValidUploadDate(value string) bool {
	if len(value) != len(UploadDateLayout) {
		return false
	}
	_, err := time.Parse(UploadDateLayout, value)
	return err == nil
}
