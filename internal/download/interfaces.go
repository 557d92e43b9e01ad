package download

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/ytget/tokkit/internal/model"
)

// Extractor wraps the external extractor tool. All methods block on a child
// process and must only be called from background goroutines.
type Extractor interface {
	// FetchMetadata returns metadata for a single item URL
	FetchMetadata(ctx context.Context, url string) (*model.Metadata, error)
	// DownloadItem downloads the best video+audio of url merged into an mp4 at dest
	DownloadItem(ctx context.Context, url, dest string) error
	// ListProfileItems returns every item of a profile in listing order
	ListProfileItems(ctx context.Context, profileURL string) ([]model.ProfileItem, error)
}

// Muxer embeds metadata into a downloaded video in place.
type Muxer interface {
	Embed(ctx context.Context, videoPath string, meta *model.Metadata) error
}
