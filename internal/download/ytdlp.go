package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/tokkit/internal/model"
	"github.com/ytget/tokkit/internal/platform"
)

// yt-dlp defaults
const (
	YTDLPCommand       = "yt-dlp"
	DefaultFormat      = "bestvideo+bestaudio/best"
	MergeOutputFormat  = "mp4"
	maxStderrInMessage = 512
)

var (
	// ErrToolNotFound is returned when the extractor executable cannot be located.
	ErrToolNotFound = errors.New("extractor executable not found")
	// ErrExtractorFailed is returned when the extractor exits with a non-zero code.
	ErrExtractorFailed = errors.New("extractor failed")
)

// YTDLPExtractor runs yt-dlp through go-ytdlp.
type YTDLPExtractor struct {
	executable string
	format     string
	logger     *slog.Logger
}

// NewYTDLPExtractor creates an extractor. Empty executable means yt-dlp from
// PATH and empty format means DefaultFormat.
func NewYTDLPExtractor(executable, format string, logger *slog.Logger) *YTDLPExtractor {
	if executable == "" {
		executable = YTDLPCommand
	}
	if format == "" {
		format = DefaultFormat
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &YTDLPExtractor{
		executable: executable,
		format:     format,
		logger:     logger.With("component", "extractor"),
	}
}

// Executable returns the configured yt-dlp path
func (e *YTDLPExtractor) Executable() string {
	return e.executable
}

// FetchMetadata runs `yt-dlp --dump-json url`
func (e *YTDLPExtractor) FetchMetadata(ctx context.Context, url string) (*model.Metadata, error) {
	cmd, err := e.command()
	if err != nil {
		return nil, err
	}

	res, err := cmd.DumpJSON().Run(ctx, url)
	if err != nil {
		return nil, e.wrapRunError("fetch metadata", url, res, err)
	}

	meta, err := platform.ParseMetadata([]byte(res.Stdout))
	if err != nil {
		return nil, fmt.Errorf("fetch metadata %s: %w", url, err)
	}
	return meta, nil
}

// DownloadItem runs `yt-dlp -f <format> -o dest --merge-output-format mp4 url`
func (e *YTDLPExtractor) DownloadItem(ctx context.Context, url, dest string) error {
	cmd, err := e.command()
	if err != nil {
		return err
	}

	res, err := cmd.
		Format(e.format).
		Output(dest).
		MergeOutputFormat(MergeOutputFormat).
		Run(ctx, url)
	if err != nil {
		return e.wrapRunError("download", url, res, err)
	}
	return nil
}

// ListProfileItems runs `yt-dlp --flat-playlist --dump-json profileURL`
func (e *YTDLPExtractor) ListProfileItems(ctx context.Context, profileURL string) ([]model.ProfileItem, error) {
	profile, err := platform.ProfileNameFromURL(profileURL)
	if err != nil {
		return nil, err
	}

	cmd, err := e.command()
	if err != nil {
		return nil, err
	}

	res, err := cmd.FlatPlaylist().DumpJSON().Run(ctx, profileURL)
	if err != nil {
		return nil, e.wrapRunError("list profile", profileURL, res, err)
	}

	items, malformed, err := platform.ParseFlatPlaylist(res.Stdout, profile)
	if err != nil {
		return nil, fmt.Errorf("list profile %s: %w", profileURL, err)
	}
	if malformed > 0 {
		e.logger.Warn("skipped malformed listing lines", "profile", profile, "lines", malformed)
	}
	e.logger.Debug("profile listed", "profile", profile, "items", len(items))
	return items, nil
}

// CheckAvailable verifies that the executable can be located
func (e *YTDLPExtractor) CheckAvailable() error {
	_, err := e.lookPath()
	return err
}

func (e *YTDLPExtractor) command() (*ytdlp.Command, error) {
	path, err := e.lookPath()
	if err != nil {
		return nil, err
	}
	return ytdlp.New().SetExecutable(path), nil
}

func (e *YTDLPExtractor) lookPath() (string, error) {
	path, err := exec.LookPath(e.executable)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrToolNotFound, e.executable, err)
	}
	return path, nil
}

func (e *YTDLPExtractor) wrapRunError(op, url string, res *ytdlp.Result, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", op, url, err)
	}
	stderr := ""
	if res != nil {
		stderr = strings.TrimSpace(res.Stderr)
		if len(stderr) > maxStderrInMessage {
			stderr = stderr[len(stderr)-maxStderrInMessage:]
		}
	}
	e.logger.Warn("yt-dlp failed", "op", op, "url", url, "error", err)
	return fmt.Errorf("%w: %s %s: %v: %s", ErrExtractorFailed, op, url, err, stderr)
}
