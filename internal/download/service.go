package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/ytget/tokkit/internal/history"
	"github.com/ytget/tokkit/internal/model"
	"github.com/ytget/tokkit/internal/mux"
	"github.com/ytget/tokkit/internal/platform"
)

// DefaultItemDelay is the pause between two item downloads of a sweep
const DefaultItemDelay = 500 * time.Millisecond

// Options configures a Service
type Options struct {
	// VideosDir is the parent folder of the per-profile folders
	VideosDir string
	// ItemDelay paces item downloads inside a sweep; zero disables pacing
	ItemDelay time.Duration
	Logger    *slog.Logger
}

// Service runs single-item downloads and profile sweeps
type Service struct {
	extractor Extractor
	muxer     Muxer
	videosDir string
	itemDelay time.Duration
	logger    *slog.Logger
}

// NewService creates a new download service
func NewService(extractor Extractor, muxer Muxer, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor: extractor,
		muxer:     muxer,
		videosDir: opts.VideosDir,
		itemDelay: opts.ItemDelay,
		logger:    logger.With("component", "download"),
	}
}

// ProfileDir returns the folder a profile's items are saved to
func (s *Service) ProfileDir(profile string) string {
	return platform.ProfileDir(s.videosDir, profile)
}

// VideosDir returns the parent folder of the profile folders
func (s *Service) VideosDir() string {
	return s.videosDir
}

// DownloadItem fetches metadata for url, downloads it into outputDir as
// <uploader>_<YYYYMMDD>_<id>.mp4 and embeds the metadata. The returned
// metadata is non-nil only when the item is complete on disk.
func (s *Service) DownloadItem(ctx context.Context, url, outputDir string) (*model.Metadata, error) {
	if err := platform.CreateDirectoryIfNotExists(outputDir); err != nil {
		return nil, fmt.Errorf("create output folder %s: %w", outputDir, err)
	}

	meta, err := s.extractor.FetchMetadata(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("skip %s: %w", url, err)
	}

	outputPath := filepath.Join(outputDir, platform.ItemBaseName(meta.Uploader, meta.UploadDate, meta.ID)+platform.VideoFileExt)
	s.logger.Info("downloading item", "url", url, "path", outputPath)

	if err := s.extractor.DownloadItem(ctx, url, outputPath); err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}

	if err := s.muxer.Embed(ctx, outputPath, meta); err != nil {
		if !errors.Is(err, mux.ErrSourceMissing) {
			return nil, fmt.Errorf("embed metadata %s: %w", url, err)
		}
		s.logger.Warn("metadata embedding skipped", "path", outputPath, "error", err)
	}

	return meta, nil
}

// UpdateProfile downloads every item of the profile the ledger does not hold
// yet. Item failures are collected in the report and written to the
// failed-items file; only a failure to list the profile fails the sweep.
func (s *Service) UpdateProfile(ctx context.Context, profile string) (*model.SweepReport, error) {
	dir := s.ProfileDir(profile)
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return nil, fmt.Errorf("create profile folder %s: %w", dir, err)
	}

	logger := s.logger.With("profile", profile)

	ledger, err := history.Load(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("load history for %s: %w", profile, err)
	}

	items, err := s.extractor.ListProfileItems(ctx, platform.ProfileURL(profile))
	if err != nil {
		return nil, fmt.Errorf("list profile %s: %w", profile, err)
	}

	report := &model.SweepReport{Profile: profile, Listed: len(items)}
	limiter := s.newLimiter()

	var interrupted error
	for _, item := range items {
		if ledger.Has(item.ID) {
			report.AlreadyDownloaded++
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			interrupted = err
			break
		}

		logger.Info("downloading new item", "url", item.URL)
		if _, err := s.DownloadItem(ctx, item.URL, dir); err != nil {
			if ctx.Err() != nil {
				interrupted = ctx.Err()
				break
			}
			logger.Warn("item failed", "url", item.URL, "error", err)
			report.Failed = append(report.Failed, item.URL)
			continue
		}

		if err := ledger.Append(item.ID); err != nil {
			logger.Error("failed to record item in history", "id", item.ID, "error", err)
			report.Failed = append(report.Failed, item.URL)
			continue
		}
		report.Downloaded = append(report.Downloaded, item.ID)
	}

	// written on interruption too so the file reflects this run
	if err := history.WriteFailed(dir, report.Failed); err != nil {
		logger.Error("failed to write failed-items file", "error", err)
	}
	if interrupted != nil {
		logger.Warn("profile sweep interrupted",
			"downloaded", len(report.Downloaded),
			"failed", len(report.Failed),
			"error", interrupted)
		return report, fmt.Errorf("sweep %s interrupted: %w", profile, interrupted)
	}

	logger.Info("profile sweep finished",
		"listed", report.Listed,
		"skipped", report.AlreadyDownloaded,
		"downloaded", len(report.Downloaded),
		"failed", len(report.Failed))
	return report, nil
}

func (s *Service) newLimiter() *rate.Limiter {
	if s.itemDelay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(s.itemDelay), 1)
}

// availabilityChecker is implemented by adapters that can report a missing tool
type availabilityChecker interface {
	CheckAvailable() error
}

// CheckDependencies reports the external tools that cannot be found
func (s *Service) CheckDependencies() error {
	var errs []error
	for _, c := range []any{s.extractor, s.muxer} {
		if checker, ok := c.(availabilityChecker); ok {
			if err := checker.CheckAvailable(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
