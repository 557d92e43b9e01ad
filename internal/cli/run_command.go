package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ytget/tokkit/internal/config"
	"github.com/ytget/tokkit/internal/download"
	"github.com/ytget/tokkit/internal/model"
	"github.com/ytget/tokkit/internal/mux"
	"github.com/ytget/tokkit/internal/platform"
)

// downloader is what the run command needs from the download service
type downloader interface {
	DownloadItem(ctx context.Context, url, outputDir string) (*model.Metadata, error)
	UpdateProfile(ctx context.Context, profile string) (*model.SweepReport, error)
	ProfileDir(profile string) string
	CheckDependencies() error
}

var newDownloader = func(cfg *config.Config, logger *slog.Logger) downloader {
	extractor := download.NewYTDLPExtractor(cfg.Tools.YTDLP, cfg.Download.Format, logger)
	muxer := mux.NewMuxer(cfg.Tools.FFmpeg, logger)
	return download.NewService(extractor, muxer, download.Options{
		VideosDir: cfg.Download.VideosDir,
		ItemDelay: cfg.Download.ItemDelay,
		Logger:    logger,
	})
}

type runOptions struct {
	url        string
	output     string
	configPath string
}

func parseRunArgs(args []string) (runOptions, error) {
	var opts runOptions
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.output, "o", "", "output folder for single videos (default: Downloads)")
	fs.StringVar(&opts.output, "output", "", "output folder for single videos (default: Downloads)")
	fs.StringVar(&opts.configPath, "config", config.DefaultConfigFile, "config file path")

	// flags may follow the URL
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return opts, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	if len(positional) != 1 {
		return opts, fmt.Errorf("%w: expected exactly one URL, got %d", ErrUsage, len(positional))
	}
	opts.url = strings.TrimSpace(positional[0])
	if !platform.IsValidInput(opts.url) {
		return opts, fmt.Errorf("%w: not a TikTok URL or @name: %s", ErrUsage, opts.url)
	}
	return opts, nil
}

func runDownload(args []string) error {
	opts, err := parseRunArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger(cfg.LogLevel, stderr)

	if opts.output == "" {
		opts.output, err = platform.GetHomeDownloadsDir()
		if err != nil {
			return fmt.Errorf("resolve downloads folder: %w", err)
		}
	}

	svc := newDownloader(cfg, logger)
	if err := svc.CheckDependencies(); err != nil {
		logger.Warn("dependency check failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum := execute(ctx, svc, opts, logger)
	if ctx.Err() != nil {
		fmt.Fprintln(stdout, "Download interrupted.")
		return nil
	}
	printSummary(sum)
	return nil
}

// execute sweeps a profile or downloads a single item
func execute(ctx context.Context, svc downloader, opts runOptions, logger *slog.Logger) summary {
	if platform.IsProfileHandle(opts.url) || platform.IsProfileURL(opts.url) {
		profile, err := platform.ProfileNameFromURL(opts.url)
		if err != nil {
			return summary{err: err}
		}
		logger.Info("detected a profile URL, downloading all missing videos", "profile", profile)

		report, err := svc.UpdateProfile(ctx, profile)
		sum := summary{profile: profile, folder: svc.ProfileDir(profile), err: err}
		if report != nil {
			sum.listed = report.Listed
			sum.skipped = report.AlreadyDownloaded
			sum.downloaded = len(report.Downloaded)
			sum.failed = report.Failed
		}
		return sum
	}

	sum := summary{folder: opts.output}
	meta, err := svc.DownloadItem(ctx, opts.url, opts.output)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("download failed", "url", opts.url, "error", err)
		}
		sum.failed = []string{opts.url}
		return sum
	}
	sum.profile = meta.Uploader
	sum.downloaded = 1
	return sum
}
