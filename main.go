package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"fyne.io/fyne/v2/app"

	"github.com/ytget/tokkit/internal/config"
	"github.com/ytget/tokkit/internal/download"
	"github.com/ytget/tokkit/internal/events"
	"github.com/ytget/tokkit/internal/mux"
	"github.com/ytget/tokkit/internal/queue"
	"github.com/ytget/tokkit/internal/scheduler"
	"github.com/ytget/tokkit/internal/store"
	"github.com/ytget/tokkit/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const AppID = "com.ytget.tokkit"

type publisher interface {
	queue.Publisher
	Close() error
}

func main() {
	configPath := flag.String("config", config.DefaultConfigFile, "config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)
	logger.Info("starting", "app", config.AppName, "version", version)

	ctx := context.Background()
	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := store.Migrate(ctx, db, logger); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	repo := store.NewRepository(db)

	extractor := download.NewYTDLPExtractor(cfg.Tools.YTDLP, cfg.Download.Format, logger)
	muxer := mux.NewMuxer(cfg.Tools.FFmpeg, logger)
	downloadSvc := download.NewService(extractor, muxer, download.Options{
		VideosDir: cfg.Download.VideosDir,
		ItemDelay: cfg.Download.ItemDelay,
		Logger:    logger,
	})
	if err := downloadSvc.CheckDependencies(); err != nil {
		logger.Warn("external tools missing, downloads will fail", "error", err)
	}

	var pub publisher = events.Noop{}
	if cfg.Events.RabbitMQ.Enabled() {
		mq, err := events.NewRabbitMQ(events.Config{
			URL:        cfg.Events.RabbitMQ.URL,
			Exchange:   cfg.Events.RabbitMQ.Exchange,
			RoutingKey: cfg.Events.RabbitMQ.RoutingKey,
			QueueName:  cfg.Events.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Warn("completion events disabled", "error", err)
		} else {
			pub = mq
		}
	}
	defer pub.Close()

	runner := queue.NewRunner(downloadSvc, repo, pub, queue.Options{
		StallTimeout: cfg.Queue.StallTimeout,
		Logger:       logger,
	})
	runCtx, stopRunner := context.WithCancel(ctx)
	go func() {
		if err := runner.Run(runCtx); err != nil {
			logger.Error("update runner failed", "error", err)
		}
	}()

	autoUpdate := scheduler.New(repo, runner, logger)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewAppTheme())
	settings := config.NewSettings(myApp)

	myWindow := myApp.NewWindow(ui.WindowTitle)
	myWindow.Resize(settings.GetWindowSize())

	root := ui.NewRootUI(myApp, myWindow, ui.Deps{
		Queue:      runner,
		Scheduler:  autoUpdate,
		Profiles:   repo,
		Downloader: downloadSvc,
		Settings:   settings,
		StopQueue: func() {
			stopRunner()
			<-runner.Done()
		},
		RefreshInterval: cfg.UI.RefreshInterval,
		Logger:          logger,
	})
	root.Start()

	myWindow.ShowAndRun()
	logger.Info("stopped")
}
