package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ytget/tokkit/internal/platform"
)

// AppName names the per-user config and data folder
const AppName = "tokkit"

// DefaultConfigFile is looked up in the working directory when no path is given
const DefaultConfigFile = "config.yaml"

// Config is the file-based configuration shared by the desktop app and the CLI.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Tools    ToolsConfig    `yaml:"tools"`
	Download DownloadConfig `yaml:"download"`
	Queue    QueueConfig    `yaml:"queue"`
	UI       UIConfig       `yaml:"ui"`
	Events   EventsConfig   `yaml:"events"`
	LogLevel string         `yaml:"log_level"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres"
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type ToolsConfig struct {
	YTDLP  string `yaml:"ytdlp"`
	FFmpeg string `yaml:"ffmpeg"`
}

type DownloadConfig struct {
	Format    string        `yaml:"format"`
	ItemDelay time.Duration `yaml:"item_delay"`
	VideosDir string        `yaml:"videos_dir"`
}

type QueueConfig struct {
	StallTimeout time.Duration `yaml:"stall_timeout"`
}

type UIConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

type EventsConfig struct {
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// Enabled reports whether completion events should be published
func (r RabbitMQConfig) Enabled() bool {
	return r.URL != ""
}

// Load reads the YAML file at path, expanding ${VAR} references from the
// environment and an optional .env file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := newConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default durations. They are set before decoding so an explicit 0 in the
// file disables pacing or the stall timeout.
const (
	DefaultItemDelay    = 500 * time.Millisecond
	DefaultStallTimeout = 2 * time.Hour
)

func newConfig() Config {
	var cfg Config
	cfg.Download.ItemDelay = DefaultItemDelay
	cfg.Queue.StallTimeout = DefaultStallTimeout
	return cfg
}

func (c *Config) setDefaults() error {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		dir, err := DataDir()
		if err != nil {
			return err
		}
		c.Database.DSN = filepath.Join(dir, "profiles.db")
	}
	if c.Tools.YTDLP == "" {
		c.Tools.YTDLP = "yt-dlp"
	}
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = "ffmpeg"
	}
	if c.Download.Format == "" {
		c.Download.Format = "bestvideo+bestaudio/best"
	}
	if c.Download.VideosDir == "" {
		videos, err := platform.GetVideosDir()
		if err != nil {
			return fmt.Errorf("resolve videos folder: %w", err)
		}
		c.Download.VideosDir = videos
	}
	if c.UI.RefreshInterval == 0 {
		c.UI.RefreshInterval = 30 * time.Second
	}
	if c.Events.RabbitMQ.Exchange == "" {
		c.Events.RabbitMQ.Exchange = AppName
	}
	if c.Events.RabbitMQ.RoutingKey == "" {
		c.Events.RabbitMQ.RoutingKey = "profile.completed"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
	}
	if c.Download.ItemDelay < 0 {
		return fmt.Errorf("download.item_delay must not be negative")
	}
	if c.Queue.StallTimeout < 0 {
		return fmt.Errorf("queue.stall_timeout must not be negative")
	}
	if c.UI.RefreshInterval < 0 {
		return fmt.Errorf("ui.refresh_interval must not be negative")
	}
	return nil
}

// DataDir returns the per-user folder holding the local database
func DataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config folder: %w", err)
	}
	return filepath.Join(base, AppName), nil
}
