// Package mux embeds item metadata into downloaded video containers with ffmpeg.
package mux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ytget/tokkit/internal/model"
	"github.com/ytget/tokkit/internal/platform"
)

// FFmpeg constants
const (
	FFmpegCommand = "ffmpeg"
	CodecCopy     = "copy"
	MetaSuffix    = "_meta"

	// Fallbacks for metadata the extractor did not report
	UnknownTitle    = "Unknown Title"
	UnknownUploader = "Unknown Uploader"
	UnknownDate     = "Unknown Date"

	// Limit for ffmpeg stderr kept in errors
	maxStderrInError = 512
)

var (
	// ErrSourceMissing is returned when the video to tag does not exist.
	ErrSourceMissing = errors.New("video file not found")
	// ErrToolNotFound is returned when ffmpeg cannot be located.
	ErrToolNotFound = errors.New("ffmpeg executable not found")
	// ErrMuxFailed is returned when ffmpeg could not rewrite the container.
	// The original file is left untouched.
	ErrMuxFailed = errors.New("metadata embedding failed")
)

// Muxer rewrites a video container with title, artist, description and date tags.
type Muxer struct {
	ffmpegPath string
	logger     *slog.Logger
}

// NewMuxer creates a muxer running the given ffmpeg executable. An empty path
// means ffmpeg from PATH.
func NewMuxer(ffmpegPath string, logger *slog.Logger) *Muxer {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Muxer{ffmpegPath: ffmpegPath, logger: logger}
}

// Executable returns the ffmpeg path the muxer runs
func (m *Muxer) Executable() string {
	return m.ffmpegPath
}

// Embed writes meta into videoPath. The tagged copy is produced next to the
// source and renamed over it only when ffmpeg succeeds.
func (m *Muxer) Embed(ctx context.Context, videoPath string, meta *model.Metadata) error {
	info, err := os.Stat(videoPath)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrSourceMissing, videoPath)
	}

	tmpPath := TempPath(videoPath)
	args := BuildFFmpegArgs(videoPath, tmpPath, meta)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, m.ffmpegPath, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v: %s", ErrMuxFailed, videoPath, err, truncate(stderr.String()))
	}

	if err := os.Rename(tmpPath, videoPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: replace %s: %v", ErrMuxFailed, videoPath, err)
	}

	m.logger.Info("metadata embedded", "path", videoPath)
	return nil
}

// CheckAvailable verifies that the ffmpeg executable can be located
func (m *Muxer) CheckAvailable() error {
	if _, err := exec.LookPath(m.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolNotFound, m.ffmpegPath, err)
	}
	return nil
}

// TempPath returns the sibling path ffmpeg writes the tagged copy to
func TempPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, platform.VideoFileExt) + MetaSuffix + platform.VideoFileExt
}

// BuildFFmpegArgs builds the ffmpeg arguments for a stream-copy metadata rewrite
func BuildFFmpegArgs(inputPath, outputPath string, meta *model.Metadata) []string {
	title, uploader, description, date := UnknownTitle, UnknownUploader, "", UnknownDate
	if meta != nil {
		title = orDefault(meta.Title, UnknownTitle)
		uploader = orDefault(meta.Uploader, UnknownUploader)
		description = strings.ReplaceAll(meta.Description, "\n", " ")
		date = orDefault(meta.UploadDate, UnknownDate)
	}

	return []string{
		"-y",
		"-i", inputPath,
		"-metadata", "title=" + title,
		"-metadata", "artist=" + uploader,
		"-metadata", "description=" + description,
		"-metadata", "date=" + date,
		"-codec", CodecCopy,
		outputPath,
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderrInError {
		return s[len(s)-maxStderrInError:]
	}
	return s
}
