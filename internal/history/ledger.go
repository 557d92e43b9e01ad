// Package history keeps the per-profile ledger of downloaded item ids and the
// failed-items file that sit next to the videos in each profile folder.
package history

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ytget/tokkit/internal/platform"
)

// File names inside a profile folder
const (
	LedgerFileName = "downloaded_videos.txt"
	FailedFileName = "failed_videos.txt"
)

// datePattern matches an 8-digit date segment delimited by '_' or the name bounds
var datePattern = regexp.MustCompile(`(^|_)(\d{8})(_|$)`)

// Ledger is the append-only record of item ids already downloaded for one profile.
type Ledger struct {
	dir    string
	path   string
	logger *slog.Logger

	mu      sync.Mutex
	entries []string
	known   map[string]bool
}

// Load reads the ledger in dir and reconciles it with the videos on disk. An id
// counts as downloaded only if a video file containing the id carries a valid
// YYYYMMDD segment; other ids are reported missing so they get downloaded again.
func Load(dir string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Ledger{
		dir:    dir,
		path:   filepath.Join(dir, LedgerFileName),
		logger: logger.With("ledger", dir),
		known:  make(map[string]bool),
	}

	ids, err := readLines(l.path)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return l, nil
	}

	videos, err := listVideoFiles(dir)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		if l.known[id] {
			continue
		}
		if l.hasValidFile(id, videos) {
			l.known[id] = true
			l.entries = append(l.entries, id)
		}
	}
	return l, nil
}

// hasValidFile checks the video files of the folder for one ledger id
func (l *Ledger) hasValidFile(id string, videos []string) bool {
	for _, name := range videos {
		if !strings.Contains(name, id) {
			continue
		}
		base := strings.TrimSuffix(name, platform.VideoFileExt)
		match := datePattern.FindStringSubmatch(base)
		if match == nil {
			l.logger.Debug("video file has no date segment, treating as missing", "file", name)
			continue
		}
		if !platform.IsValidUploadDate(match[2]) {
			l.logger.Info("video file contains an invalid date, treating as missing", "file", name)
			continue
		}
		return true
	}
	return false
}

// Has reports whether id is recorded and backed by a file on disk
func (l *Ledger) Has(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.known[id]
}

// Entries returns the reconciled ids in ledger order
func (l *Ledger) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of reconciled ids
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Append records id as downloaded. Call only after download and metadata
// embedding have both succeeded.
func (l *Ledger) Append(id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("empty item id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := platform.CreateDirectoryIfNotExists(l.dir); err != nil {
		return fmt.Errorf("create ledger dir %s: %w", l.dir, err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, platform.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", l.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(id + "\n"); err != nil {
		return fmt.Errorf("append to ledger %s: %w", l.path, err)
	}

	if !l.known[id] {
		l.known[id] = true
		l.entries = append(l.entries, id)
	}
	return nil
}

// WriteFailed overwrites the failed-items file of dir with urls. With no urls
// the file is removed so it only ever describes the latest run.
func WriteFailed(dir string, urls []string) error {
	path := filepath.Join(dir, FailedFileName)
	if len(urls) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove failed-items file %s: %w", path, err)
		}
		return nil
	}

	var b strings.Builder
	for _, u := range urls {
		b.WriteString(u)
		b.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), platform.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write failed-items file %s: %w", path, err)
	}
	return nil
}

// ReadFailed returns the URLs recorded by the last run in dir
func ReadFailed(dir string) ([]string, error) {
	return readLines(filepath.Join(dir, FailedFileName))
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// listVideoFiles returns names of regular .mp4 files directly inside dir
func listVideoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read profile folder %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.HasSuffix(e.Name(), platform.VideoFileExt) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
