// Package cli implements the non-interactive tokkit command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUsage is returned for malformed command lines
var ErrUsage = errors.New("usage error")

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run dispatches a subcommand. Only usage and configuration problems are
// returned as errors; failed downloads are reported in the summary.
func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	switch args[0] {
	case "run":
		return runDownload(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

func printRootUsage() {
	fmt.Fprintln(stdout, "tokkit: download TikTok videos in full quality with metadata")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintln(stdout, "  tokkit run <url> [-o|--output <folder>] [--config <path>]")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "A profile URL (https://www.tiktok.com/@name) or @name downloads every")
	fmt.Fprintln(stdout, "video not yet in the profile history. Any other URL downloads one video")
	fmt.Fprintln(stdout, "into the output folder (default: your Downloads folder).")
}
