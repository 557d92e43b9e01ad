package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type summary struct {
	profile    string
	folder     string
	listed     int
	skipped    int
	downloaded int
	failed     []string
	err        error
}

func printSummary(s summary) {
	title := "Download finished"
	if s.profile != "" {
		title = fmt.Sprintf("%s: @%s", title, s.profile)
	}
	fmt.Fprintln(stdout, titleStyle.Render(title))

	if s.err != nil {
		fmt.Fprintln(stdout, failureStyle.Render(fmt.Sprintf("Update failed: %v", s.err)))
	}
	if s.listed > 0 {
		fmt.Fprintln(stdout, mutedStyle.Render(fmt.Sprintf("listed %d, already downloaded %d", s.listed, s.skipped)))
	}
	fmt.Fprintln(stdout, mutedStyle.Render(fmt.Sprintf("downloaded %d into %s", s.downloaded, s.folder)))

	if len(s.failed) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, failureStyle.Render("Failed to download the following videos:"))
		for _, url := range s.failed {
			fmt.Fprintln(stdout, url)
		}
	}
}
