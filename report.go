package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF7DB")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
	repoHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	conditionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("251"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	secondaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// renderScanResults renders one block per repository with something to
// report. Clean repositories produce no output at all.
func renderScanResults(results []ScanResult) string {
	var b strings.Builder
	for _, result := range results {
		block := renderScanResult(result)
		if block == "" {
			continue
		}
		b.WriteString(block)
	}
	return b.String()
}

func renderScanResult(result ScanResult) string {
	if result.Err != nil {
		var b strings.Builder
		b.WriteString(repoHeader(result.Path, ""))
		b.WriteString("\n")
		b.WriteString("    " + errorStyle.Render(fmt.Sprintf("Audit failed: %v", result.Err)))
		b.WriteString("\n")
		return b.String()
	}

	lines := reportLines(result.Report)
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(repoHeader(result.Path, result.Report.RemoteURL))
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString("    " + line)
		b.WriteString("\n")
	}
	return b.String()
}

// reportLines returns one line per divergence condition found.
func reportLines(report RepoReport) []string {
	var lines []string

	if report.Dirty {
		lines = append(lines, conditionStyle.Render("Has uncommitted changes"))
	}
	if report.StashCount > 0 {
		lines = append(lines, conditionStyle.Render(fmt.Sprintf("Has %d stashed %s", report.StashCount, pluralize("change", report.StashCount))))
	}

	for _, branch := range report.Branches {
		if branch.NoUpstream {
			continue
		}
		if branch.Ahead > 0 {
			lines = append(lines, conditionStyle.Render(fmt.Sprintf(
				"Branch %s is ahead of %s by %d %s",
				branch.Name, branch.Upstream, branch.Ahead, pluralize("commit", branch.Ahead))))
		}
		if branch.Behind > 0 {
			lines = append(lines, conditionStyle.Render(fmt.Sprintf(
				"Branch %s is behind %s by %d %s",
				branch.Name, branch.Upstream, branch.Behind, pluralize("commit", branch.Behind))))
		}
	}

	for _, diff := range report.HookDiffs {
		lines = append(lines, conditionStyle.Render(hookDiffLine(diff)))
	}

	if report.Err != nil {
		lines = append(lines, errorStyle.Render(fmt.Sprintf("Check failed: %v", report.Err)))
	}
	return lines
}

func hookDiffLine(diff HookDiff) string {
	switch diff.Kind {
	case HookMissingInTarget:
		return fmt.Sprintf("Hook %q only appears in %s", diff.Name, trackedHooksDirName)
	case HookMissingInSource:
		return fmt.Sprintf("Hook %q only appears in .git/hooks", diff.Name)
	default:
		return fmt.Sprintf("Hook %q is different in %s and .git/hooks", diff.Name, trackedHooksDirName)
	}
}

// repoHeader renders the repository path, hyperlinked to its remote URL for
// terminals that support OSC 8.
func repoHeader(path string, remoteURL string) string {
	header := repoHeaderStyle.Render(path + ":")
	if remoteURL != "" && !hyperlinksDisabled() {
		header = termenv.Hyperlink(webURLForRemote(remoteURL), header)
	}
	return header
}

// webURLForRemote turns common ssh remote URLs into https ones so the
// hyperlink lands somewhere a browser can open.
func webURLForRemote(remoteURL string) string {
	url := strings.TrimSpace(remoteURL)
	if strings.HasPrefix(url, "git@") {
		if host, repoPath, ok := strings.Cut(strings.TrimPrefix(url, "git@"), ":"); ok {
			url = "https://" + host + "/" + repoPath
		}
	}
	url = strings.TrimSuffix(url, ".git")
	return url
}

func pluralize(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
