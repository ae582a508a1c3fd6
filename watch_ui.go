package main

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	uiview "driftwatch/ui"
)

var (
	selectorHeaderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	selectorNormalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("251"))
	selectorSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	selectorFailedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

type scanDoneMsg struct {
	results []ScanResult
	err     error
}

type watchModel struct {
	root     string
	opts     AuditOptions
	jobs     int
	spinner  spinner.Model
	scanning bool
	results  []ScanResult
	cursor   int
	detail   bool
	errMsg   string
}

func newWatchModel(root string, opts AuditOptions, jobs int) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	return watchModel{
		root:     root,
		opts:     opts,
		jobs:     jobs,
		spinner:  sp,
		scanning: true,
	}
}

func scanFleetCmd(root string, opts AuditOptions, jobs int) tea.Cmd {
	return func() tea.Msg {
		results, err := ScanFleet(root, opts, jobs)
		return scanDoneMsg{results: results, err: err}
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(scanFleetCmd(m.root, m.opts, m.jobs), m.spinner.Tick)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanDoneMsg:
		m.scanning = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.results = msg.results
		m.cursor = clampCursor(m.cursor, len(m.results))
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.detail {
				m.detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.detail && m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if !m.detail && m.cursor < len(m.results)-1 {
				m.cursor++
			}
		case "enter":
			if !m.detail && len(m.results) > 0 {
				m.detail = true
			}
		case "r":
			if !m.scanning {
				m.scanning = true
				m.detail = false
				return m, tea.Batch(scanFleetCmd(m.root, m.opts, m.jobs), m.spinner.Tick)
			}
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(bannerStyle.Render("driftwatch " + m.root))
	b.WriteString("\n\n")

	if m.scanning {
		b.WriteString(m.spinner.View())
		b.WriteString(" scanning...\n")
		return b.String()
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.results) == 0 {
		b.WriteString(secondaryStyle.Render("No repositories found."))
		b.WriteString("\n")
		return b.String()
	}

	if m.detail {
		b.WriteString(m.detailView())
		b.WriteString("\n")
		b.WriteString(secondaryStyle.Render("esc back  q quit"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(uiview.RenderFleetTable(fleetRows(m.results), m.cursor, watchStyles()))
	b.WriteString("\n")
	b.WriteString(secondaryStyle.Render("enter details  r rescan  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m watchModel) detailView() string {
	result := m.results[m.cursor]
	block := renderScanResult(result)
	if block == "" {
		return repoHeaderStyle.Render(result.Path+":") + "\n" +
			"    " + secondaryStyle.Render("Nothing to report.") + "\n"
	}
	return block
}

func fleetRows(results []ScanResult) []uiview.FleetRow {
	rows := make([]uiview.FleetRow, 0, len(results))
	for _, result := range results {
		branch := result.Report.HeadBranch
		if branch == "" {
			branch = "-"
		}
		rows = append(rows, uiview.BuildFleetRow(
			filepath.Base(result.Path),
			branch,
			result.Report.Dirty,
			result.Report.StashCount,
			result.Report.Ahead(),
			result.Report.Behind(),
			len(result.Report.HookDiffs),
			result.Err != nil || result.Report.Err != nil,
		))
	}
	return rows
}

func watchStyles() uiview.Styles {
	return uiview.Styles{
		Header:   func(s string) string { return selectorHeaderStyle.Render(s) },
		Normal:   func(s string) string { return selectorNormalStyle.Render(s) },
		Selected: func(s string) string { return selectorSelectedStyle.Render(s) },
		Failed:   func(s string) string { return selectorFailedStyle.Render(s) },
	}
}

func clampCursor(cursor int, count int) int {
	if count == 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor > count-1 {
		return count - 1
	}
	return cursor
}
