package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func driftwatchHuhTheme() *huh.Theme {
	t := *huh.ThemeCharm()
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(lipgloss.Color("#7D56F4"))
	t.Focused.Next = t.Focused.FocusedButton
	return &t
}

func newInitForm(remote *string, root *string, fetch *bool, jobs *string) *huh.Form {
	remoteInput := huh.NewInput().
		Title("Remote name").
		Description("Remote each repository is audited against.").
		Placeholder(defaultRemoteName).
		Value(remote)

	rootInput := huh.NewInput().
		Title("Fleet directory").
		Description("Directory whose immediate children are your clones. Empty means the current directory.").
		Value(root)

	fetchConfirm := huh.NewConfirm().
		Title("Fetch before comparing?").
		Description("Fetching keeps ahead/behind counts accurate but needs network access.").
		Affirmative("Yes").
		Negative("No").
		Value(fetch)

	jobsInput := huh.NewInput().
		Title("Concurrent audits").
		Description("How many repositories to audit at once.").
		Placeholder("1").
		Validate(validateJobs).
		Value(jobs)

	return huh.NewForm(
		huh.NewGroup(remoteInput, rootInput, fetchConfirm, jobsInput),
	).WithTheme(driftwatchHuhTheme())
}

func validateJobs(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

func runInitForm() error {
	remote := defaultRemoteName
	root := ""
	fetch := true
	jobs := ""
	if cfg, err := LoadConfig(); err == nil {
		remote = cfg.Remote
		root = cfg.Root
		if cfg.Fetch != nil {
			fetch = *cfg.Fetch
		}
		if cfg.Jobs > 0 {
			jobs = strconv.Itoa(cfg.Jobs)
		}
	}

	if err := newInitForm(&remote, &root, &fetch, &jobs).Run(); err != nil {
		return err
	}

	cfg := Config{
		Remote: strings.TrimSpace(remote),
		Root:   strings.TrimSpace(root),
		Fetch:  &fetch,
	}
	if n, err := strconv.Atoi(strings.TrimSpace(jobs)); err == nil && n > 0 {
		cfg.Jobs = n
	}
	return SaveConfig(cfg)
}
