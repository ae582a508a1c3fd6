package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newRootCommand(args []string) *cobra.Command {
	var (
		remote  string
		jobs    int
		noFetch bool
	)
	root := &cobra.Command{
		Use:           "driftwatch [dir]",
		Short:         "Audit a directory of git clones for drift from their remotes",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			dir := ""
			if len(cmdArgs) == 1 {
				dir = cmdArgs[0]
			}
			opts, jobCount, root, err := resolveScanOptions(dir, remote, jobs, noFetch)
			if err != nil {
				return err
			}
			return runScan(cmd.OutOrStdout(), root, opts, jobCount)
		},
	}
	root.Flags().StringVar(&remote, "remote", "", "Remote name to audit against (default from config, then origin)")
	root.Flags().IntVar(&jobs, "jobs", 0, "Audit up to this many repositories concurrently")
	root.Flags().BoolVar(&noFetch, "no-fetch", false, "Skip the network fetch and audit against last-known remote state")

	root.AddCommand(
		newInitCommand(),
		newWatchCommand(),
		newVersionCommand(),
	)

	if len(args) > 1 {
		root.SetArgs(args[1:])
	}
	return root
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Open interactive configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInitForm()
		},
	}
}

func newWatchCommand() *cobra.Command {
	var (
		remote  string
		jobs    int
		noFetch bool
	)
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Interactive fleet view",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, cmdArgs []string) error {
			dir := ""
			if len(cmdArgs) == 1 {
				dir = cmdArgs[0]
			}
			opts, jobCount, root, err := resolveScanOptions(dir, remote, jobs, noFetch)
			if err != nil {
				return err
			}
			p := tea.NewProgram(newWatchModel(root, opts, jobCount))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "Remote name to audit against")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Audit up to this many repositories concurrently")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "Skip the network fetch")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the driftwatch version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), currentVersion())
			return nil
		},
	}
}

// resolveScanOptions layers flags over the config file over defaults.
func resolveScanOptions(dirArg string, remoteFlag string, jobsFlag int, noFetchFlag bool) (AuditOptions, int, string, error) {
	opts := AuditOptions{Remote: defaultRemoteName, Fetch: true}
	jobs := 1
	root := "."

	if cfg, err := LoadConfig(); err == nil {
		if cfg.Remote != "" {
			opts.Remote = cfg.Remote
		}
		if cfg.Root != "" {
			root = cfg.Root
		}
		if cfg.Fetch != nil {
			opts.Fetch = *cfg.Fetch
		}
		if cfg.Jobs > 0 {
			jobs = cfg.Jobs
		}
	}

	if remoteFlag != "" {
		opts.Remote = remoteFlag
	}
	if jobsFlag > 0 {
		jobs = jobsFlag
	}
	if noFetchFlag || fetchDisabledByEnv() {
		opts.Fetch = false
	}
	if dirArg != "" {
		root = dirArg
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return AuditOptions{}, 0, "", fmt.Errorf("resolve %s: %w", root, err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return AuditOptions{}, 0, "", fmt.Errorf("%s is not a directory", abs)
	}
	return opts, jobs, abs, nil
}

func runScan(out io.Writer, root string, opts AuditOptions, jobs int) error {
	fmt.Fprintln(out, bannerStyle.Render(fmt.Sprintf("driftwatch scanning repos in %s", root)))

	results, err := ScanFleet(root, opts, jobs)
	if err != nil {
		return err
	}

	rendered := renderScanResults(results)
	if rendered != "" {
		fmt.Fprint(out, rendered)
	}
	fmt.Fprintln(out, secondaryStyle.Render(fmt.Sprintf("Scanned %d repositories.", len(results))))
	return nil
}
