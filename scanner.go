package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// ScanResult is one fleet entry: either a report or the error that kept the
// repository from being audited at all.
type ScanResult struct {
	Path   string
	Report RepoReport
	Err    error
}

// checkRepo is swappable so scanner tests can run without real repositories.
var checkRepo = CheckRepo

// ScanFleet audits every repository directly under root. Non-repository
// children are skipped. A failing repository becomes an error entry and
// never aborts its siblings. Results keep directory-listing order regardless
// of how many audits run concurrently; jobs <= 1 means sequential.
func ScanFleet(root string, opts AuditOptions, jobs int) ([]ScanResult, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}

	if jobs < 1 {
		jobs = 1
	}
	results := make([]*ScanResult, len(dirs))

	var group errgroup.Group
	group.SetLimit(jobs)
	for i, dir := range dirs {
		group.Go(func() error {
			report, err := checkRepo(dir, opts)
			if errors.Is(err, errNotARepository) {
				return nil
			}
			if err != nil {
				results[i] = &ScanResult{Path: dir, Err: err}
				return nil
			}
			results[i] = &ScanResult{Path: dir, Report: report}
			return nil
		})
	}
	// Audits never return through the group; failures live in their entries.
	_ = group.Wait()

	out := make([]ScanResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}
