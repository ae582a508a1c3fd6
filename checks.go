package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// checkUncommitted reports whether the working tree or index has changes
// relative to HEAD. Untracked files count; ignored files do not.
func checkUncommitted(repo *git.Repository) (bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}

// checkStashed counts stash entries by reading the stash reflog under the
// common git directory. go-git exposes no stash API, so this reads the same
// files git itself maintains: one reflog line per entry, and a bare
// refs/stash with no reflog means a single entry.
func checkStashed(gitDir string) (int, error) {
	data, err := os.ReadFile(filepath.Join(gitDir, "logs", "refs", "stash"))
	if err == nil {
		count := 0
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				count++
			}
		}
		return count, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return 0, err
	}

	_, err = os.Stat(filepath.Join(gitDir, "refs", "stash"))
	if err == nil {
		return 1, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	return 0, err
}
