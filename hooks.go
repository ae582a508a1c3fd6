package main

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	trackedHooksDirName = ".githooks"
	hookSampleSuffix    = ".sample"
)

// checkHooks compares the tracked hooks directory (<worktree>/.githooks)
// against the active one (<gitdir>/hooks). Files ending in .sample are
// ignored. A missing directory simply contributes no candidates. Results are
// sorted by hook name.
func checkHooks(worktreeDir string, gitDir string) ([]HookDiff, error) {
	trackedDir := filepath.Join(worktreeDir, trackedHooksDirName)
	activeDir := filepath.Join(gitDir, "hooks")

	tracked, err := hookFilenamesIn(trackedDir)
	if err != nil {
		return nil, err
	}
	active, err := hookFilenamesIn(activeDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tracked)+len(active))
	for name := range tracked {
		names = append(names, name)
	}
	for name := range active {
		if _, ok := tracked[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var diffs []HookDiff
	for _, name := range names {
		_, inTracked := tracked[name]
		_, inActive := active[name]
		switch {
		case inTracked && !inActive:
			diffs = append(diffs, HookDiff{Name: name, Kind: HookMissingInTarget})
		case !inTracked && inActive:
			diffs = append(diffs, HookDiff{Name: name, Kind: HookMissingInSource})
		default:
			trackedSum, err := digestFile(filepath.Join(trackedDir, name))
			if err != nil {
				return nil, err
			}
			activeSum, err := digestFile(filepath.Join(activeDir, name))
			if err != nil {
				return nil, err
			}
			if trackedSum != activeSum {
				diffs = append(diffs, HookDiff{Name: name, Kind: HookContentMismatch})
			}
		}
	}
	return diffs, nil
}

// hookFilenamesIn lists hook candidates in dir, skipping subdirectories and
// .sample files. A missing directory yields an empty set.
func hookFilenamesIn(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("list hooks in %s: %w", dir, err)
	}
	names := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, hookSampleSuffix) {
			continue
		}
		names[name] = struct{}{}
	}
	return names, nil
}

// digestFile returns the SHA-256 digest of the file's contents.
func digestFile(path string) ([sha256.Size]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return [sha256.Size]byte{}, fmt.Errorf("read hook %s: %w", path, err)
	}
	return sha256.Sum256(data), nil
}
