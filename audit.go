package main

import (
	"errors"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
)

// HookDiffKind classifies a hook that differs between the tracked hooks
// directory and the active hooks directory.
type HookDiffKind int

const (
	// HookMissingInTarget means the hook is declared in the tracked
	// directory but not installed in the active one.
	HookMissingInTarget HookDiffKind = iota
	// HookMissingInSource means the hook is installed in the active
	// directory but not declared in the tracked one.
	HookMissingInSource
	// HookContentMismatch means the hook exists in both directories with
	// different contents.
	HookContentMismatch
)

// HookDiff is one mismatched or missing hook file.
type HookDiff struct {
	Name string
	Kind HookDiffKind
}

// BranchSync describes one local branch relative to its remote-tracking
// branch. NoUpstream is set when the branch has no usable upstream; the
// counts are meaningless in that case.
type BranchSync struct {
	Name       string
	Upstream   string
	Ahead      int
	Behind     int
	NoUpstream bool
}

// RepoReport is the audit outcome for a single repository. It is assembled
// once and never mutated afterwards. Err carries per-check failures (remote
// missing, fetch failure, unreadable state); the remaining fields are still
// populated as far as the checks got.
type RepoReport struct {
	Path       string
	HeadBranch string
	RemoteURL  string
	Dirty      bool
	StashCount int
	Branches   []BranchSync
	HookDiffs  []HookDiff
	Err        error
}

// Stashed reports whether at least one stash entry exists.
func (r RepoReport) Stashed() bool {
	return r.StashCount > 0
}

// Ahead returns the ahead count of the checked-out branch, or 0 if HEAD is
// detached or has no upstream.
func (r RepoReport) Ahead() int {
	for _, b := range r.Branches {
		if b.Name == r.HeadBranch && !b.NoUpstream {
			return b.Ahead
		}
	}
	return 0
}

// Behind returns the behind count of the checked-out branch, or 0 if HEAD is
// detached or has no upstream.
func (r RepoReport) Behind() int {
	for _, b := range r.Branches {
		if b.Name == r.HeadBranch && !b.NoUpstream {
			return b.Behind
		}
	}
	return 0
}

// Clean reports whether the audit found nothing worth showing.
func (r RepoReport) Clean() bool {
	if r.Dirty || r.StashCount > 0 || len(r.HookDiffs) > 0 || r.Err != nil {
		return false
	}
	for _, b := range r.Branches {
		if !b.NoUpstream && (b.Ahead > 0 || b.Behind > 0) {
			return false
		}
	}
	return true
}

var errNotARepository = errors.New("not a git repository")

// RepoStateError reports a repository whose object database or working tree
// state could not be read.
type RepoStateError struct {
	Path string
	Err  error
}

func (e *RepoStateError) Error() string {
	return fmt.Sprintf("unreadable repository state at %s: %v", e.Path, e.Err)
}

func (e *RepoStateError) Unwrap() error { return e.Err }

// RemoteNotFoundError reports that the named remote is not configured.
type RemoteNotFoundError struct {
	Remote string
}

func (e *RemoteNotFoundError) Error() string {
	return fmt.Sprintf("remote %q not configured", e.Remote)
}

// FetchError reports a failed fetch against a configured remote.
type FetchError struct {
	Remote string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch from %q failed: %v", e.Remote, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// AuditOptions controls a single repository audit.
type AuditOptions struct {
	Remote       string
	Fetch        bool
	FetchTimeout time.Duration
}

const defaultFetchTimeout = 60 * time.Second

func (o AuditOptions) remoteName() string {
	if o.Remote != "" {
		return o.Remote
	}
	return defaultRemoteName
}

// CheckRepo audits the repository at path. Failure to open the repository
// returns an error and no report. Failures of individual checks after a
// successful open are attached to the report's Err field and do not stop the
// other checks from running.
func CheckRepo(path string, opts AuditOptions) (RepoReport, error) {
	repo, gitDir, err := openRepo(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return RepoReport{}, errNotARepository
		}
		return RepoReport{}, &RepoStateError{Path: path, Err: err}
	}

	report := RepoReport{Path: path}
	attach := func(err error) {
		report.Err = errors.Join(report.Err, err)
	}

	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		report.HeadBranch = head.Name().Short()
	}

	dirty, err := checkUncommitted(repo)
	if err != nil {
		attach(&RepoStateError{Path: path, Err: err})
	} else {
		report.Dirty = dirty
	}

	stashed, err := checkStashed(gitDir)
	if err != nil {
		attach(&RepoStateError{Path: path, Err: err})
	} else {
		report.StashCount = stashed
	}

	diffs, err := checkHooks(path, gitDir)
	if err != nil {
		attach(err)
	} else {
		report.HookDiffs = diffs
	}

	report.RemoteURL = remoteURL(repo, opts.remoteName())

	branches, err := syncWithRemote(repo, opts)
	report.Branches = branches
	if err != nil {
		attach(err)
	}

	return report, nil
}
