package main

import (
	"context"
	"errors"
	"sort"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// syncWithRemote fetches the configured remote and classifies every local
// branch against its remote-tracking branch. A missing remote or a failed
// fetch is returned as the error; branch statuses computed from the refs on
// disk are still returned alongside it, so the caller can render a partial
// report.
func syncWithRemote(repo *git.Repository, opts AuditOptions) ([]BranchSync, error) {
	remoteName := opts.remoteName()
	if _, err := repo.Remote(remoteName); err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			branches, _ := branchSyncStatuses(repo, remoteName)
			return branches, &RemoteNotFoundError{Remote: remoteName}
		}
		return nil, err
	}

	var fetchErr error
	if opts.Fetch {
		timeout := opts.FetchTimeout
		if timeout <= 0 {
			timeout = defaultFetchTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := fetchRemote(ctx, repo, remoteName); err != nil {
			fetchErr = &FetchError{Remote: remoteName, Err: err}
		}
	}

	branches, err := branchSyncStatuses(repo, remoteName)
	if err != nil {
		return branches, errors.Join(fetchErr, err)
	}
	return branches, fetchErr
}

// branchSyncStatuses walks every local branch. The upstream comes from the
// branch's own config; a branch without one, or whose remote-tracking ref
// was never fetched, is marked NoUpstream rather than reported as 0/0.
func branchSyncStatuses(repo *git.Repository, remoteName string) ([]BranchSync, error) {
	cfg, err := repo.Config()
	if err != nil {
		return nil, err
	}

	iter, err := repo.Branches()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var branches []BranchSync
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		tracking, ok := trackingRefName(cfg, name, remoteName)
		if !ok {
			branches = append(branches, BranchSync{Name: name, NoUpstream: true})
			return nil
		}
		trackRef, err := repo.Reference(tracking, true)
		if err != nil {
			branches = append(branches, BranchSync{Name: name, NoUpstream: true})
			return nil
		}
		ahead, behind, err := aheadBehind(repo, ref.Hash(), trackRef.Hash())
		if err != nil {
			return err
		}
		branches = append(branches, BranchSync{
			Name:     name,
			Upstream: tracking.Short(),
			Ahead:    ahead,
			Behind:   behind,
		})
		return nil
	})
	if err != nil {
		return branches, err
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Name < branches[j].Name
	})
	return branches, nil
}

// trackingRefName resolves the remote-tracking reference a branch is
// configured to follow, e.g. refs/remotes/origin/main.
func trackingRefName(cfg *gitconfig.Config, branch string, remoteName string) (plumbing.ReferenceName, bool) {
	bc, ok := cfg.Branches[branch]
	if !ok || bc.Merge == "" {
		return "", false
	}
	remote := bc.Remote
	if remote == "" {
		remote = remoteName
	}
	return plumbing.NewRemoteReferenceName(remote, bc.Merge.Short()), true
}

// aheadBehind counts commits reachable from local but not from upstream and
// vice versa. Each side excludes the other tip's entire ancestry, so a branch
// that merged the upstream in never recounts the merged commits. Unrelated
// histories count every commit on each side.
func aheadBehind(repo *git.Repository, local plumbing.Hash, upstream plumbing.Hash) (int, int, error) {
	if local == upstream {
		return 0, 0, nil
	}
	localCommit, err := repo.CommitObject(local)
	if err != nil {
		return 0, 0, err
	}
	upstreamCommit, err := repo.CommitObject(upstream)
	if err != nil {
		return 0, 0, err
	}

	upstreamSeen, err := reachableSet(upstreamCommit)
	if err != nil {
		return 0, 0, err
	}
	ahead, err := countCommitsExcluding(localCommit, upstreamSeen)
	if err != nil {
		return 0, 0, err
	}

	localSeen, err := reachableSet(localCommit)
	if err != nil {
		return 0, 0, err
	}
	behind, err := countCommitsExcluding(upstreamCommit, localSeen)
	if err != nil {
		return 0, 0, err
	}
	return ahead, behind, nil
}

// reachableSet collects every commit hash reachable from start.
func reachableSet(start *object.Commit) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)
	iter := object.NewCommitPreorderIter(start, nil, nil)
	defer iter.Close()

	err := iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}

// countCommitsExcluding counts commits reachable from start, skipping the
// excluded hashes and never walking through them.
func countCommitsExcluding(start *object.Commit, exclude map[plumbing.Hash]bool) (int, error) {
	iter := object.NewCommitPreorderIter(start, exclude, nil)
	defer iter.Close()

	count := 0
	err := iter.ForEach(func(*object.Commit) error {
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
