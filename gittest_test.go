package main

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var commitClock atomic.Int64

// testSignature returns a signature with a strictly increasing timestamp so
// otherwise identical commits never collide.
func testSignature() *object.Signature {
	offset := commitClock.Add(1)
	return &object.Signature{
		Name:  "tester",
		Email: "tester@example.com",
		When:  time.Unix(1700000000+offset, 0),
	}
}

// initTestRepo creates a repository with a single commit on main.
func initTestRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	return dir, initRepoAt(t, dir)
}

// initRepoAt creates a repository with a single commit on main at dir.
func initRepoAt(t *testing.T, dir string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.Main},
	})
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	commitFile(t, dir, repo, "README.md", "hello\n", "initial")
	return repo
}

func commitFile(t *testing.T, dir string, repo *git.Repository, name string, contents string, msg string) plumbing.Hash {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{Author: testSignature(), Committer: testSignature()})
	if err != nil {
		t.Fatalf("commit %s: %v", msg, err)
	}
	return hash
}

func addOriginRemote(t *testing.T, repo *git.Repository) {
	t.Helper()
	_, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"ssh://git@example.com/fleet/repo.git"},
	})
	if err != nil {
		t.Fatalf("create remote: %v", err)
	}
}

// setUpstream gives the branch an upstream config entry, the way
// `git branch --set-upstream-to` would.
func setUpstream(t *testing.T, repo *git.Repository, branch string, remote string) {
	t.Helper()
	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Branches[branch] = &gitconfig.Branch{
		Name:   branch,
		Remote: remote,
		Merge:  plumbing.NewBranchReferenceName(branch),
	}
	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("set config: %v", err)
	}
}

// setTrackingRef plants the remote-tracking ref a fetch would have written.
func setTrackingRef(t *testing.T, repo *git.Repository, remote string, branch string, hash plumbing.Hash) {
	t.Helper()
	name := plumbing.NewRemoteReferenceName(remote, branch)
	if err := repo.Storer.SetReference(plumbing.NewHashReference(name, hash)); err != nil {
		t.Fatalf("set tracking ref %s: %v", name, err)
	}
}

// commitMergeFile records a commit with explicit parents, the way a merge
// would, carrying one file change so the commit is never empty.
func commitMergeFile(t *testing.T, dir string, repo *git.Repository, name string, contents string, msg string, parents ...plumbing.Hash) plumbing.Hash {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author:    testSignature(),
		Committer: testSignature(),
		Parents:   parents,
	})
	if err != nil {
		t.Fatalf("merge commit %s: %v", msg, err)
	}
	return hash
}

func checkoutNewBranch(t *testing.T, repo *git.Repository, branch string, from plumbing.Hash) {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	err = wt.Checkout(&git.CheckoutOptions{
		Hash:   from,
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	})
	if err != nil {
		t.Fatalf("checkout -b %s: %v", branch, err)
	}
}

// writeStashReflog fabricates stash entries the same way git records them.
func writeStashReflog(t *testing.T, gitDir string, lines int) {
	t.Helper()
	logDir := filepath.Join(gitDir, "logs", "refs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		t.Fatalf("mkdir stash log dir: %v", err)
	}
	var data []byte
	for i := 0; i < lines; i++ {
		data = append(data, []byte("0000000000000000000000000000000000000000 1111111111111111111111111111111111111111 tester <tester@example.com> 1700000000 +0000\tWIP on main\n")...)
	}
	if err := os.WriteFile(filepath.Join(logDir, "stash"), data, 0o644); err != nil {
		t.Fatalf("write stash reflog: %v", err)
	}
}
