package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckUncommitted(t *testing.T) {
	dir, repo := initTestRepo(t)

	dirty, err := checkUncommitted(repo)
	if err != nil {
		t.Fatalf("checkUncommitted: %v", err)
	}
	if dirty {
		t.Fatalf("expected fresh repo to be clean")
	}

	// Working tree change to a tracked file.
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("edited\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	dirty, err = checkUncommitted(repo)
	if err != nil {
		t.Fatalf("checkUncommitted: %v", err)
	}
	if !dirty {
		t.Fatalf("expected modified tracked file to be dirty")
	}

	// Staging it keeps the repo dirty.
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add("README.md"); err != nil {
		t.Fatalf("add: %v", err)
	}
	dirty, err = checkUncommitted(repo)
	if err != nil {
		t.Fatalf("checkUncommitted: %v", err)
	}
	if !dirty {
		t.Fatalf("expected staged change to be dirty")
	}
}

func TestCheckUncommitted_UntrackedFileCounts(t *testing.T) {
	dir, repo := initTestRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	dirty, err := checkUncommitted(repo)
	if err != nil {
		t.Fatalf("checkUncommitted: %v", err)
	}
	if !dirty {
		t.Fatalf("expected untracked file to be dirty")
	}
}

func TestCheckStashed_NoStash(t *testing.T) {
	dir, _ := initTestRepo(t)
	count, err := checkStashed(filepath.Join(dir, ".git"))
	if err != nil {
		t.Fatalf("checkStashed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 stash entries, got %d", count)
	}
}

func TestCheckStashed_CountsReflogLines(t *testing.T) {
	dir, _ := initTestRepo(t)
	gitDir := filepath.Join(dir, ".git")
	writeStashReflog(t, gitDir, 2)

	count, err := checkStashed(gitDir)
	if err != nil {
		t.Fatalf("checkStashed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 stash entries, got %d", count)
	}
}

func TestCheckStashed_BareStashRefMeansOne(t *testing.T) {
	dir, _ := initTestRepo(t)
	gitDir := filepath.Join(dir, ".git")
	refDir := filepath.Join(gitDir, "refs")
	if err := os.MkdirAll(refDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(refDir, "stash"), []byte("1111111111111111111111111111111111111111\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	count, err := checkStashed(gitDir)
	if err != nil {
		t.Fatalf("checkStashed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stash entry, got %d", count)
	}
}
