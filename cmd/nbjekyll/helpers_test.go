package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

const postNotebook = `{
 "cells": [
  {"cell_type": "raw", "metadata": {}, "source": "---\ntitle: Draft\nauthor: Me\ndate: 2021-03-04\nlast_modified_at: 2021-03-05\n---"},
  {"cell_type": "raw", "metadata": {}, "source": "<!-- aux -->"},
  {"cell_type": "markdown", "metadata": {}, "source": "Text"}
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}`

const plainNotebook = `{
 "cells": [{"cell_type": "markdown", "metadata": {}, "source": "no header"}],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 4
}`

// newWorkspace changes to a fresh directory with its own configuration
// directory and returns it.
func newWorkspace(t *testing.T) string {
	t.Helper()
	t.Setenv("NBJEKYLL_CONFIG_HOME", t.TempDir())
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// executeJSON runs args with --json and decodes stdout into v.
func executeJSON(t *testing.T, v any, args ...string) error {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--json"}, args...))
	err := cmd.ExecuteContext(context.Background())
	if decodeErr := json.Unmarshal(stdout.Bytes(), v); decodeErr != nil {
		t.Fatalf("output is not JSON: %v\nstdout: %s\nstderr: %s", decodeErr, stdout.String(), stderr.String())
	}
	return err
}

// runGit runs a git command in the given directory.
func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.CommandContext(context.Background(), "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}

// runGitOutput runs a git command and returns stdout.
func runGitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.CommandContext(context.Background(), "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git %v failed: %v", args, err)
	}
	return string(out)
}

// initRepo creates a git repository in dir.
func initRepo(t *testing.T, dir string) {
	t.Helper()
	runGit(t, dir, "init", "-q")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")
}
