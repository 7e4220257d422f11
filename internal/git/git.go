package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gorewood/nbjekyll/internal/output"
)

// Run executes git with args and returns its trimmed stdout.
// Failures are *output.ExitError with ExitSystemError.
func Run(args ...string) (string, error) {
	return RunContext(context.Background(), args...)
}

// RunContext is Run with a context.
func RunContext(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError("git not found: ensure git is installed and in PATH")
		}

		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsRepo reports whether the current directory is inside a git repository.
func IsRepo() bool {
	_, err := Run("rev-parse", "--git-dir")
	return err == nil
}

// RepoRoot returns the top-level directory of the current repository.
func RepoRoot() (string, error) {
	root, err := Run("rev-parse", "--show-toplevel")
	if err != nil {
		return "", output.NewSystemErrorWithCause("not in a git repository", err)
	}
	return root, nil
}

// HEAD returns the full SHA of HEAD.
func HEAD() (string, error) {
	sha, err := Run("rev-parse", "HEAD")
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to get HEAD", err)
	}
	return sha, nil
}

// HooksDir returns the absolute path of the repository's hooks directory,
// honoring core.hooksPath.
func HooksDir() (string, error) {
	dir, err := Run("rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", output.NewSystemErrorWithCause("not in a git repository", err)
	}
	if filepath.IsAbs(dir) {
		return dir, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", output.NewSystemErrorWithCause("resolving hooks directory", err)
	}
	return abs, nil
}
