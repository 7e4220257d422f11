package git

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorewood/nbjekyll/internal/output"
)

// StagedFiles returns the absolute paths of files added, copied, modified
// or renamed in the index that match patterns.
func StagedFiles(ctx context.Context, patterns []string) ([]string, error) {
	return listFiles(ctx, patterns, "diff", "--cached", "--name-only", "--diff-filter=ACMR", "-z")
}

// CommittedFiles returns the absolute paths of files that commit added,
// copied, modified or renamed and that match patterns.
func CommittedFiles(ctx context.Context, commit string, patterns []string) ([]string, error) {
	if commit == "" {
		commit = "HEAD"
	}
	return listFiles(ctx, patterns,
		"diff-tree", "--root", "--no-commit-id", "--name-only", "-r", "--diff-filter=ACMR", "-z", commit)
}

// Add stages paths.
func Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, paths...)
	if _, err := RunContext(ctx, args...); err != nil {
		return output.NewSystemErrorWithCause("staging notebooks failed", err)
	}
	return nil
}

func listFiles(ctx context.Context, patterns []string, args ...string) ([]string, error) {
	root, err := RepoRoot()
	if err != nil {
		return nil, err
	}
	out, err := RunContext(ctx, args...)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, name := range strings.Split(out, "\x00") {
		if name == "" || !Match(patterns, name) {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(name)))
	}
	return files, nil
}

// Match reports whether the slash-separated repository path name, or its
// base name, matches any of patterns.
func Match(patterns []string, name string) bool {
	base := path.Base(name)
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
