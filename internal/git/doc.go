// Package git runs the git executable for the nbjekyll hooks.
//
// Commands run in the current directory and report failures as
// *output.ExitError values with ExitSystemError:
//
//	root, err := git.RepoRoot()
//	staged, err := git.StagedFiles(ctx, []string{"*.ipynb"})
//	err = git.Add(ctx, staged...)
//
// # Notebook Listing
//
// StagedFiles lists notebooks in the index (added, copied, modified or
// renamed) for the pre-commit hook. CommittedFiles lists the notebooks a
// commit touched for the post-commit hook. Both return absolute paths and
// keep only files whose name or repository path matches one of the
// patterns.
package git
