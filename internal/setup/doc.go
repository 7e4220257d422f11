// Package setup installs and removes the nbjekyll git hooks.
//
// The pre-commit hook prepares staged notebooks for publishing and the
// post-commit hook restores them for editing. Both call back into the
// binary with "nbjekyll hook run <name>". Command-layer adapters in
// cmd/nbjekyll handle flags and output and delegate here:
//
//	status := setup.CheckHookStatus(filepath.Join(dir, "pre-commit"))
//	status, err := setup.InstallHook(dir, "pre-commit", setup.InstallOptions{Chain: true})
//	status, err = setup.UninstallHook(dir, "pre-commit")
//
// A pre-existing hook is either refused (a conflict error), moved to
// <name>.backup and chained, or overwritten with Force.
package setup
