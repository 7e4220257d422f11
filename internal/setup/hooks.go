package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/nbjekyll/internal/git"
	"github.com/gorewood/nbjekyll/internal/output"
)

// Hook names managed by nbjekyll.
const (
	PreCommit  = "pre-commit"
	PostCommit = "post-commit"
)

// HookNames lists the managed hooks in install order.
var HookNames = []string{PreCommit, PostCommit}

// marker identifies scripts written by nbjekyll.
const marker = "nbjekyll hook run"

const hookMode = 0o755

var hookPurpose = map[string]string{
	PreCommit:  "Prepares staged notebooks for publishing (blocks the commit on failure)",
	PostCommit: "Restores committed notebooks for editing",
}

// HookStatus describes one hook file.
type HookStatus struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Exists    bool   `json:"exists"`
	Installed bool   `json:"installed"`
	Chained   bool   `json:"chained"`
	HasBackup bool   `json:"has_backup"`
}

// InstallOptions controls what happens to a foreign hook already in place.
type InstallOptions struct {
	Chain bool
	Force bool
}

// GetHooksDir returns the repository's hooks directory.
func GetHooksDir() (string, error) {
	return git.HooksDir()
}

// IsManaged reports whether name is a hook nbjekyll installs.
func IsManaged(name string) bool {
	_, ok := hookPurpose[name]
	return ok
}

// HookExists reports whether a file exists at path.
func HookExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CheckHookStatus inspects the hook at hookPath.
func CheckHookStatus(hookPath string) HookStatus {
	status := HookStatus{
		Name:      filepath.Base(hookPath),
		Path:      hookPath,
		HasBackup: HookExists(hookPath + ".backup"),
	}

	content, err := os.ReadFile(hookPath)
	if err != nil {
		return status
	}
	status.Exists = true

	contentStr := string(content)
	if strings.Contains(contentStr, marker) {
		status.Installed = true
		status.Chained = strings.Contains(contentStr, ".backup")
	}
	return status
}

// GenerateHook returns the script for the hook called name. With withChain
// the script runs <name>.backup next to itself after nbjekyll succeeds.
func GenerateHook(name string, withChain bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#!/bin/sh\n# nbjekyll %s hook\n# %s\n\n", name, hookPurpose[name])
	fmt.Fprintf(&b, "if command -v nbjekyll >/dev/null 2>&1; then\n")
	fmt.Fprintf(&b, "  nbjekyll hook run %s \"$@\" || exit $?\n", name)
	fmt.Fprintf(&b, "fi\n")

	if withChain {
		fmt.Fprintf(&b, "\n# Chain to original hook if it exists\n")
		fmt.Fprintf(&b, "backup=\"$(dirname \"$0\")/%s.backup\"\n", name)
		fmt.Fprintf(&b, "if [ -x \"$backup\" ]; then\n  exec \"$backup\" \"$@\"\nfi\n")
	}
	return b.String()
}

// BackupExistingHook moves an existing hook to <hookPath>.backup.
func BackupExistingHook(hookPath string) error {
	if err := os.Rename(hookPath, hookPath+".backup"); err != nil {
		return output.NewSystemErrorWithCause("failed to backup existing hook", err)
	}
	return nil
}

// InstallHook writes the hook called name into dir. A foreign hook already
// there is a conflict unless opts asks to chain or overwrite it. Replacing
// an nbjekyll hook keeps its chaining.
func InstallHook(dir, name string, opts InstallOptions) (HookStatus, error) {
	if !IsManaged(name) {
		return HookStatus{}, output.NewUserError(fmt.Sprintf("unknown hook %q (valid: %s)", name, strings.Join(HookNames, ", ")))
	}
	hookPath := filepath.Join(dir, name)
	current := CheckHookStatus(hookPath)

	chain := opts.Chain || (current.Installed && current.Chained)
	if current.Exists && !current.Installed {
		switch {
		case opts.Force:
			chain = opts.Chain && current.HasBackup
		case opts.Chain:
			if current.HasBackup {
				return current, output.NewConflictError(name + " hook and its backup both exist; remove one or use --force")
			}
			if err := BackupExistingHook(hookPath); err != nil {
				return current, err
			}
		default:
			return current, output.NewConflictError(name + " hook already exists (use --chain or --force)")
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return current, output.NewSystemErrorWithCause("failed to create hooks directory", err)
	}
	if err := os.WriteFile(hookPath, []byte(GenerateHook(name, chain)), hookMode); err != nil {
		return current, output.NewSystemErrorWithCause("failed to write "+name+" hook", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(hookPath, hookMode); err != nil {
		return current, output.NewSystemErrorWithCause("failed to make "+name+" hook executable", err)
	}
	return CheckHookStatus(hookPath), nil
}

// DescribeInstallAction says what InstallHook would do.
func DescribeInstallAction(status HookStatus, chain, force bool) string {
	switch {
	case !status.Exists:
		return "would install"
	case status.Installed:
		return "would reinstall"
	case force:
		return "would overwrite existing hook"
	case chain:
		return "would backup and chain existing hook"
	default:
		return "would fail (hook exists, use --chain or --force)"
	}
}

// DescribeUninstallAction says what UninstallHook would do.
func DescribeUninstallAction(status HookStatus) string {
	switch {
	case !status.Installed:
		return "no nbjekyll hook installed"
	case status.HasBackup:
		return "would remove and restore backup"
	default:
		return "would remove"
	}
}
