package setup

import (
	"os"
	"path/filepath"

	"github.com/gorewood/nbjekyll/internal/output"
)

// UninstallResult reports what UninstallHook did.
type UninstallResult struct {
	Name     string `json:"name"`
	Removed  bool   `json:"removed"`
	Restored bool   `json:"restored"`
}

// UninstallHook removes the nbjekyll hook called name from dir and puts a
// chained backup back in its place. Foreign hooks are left alone.
func UninstallHook(dir, name string) (UninstallResult, error) {
	hookPath := filepath.Join(dir, name)
	status := CheckHookStatus(hookPath)
	result := UninstallResult{Name: name}
	if !status.Installed {
		return result, nil
	}

	removed, restored, err := RemoveGitHook(hookPath, status.HasBackup, hookPath+".backup")
	result.Removed = removed
	result.Restored = restored
	return result, err
}

// RemoveGitHook removes the hook and optionally restores a backup.
// Returns whether the hook was removed and whether the backup was restored.
func RemoveGitHook(hookPath string, hasBackup bool, backupPath string) (removed, restored bool, err error) {
	if err := os.Remove(hookPath); err != nil && !os.IsNotExist(err) {
		return false, false, output.NewSystemErrorWithCause("failed to remove hook", err)
	}
	if !hasBackup {
		return true, false, nil
	}
	if err := os.Rename(backupPath, hookPath); err != nil {
		return true, false, output.NewSystemErrorWithCause("failed to restore backup hook", err)
	}
	return true, true, nil
}
