package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeEnv(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// unset clears key for the duration of the test.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	_ = os.Unsetenv(key) //nolint:errcheck
}

func TestLoad_NonexistentFile(t *testing.T) {
	if err := Load(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("expected nil for nonexistent file, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeEnv(t, path, `# notebook export settings
NBJEKYLL_TEST_STYLE=raw
export NBJEKYLL_TEST_TAG="hidden cell"
NBJEKYLL_TEST_KEPT=from_file
NBJEKYLL_TEST_EMPTY=filled
`)
	unset(t, "NBJEKYLL_TEST_STYLE")
	unset(t, "NBJEKYLL_TEST_TAG")
	t.Setenv("NBJEKYLL_TEST_KEPT", "from_env")
	t.Setenv("NBJEKYLL_TEST_EMPTY", "")

	if err := Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"NBJEKYLL_TEST_STYLE", "raw"},
		{"NBJEKYLL_TEST_TAG", "hidden cell"},
		{"NBJEKYLL_TEST_KEPT", "from_env"},
		{"NBJEKYLL_TEST_EMPTY", "filled"},
	}
	for _, tt := range tests {
		if got := os.Getenv(tt.key); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	writeEnv(t, path, "NBJEKYLL_TEST_BAD=\"unterminated\n")

	if err := Load(path); err == nil {
		t.Error("Load() should fail on an unterminated quote")
	}
}

func TestLoadAll_EarlierFileWins(t *testing.T) {
	dir := t.TempDir()
	configDir := t.TempDir()
	writeEnv(t, filepath.Join(dir, ".env.local"), "NBJEKYLL_TEST_JOBS=1\n")
	writeEnv(t, filepath.Join(dir, ".env"), "NBJEKYLL_TEST_JOBS=2\nNBJEKYLL_TEST_ONLY_ENV=yes\n")
	writeEnv(t, filepath.Join(configDir, "env"), "NBJEKYLL_TEST_JOBS=3\nNBJEKYLL_TEST_GLOBAL=yes\n")
	unset(t, "NBJEKYLL_TEST_JOBS")
	unset(t, "NBJEKYLL_TEST_ONLY_ENV")
	unset(t, "NBJEKYLL_TEST_GLOBAL")

	if err := LoadAll(Files(dir, configDir)...); err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	got := []string{
		os.Getenv("NBJEKYLL_TEST_JOBS"),
		os.Getenv("NBJEKYLL_TEST_ONLY_ENV"),
		os.Getenv("NBJEKYLL_TEST_GLOBAL"),
	}
	if diff := cmp.Diff([]string{"1", "yes", "yes"}, got); diff != "" {
		t.Errorf("env mismatch (-want +got):\n%s", diff)
	}
}

func TestFiles(t *testing.T) {
	got := Files("proj", "")
	want := []string{filepath.Join("proj", ".env.local"), filepath.Join("proj", ".env")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Files() mismatch (-want +got):\n%s", diff)
	}
}
