// Package envfile loads environment variables from .env files.
// Variables already set in the environment take precedence.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Files returns the env files nbjekyll reads, highest precedence first:
// .env.local and .env in dir, then env in configDir.
func Files(dir, configDir string) []string {
	files := []string{
		filepath.Join(dir, ".env.local"),
		filepath.Join(dir, ".env"),
	}
	if configDir != "" {
		files = append(files, filepath.Join(configDir, "env"))
	}
	return files
}

// Load reads a .env file and sets any variables that are unset or empty.
// A missing file is not an error.
func Load(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading env file %s: %w", path, err)
	}

	for key, value := range values {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("setting %s from %s: %w", key, path, err)
		}
	}
	return nil
}

// LoadAll loads paths in order, so earlier files win over later ones.
func LoadAll(paths ...string) error {
	for _, path := range paths {
		if err := Load(path); err != nil {
			return err
		}
	}
	return nil
}
