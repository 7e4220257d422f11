package trust

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	// secretBytes is the size of a generated secret before encoding.
	secretBytes = 1024
	secretMode  = 0o600
	dirMode     = 0o700
)

// ErrEmptySecret is returned when a secret file exists but holds no key.
var ErrEmptySecret = errors.New("empty notebook secret")

// LoadSecret reads the secret at path, creating it with fresh random bytes
// when it does not exist.
func LoadSecret(fs afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fs, path)
	if err == nil {
		secret := []byte(strings.TrimSpace(string(data)))
		if len(secret) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptySecret, path)
		}
		return secret, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading secret %s: %w", path, err)
	}

	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generating secret: %w", err)
	}
	secret := []byte(base64.StdEncoding.EncodeToString(raw))

	if err := fs.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, fmt.Errorf("creating secret directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, secret, secretMode); err != nil {
		return nil, fmt.Errorf("writing secret %s: %w", path, err)
	}
	return secret, nil
}
