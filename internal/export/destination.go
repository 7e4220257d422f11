package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoOutfile is returned when no destination can be derived from the
// notebook name.
var ErrNoOutfile = errors.New("cannot derive output file name")

// Destination resolves the output path of an export. In-place exports
// write back to source and ignore outfile.
func Destination(source, outfile string, inPlace bool) (string, error) {
	if inPlace {
		return source, nil
	}
	if outfile != "" {
		return outfile, nil
	}
	return derive(source)
}

// derive drops the leading "_"-separated segment of the base name.
func derive(source string) (string, error) {
	dir, base := filepath.Split(source)
	_, rest, found := strings.Cut(base, "_")
	if !found || rest == "" {
		return "", fmt.Errorf("%w from %q: name has no prefix segment, use --outfile or --in-place", ErrNoOutfile, base)
	}
	return filepath.Join(dir, rest), nil
}
