package export

import (
	"context"
	"errors"
)

// ErrSigningDisabled is returned by Verify when the exporter has no signer.
var ErrSigningDisabled = errors.New("notebook signing is disabled")

// Signs reports whether written notebooks are signed.
func (e *Exporter) Signs() bool {
	return e.signer != nil
}

// Verify reports whether the notebook at path carries a valid signature.
func (e *Exporter) Verify(ctx context.Context, path string) (bool, error) {
	if e.signer == nil {
		return false, ErrSigningDisabled
	}
	nb, err := e.store.Load(path)
	if err != nil {
		return false, err
	}
	return e.signer.Check(ctx, nb)
}
