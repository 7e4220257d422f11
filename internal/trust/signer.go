package trust

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/gorewood/nbjekyll/internal/notebook"
)

// Algorithm names the digest used for signatures.
const Algorithm = "sha256"

// ErrNoSecret is returned when a Signer is created without a key.
var ErrNoSecret = errors.New("signer needs a secret")

// Signer computes and checks notebook signatures.
type Signer struct {
	secret []byte
	store  *Store
}

// NewSigner creates a Signer. store may be nil, in which case signatures
// are only stamped into the notebook.
func NewSigner(secret []byte, store *Store) (*Signer, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	return &Signer{secret: secret, store: store}, nil
}

// Compute returns the signature of nb without modifying it.
func (s *Signer) Compute(nb *notebook.Notebook) (string, error) {
	clone := nb.Clone()
	if clone.Metadata != nil {
		clone.Metadata.Delete(notebook.KeySignature)
	}

	data, err := notebook.Marshal(clone)
	if err != nil {
		return "", fmt.Errorf("serializing for signature: %w", err)
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(data)
	return Algorithm + ":" + hex.EncodeToString(mac.Sum(nil)), nil
}

// Sign stamps the signature of nb into metadata.signature and records it
// in the store under path.
func (s *Signer) Sign(ctx context.Context, nb *notebook.Notebook, path string) (string, error) {
	sig, err := s.Compute(nb)
	if err != nil {
		return "", err
	}
	if nb.Metadata == nil {
		nb.Metadata = notebook.NewMap()
	}
	nb.Metadata.Set(notebook.KeySignature, sig)

	if s.store != nil {
		if err := s.store.Record(ctx, Algorithm, digest(sig), path); err != nil {
			return "", err
		}
	}
	return sig, nil
}

// Check reports whether nb is trusted: its stamped signature matches its
// content, or the store has seen the content's signature before.
func (s *Signer) Check(ctx context.Context, nb *notebook.Notebook) (bool, error) {
	sig, err := s.Compute(nb)
	if err != nil {
		return false, err
	}
	if stamped, ok := notebook.StringValue(nb.Metadata, notebook.KeySignature); ok {
		if hmac.Equal([]byte(stamped), []byte(sig)) {
			return true, nil
		}
	}
	if s.store == nil {
		return false, nil
	}
	return s.store.Known(ctx, Algorithm, digest(sig))
}

// digest strips the algorithm prefix.
func digest(sig string) string {
	_, hexDigest, found := strings.Cut(sig, ":")
	if !found {
		return sig
	}
	return hexDigest
}
