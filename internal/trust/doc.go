// Package trust signs notebooks so that their outputs are trusted when the
// published notebook is opened.
//
// A signature is an HMAC-SHA256 over the notebook's on-disk serialization
// with metadata.signature removed, keyed with a per-user secret. Signatures
// are stamped into the notebook metadata as "sha256:<hex>" and recorded in
// a SQLite store so that Check also accepts notebooks signed earlier.
package trust
