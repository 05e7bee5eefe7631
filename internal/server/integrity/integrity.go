// Package integrity produces and verifies detached keyed tags that make
// out-of-band tampering with stored rows detectable.
//
// A tag is HMAC-SHA256 over a canonical string, hex encoded. The canonical
// string is the protected field tuple joined with "|" in a fixed declared
// order; the order and field set are part of the protocol and must match
// between generation and verification. Tags are computed over plaintext, not
// ciphertext, so they detect tampering with the plaintext-bearing row but do
// not authenticate the ciphertext itself.
package integrity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Separator joins canonical field tuples. Fixed by protocol.
const Separator = "|"

// Tagger generates and verifies integrity tags under a fixed shared secret.
// It is stateless and safe for concurrent use.
type Tagger struct {
	secret []byte
}

// NewTagger constructs a Tagger with the injected HMAC secret.
func NewTagger(secret []byte) *Tagger {
	s := make([]byte, len(secret))
	copy(s, secret)
	return &Tagger{secret: s}
}

// Canonicalize joins fields with the fixed separator in argument order.
func Canonicalize(fields ...string) string {
	return strings.Join(fields, Separator)
}

// Generate returns the hex-encoded HMAC-SHA256 tag of the canonical string.
func (t *Tagger) Generate(canonical string) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the tag and compares it in constant time.
func (t *Tagger) Verify(canonical, tag string) bool {
	expected := t.Generate(canonical)
	return hmac.Equal([]byte(expected), []byte(tag))
}

// GenerateForRecord tags the record tuple (public field, sensitive plaintext).
func (t *Tagger) GenerateForRecord(publicField, sensitivePlaintext string) string {
	return t.Generate(Canonicalize(publicField, sensitivePlaintext))
}

// VerifyRecord verifies a tag against the record tuple.
func (t *Tagger) VerifyRecord(publicField, sensitivePlaintext, tag string) bool {
	return t.Verify(Canonicalize(publicField, sensitivePlaintext), tag)
}

// GenerateForIdentity tags the identity tuple (username, email, name).
func (t *Tagger) GenerateForIdentity(username, email, name string) string {
	return t.Generate(Canonicalize(username, email, name))
}

// VerifyIdentity verifies a tag against the identity tuple.
func (t *Tagger) VerifyIdentity(username, email, name, tag string) bool {
	return t.Verify(Canonicalize(username, email, name), tag)
}
