// Package fieldcrypt encrypts single confidential fields at rest.
//
// The stored format is base64(IV || ciphertext) with AES-256-CBC and a fresh
// random 16-byte IV per call, so repeated encryption of the same value never
// produces the same blob. Integrity is provided separately by a detached
// keyed tag over the plaintext (see the integrity package); this cipher is
// deliberately not an AEAD construction.
package fieldcrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/secureportal/internal/common"
)

// KeySize is the required key length in bytes (AES-256).
const KeySize = 32

// Cipher encrypts and decrypts individual fields under a fixed symmetric key.
// It is stateless and safe for concurrent use.
type Cipher struct {
	key []byte

	// ivReader is a seam for tests that need a deterministic IV.
	ivReader io.Reader
}

// NewCipher constructs a Cipher with the injected 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("fieldcrypt: key must be %d bytes, got %d", KeySize, len(key))
	}
	k := make([]byte, KeySize)
	copy(k, key)
	return &Cipher{key: k, ivReader: rand.Reader}, nil
}

// Encrypt encrypts a plaintext field. The empty string maps to the empty
// string by design, so optional fields stay optional in storage.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(c.ivReader, iv); err != nil {
		return "", err
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. The empty string maps to the empty string. Any
// malformed blob, wrong key, or bad padding yields common.ErrDecryptionFailed;
// callers must treat that failure the same as an integrity failure.
func (c *Cipher) Decrypt(blob string) (string, error) {
	if blob == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", common.ErrDecryptionFailed
	}
	if len(data) < aes.BlockSize || len(data)%aes.BlockSize != 0 {
		return "", common.ErrDecryptionFailed
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := data[:aes.BlockSize]
	ciphertext := data[aes.BlockSize:]
	if len(ciphertext) == 0 {
		return "", common.ErrDecryptionFailed
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", common.ErrDecryptionFailed
	}

	return string(unpadded), nil
}

// pad applies PKCS#7 padding up to blockSize.
func pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips PKCS#7 padding, rejecting anything inconsistent.
func unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, errors.New("invalid padding")
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
