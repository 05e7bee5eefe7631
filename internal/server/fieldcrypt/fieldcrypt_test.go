package fieldcrypt

import (
	"bytes"
	"crypto/aes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/secureportal/internal/common"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, KeySize)
}

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := NewCipher(testKey())
	if err != nil {
		t.Fatalf("NewCipher error: %v", err)
	}
	return c
}

func TestNewCipher_RejectsBadKeyLength(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33} {
		if _, err := NewCipher(make([]byte, n)); err == nil {
			t.Fatalf("expected error for key length %d", n)
		}
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	for _, plaintext := range []string{
		"",
		"X123",
		"a",
		strings.Repeat("block-aligned!!!", 4), // multiple of 16
		strings.Repeat("long sensitive value ", 40),
		"unicode: ÿüßĀ€",
	} {
		blob, err := c.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%q) error: %v", plaintext, err)
		}
		got, err := c.Decrypt(blob)
		if err != nil {
			t.Fatalf("Decrypt error for %q: %v", plaintext, err)
		}
		if got != plaintext {
			t.Fatalf("round trip mismatch: got %q want %q", got, plaintext)
		}
	}
}

func TestEncrypt_EmptyMapsToEmpty(t *testing.T) {
	c := newTestCipher(t)
	blob, err := c.Encrypt("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blob != "" {
		t.Fatalf("expected empty blob, got %q", blob)
	}
	plain, err := c.Decrypt("")
	if err != nil || plain != "" {
		t.Fatalf("expected empty plaintext, got %q err %v", plain, err)
	}
}

func TestEncrypt_FreshIVPerCall(t *testing.T) {
	c := newTestCipher(t)
	a, err := c.Encrypt("same value")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := c.Encrypt("same value")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("identical plaintexts produced identical blobs; IV is being reused")
	}
}

func TestEncrypt_BlobLayout(t *testing.T) {
	c := newTestCipher(t)
	blob, err := c.Encrypt("layout")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		t.Fatalf("blob is not valid base64: %v", err)
	}
	if len(raw) <= aes.BlockSize || len(raw)%aes.BlockSize != 0 {
		t.Fatalf("unexpected raw blob length %d", len(raw))
	}
}

func TestDecrypt_MalformedBlob(t *testing.T) {
	c := newTestCipher(t)

	cases := map[string]string{
		"not base64":    "%%%not-base64%%%",
		"too short":     base64.StdEncoding.EncodeToString([]byte("short")),
		"iv only":       base64.StdEncoding.EncodeToString(make([]byte, aes.BlockSize)),
		"ragged length": base64.StdEncoding.EncodeToString(make([]byte, aes.BlockSize+5)),
	}

	for name, blob := range cases {
		if _, err := c.Decrypt(blob); !errors.Is(err, common.ErrDecryptionFailed) {
			t.Fatalf("%s: expected ErrDecryptionFailed, got %v", name, err)
		}
	}
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	c := newTestCipher(t)
	blob, err := c.Encrypt("guarded")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other, err := NewCipher(bytes.Repeat([]byte{0x24}, KeySize))
	if err != nil {
		t.Fatalf("NewCipher error: %v", err)
	}
	if got, err := other.Decrypt(blob); err == nil {
		// CBC with a wrong key almost always breaks the padding; on the rare
		// collision the plaintext still must not survive.
		if got == "guarded" {
			t.Fatal("wrong key decrypted to original plaintext")
		}
	} else if !errors.Is(err, common.ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecrypt_TamperedCiphertext(t *testing.T) {
	c := newTestCipher(t)
	blob, err := c.Encrypt("tamper target")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, _ := base64.StdEncoding.DecodeString(blob)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	if got, err := c.Decrypt(tampered); err == nil && got == "tamper target" {
		t.Fatal("tampered blob decrypted to original plaintext")
	}
}

func TestPadUnpad(t *testing.T) {
	for n := 0; n < 48; n++ {
		in := bytes.Repeat([]byte{0xab}, n)
		padded := pad(in, aes.BlockSize)
		if len(padded)%aes.BlockSize != 0 {
			t.Fatalf("pad(%d) produced non-aligned length %d", n, len(padded))
		}
		out, err := unpad(padded, aes.BlockSize)
		if err != nil {
			t.Fatalf("unpad error for n=%d: %v", n, err)
		}
		if !bytes.Equal(in, out) {
			t.Fatalf("pad/unpad mismatch for n=%d", n)
		}
	}
}

func TestUnpad_Invalid(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x01, 0x02},                        // not block aligned
		append(make([]byte, 15), 0x00),      // zero pad byte
		append(make([]byte, 15), 0x11),      // pad byte > block size
		append(make([]byte, 14), 0x03, 0x3), // inconsistent run
	}
	for i, b := range cases {
		if _, err := unpad(b, aes.BlockSize); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
