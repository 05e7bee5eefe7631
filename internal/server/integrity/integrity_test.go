package integrity

import (
	"encoding/hex"
	"strings"
	"testing"
)

func newTestTagger() *Tagger {
	return NewTagger([]byte("0123456789abcdef0123456789abcdef"))
}

func TestCanonicalize(t *testing.T) {
	if got := Canonicalize("a", "b", "c"); got != "a|b|c" {
		t.Fatalf("unexpected canonical string: %q", got)
	}
	if got := Canonicalize("solo"); got != "solo" {
		t.Fatalf("unexpected canonical string: %q", got)
	}
	if got := Canonicalize("", ""); got != "|" {
		t.Fatalf("unexpected canonical string: %q", got)
	}
}

func TestGenerate_DeterministicHex(t *testing.T) {
	tg := newTestTagger()
	a := tg.Generate("job|X123")
	b := tg.Generate("job|X123")
	if a != b {
		t.Fatal("tag generation is not deterministic")
	}
	raw, err := hex.DecodeString(a)
	if err != nil {
		t.Fatalf("tag is not valid hex: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("expected 32-byte tag, got %d", len(raw))
	}
}

func TestGenerate_KeyDependent(t *testing.T) {
	a := newTestTagger().Generate("job|X123")
	b := NewTagger([]byte("another-secret-another-secret!!!")).Generate("job|X123")
	if a == b {
		t.Fatal("different secrets produced the same tag")
	}
}

func TestVerify_RoundTrip(t *testing.T) {
	tg := newTestTagger()
	for _, s := range []string{"", "x", "job|X123", strings.Repeat("long|", 100)} {
		if !tg.Verify(s, tg.Generate(s)) {
			t.Fatalf("verify failed for valid tag over %q", s)
		}
	}
}

func TestVerify_SingleFlipRejected(t *testing.T) {
	tg := newTestTagger()
	canonical := "sensor calibration|X123"
	tag := tg.Generate(canonical)

	// flip each character of the canonical string
	for i := range canonical {
		mutated := canonical[:i] + string(canonical[i]^1) + canonical[i+1:]
		if tg.Verify(mutated, tag) {
			t.Fatalf("verify accepted mutated canonical string at index %d", i)
		}
	}

	// flip each character of the tag
	for i := range tag {
		mutated := tag[:i] + string(tag[i]^1) + tag[i+1:]
		if tg.Verify(canonical, mutated) {
			t.Fatalf("verify accepted mutated tag at index %d", i)
		}
	}
}

func TestRecordHelpers(t *testing.T) {
	tg := newTestTagger()
	tag := tg.GenerateForRecord("sensor calibration", "X123")
	if !tg.VerifyRecord("sensor calibration", "X123", tag) {
		t.Fatal("record tag did not verify")
	}
	if tg.VerifyRecord("sensor calibration", "X124", tag) {
		t.Fatal("record tag verified with altered sensitive field")
	}
	if tg.VerifyRecord("sensor recalibration", "X123", tag) {
		t.Fatal("record tag verified with altered public field")
	}
	if tag != tg.Generate("sensor calibration|X123") {
		t.Fatal("record helper does not match canonical form")
	}
}

func TestIdentityHelpers(t *testing.T) {
	tg := newTestTagger()
	tag := tg.GenerateForIdentity("alice", "alice@example.com", "Alice A")
	if !tg.VerifyIdentity("alice", "alice@example.com", "Alice A", tag) {
		t.Fatal("identity tag did not verify")
	}
	if tg.VerifyIdentity("alice", "eve@example.com", "Alice A", tag) {
		t.Fatal("identity tag verified with altered email")
	}
	if tag != tg.Generate("alice|alice@example.com|Alice A") {
		t.Fatal("identity helper does not match canonical form")
	}
}
