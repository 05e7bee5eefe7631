package models

import "time"

// Record is a submitted operational record. The sensitive field is stored
// only as base64(IV||ciphertext); the plaintext is never persisted.
//
// IntegrityTag is computed over "public_field|sensitive_plaintext" at write
// time, before encryption. It is stored alongside the ciphertext and is
// recomputed (never mutated) on every read for verification.
type Record struct {
	ID                  string
	OwnerID             string
	PublicField         string
	Description         string
	SensitiveCiphertext string
	IntegrityTag        string
	CreatedAt           time.Time
}
