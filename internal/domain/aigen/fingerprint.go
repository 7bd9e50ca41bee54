package aigen

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint computes the deterministic content-identity hash of a
// generated recipe: SHA-256 over the canonical (key-sorted) JSON form of
// its structured fields. Identical recipe content always yields the same
// fingerprint regardless of field ordering in the source.
func Fingerprint(r *RecipePayload) (string, error) {
	canonical, err := CanonicalJSON(r)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// CanonicalJSON renders v as JSON with all object keys sorted. The value
// is round-tripped through generic maps because encoding/json emits map
// keys in sorted order, which gives a stable byte form.
func CanonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return json.Marshal(generic)
}
