package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainMessage = "scribe/message/v1"
	DomainTrace   = "scribe/trace/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00}) // Null separator - CRITICAL for security
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// MessageHash computes the content-addressed hash of a stored message.
// This is the data_hash handed to the external certifying lookup: stable
// across restarts given the same content (NFC-normalized at the
// serialization boundary).
func MessageHash(content string) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"content": content,
	})
	if err != nil {
		return "", fmt.Errorf("MessageHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainMessage, canonical), nil
}

// TraceHash computes a digest over a canonical trace snapshot.
// Used by tooling to fingerprint audit trails.
func TraceHash(snapshot map[string]any) (string, error) {
	canonical, err := MarshalCanonical(snapshot)
	if err != nil {
		return "", fmt.Errorf("TraceHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTrace, canonical), nil
}

// MustMessageHash is like MessageHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustMessageHash(content string) string {
	h, err := MessageHash(content)
	if err != nil {
		panic(err)
	}
	return h
}
