package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// leaves room for a future algorithm migration.
const (
	DomainQuery  = "mql/query/v1"
	DomainClause = "mql/clause/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// QueryHash computes the content-addressed identity of a query document.
// Structurally equal documents hash identically regardless of key order
// or the source they were decoded from.
func QueryHash(doc Map) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("QueryHash: %w", err)
	}
	return hashWithDomain(DomainQuery, canonical), nil
}

// ClauseHash computes the content-addressed identity of a single clause.
func ClauseHash(clause Node) (string, error) {
	canonical, err := MarshalCanonical(clause)
	if err != nil {
		return "", fmt.Errorf("ClauseHash: %w", err)
	}
	return hashWithDomain(DomainClause, canonical), nil
}

// MustQueryHash is like QueryHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustQueryHash(doc Map) string {
	h, err := QueryHash(doc)
	if err != nil {
		panic(err)
	}
	return h
}
