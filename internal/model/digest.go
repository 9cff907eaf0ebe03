package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for content digests. The version suffix allows future
// algorithm migration.
const (
	DomainSnapshot = "lifesim/snapshot/v1"
	DomainTrace    = "lifesim/trace/v1"
)

// Digest computes SHA-256(domain + 0x00 + NFC(json(v))).
//
// encoding/json sorts map keys, and NFC normalization makes names that differ
// only in Unicode composition hash identically.
func Digest(domain string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("digest: marshal: %w", err)
	}
	data := norm.NFC.Bytes(bytes.TrimSpace(buf.Bytes()))

	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
