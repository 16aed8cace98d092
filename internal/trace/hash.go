package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainTrace prefixes every trace fingerprint. The version suffix leaves
// room for a future change of the hashed form.
const DomainTrace = "motifsim/trace/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data). The null byte keeps
// the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint identifies a trace by content. The run ID and event sequence
// numbers are excluded, so recording the same engine over the same input
// always yields the same fingerprint.
func Fingerprint(t *Trace) (string, error) {
	canonical, err := MarshalCanonical(t.value(false))
	if err != nil {
		return "", fmt.Errorf("fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTrace, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the trace is known to be valid.
func MustFingerprint(t *Trace) string {
	fp, err := Fingerprint(t)
	if err != nil {
		panic(err)
	}
	return fp
}
