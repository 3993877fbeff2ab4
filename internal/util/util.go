// Package util holds small helpers shared across layers.
package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short, stable digest of value for use as a map key or log field.
// An empty value yields an empty fingerprint.
func Fingerprint(value string) string {
	if value == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(value))

	return hex.EncodeToString(sum[:12])
}
