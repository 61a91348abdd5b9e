// Package fingerprint computes short deterministic digests of ordered records.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
)

// Lines returns a 128-bit hex digest of the given lines in order.
// Each line is length-prefixed so ["ab","c"] and ["a","bc"] differ.
func Lines(lines []string) string {
	h := sha256.New()
	for _, l := range lines {
		fmt.Fprintf(h, "%d:%s\n", len(l), l)
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

// Short returns an 8-character hex tag for s, suitable for log correlation.
func Short(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}
