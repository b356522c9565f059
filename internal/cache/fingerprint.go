package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint identifies an analysis by its normalized inputs. Whitespace
// runs collapse to one space, so reformatting alone does not change the key.
// Every field is length prefixed and terminated, so shifting text between
// fields always changes the key.
func Fingerprint(text, mode, jobDescription string) string {
	h := sha256.New()
	for _, field := range []string{normalize(text), mode, normalize(jobDescription)} {
		fmt.Fprintf(h, "%d:%s\x1f", len(field), field)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Enrichment variants kept apart in the cache
const (
	VariantHeuristic = "heuristic"
	VariantAI        = "ai"
)

// VariantKey scopes a fingerprint to an enrichment variant so heuristic-only
// and AI-enriched results never answer for each other.
func VariantKey(fingerprint, variant string) string {
	return fingerprint + ":" + variant
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
