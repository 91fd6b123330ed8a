package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/gin-gonic/gin"

	"github.com/pullconf/pullconf/internal/catalog"
)

const apiKeyHeader = "X-API-Key"

func presentedKeyHash(c *gin.Context) (hash string, present bool) {
	key := c.GetHeader(apiKeyHeader)
	if key == "" {
		return "", false
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]), true
}

func hashesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// findClientByHash scans every client in the snapshot for the one whose
// api_key_hash matches, comparing every entry (not returning early) so
// the search itself doesn't leak which position matched.
func findClientByHash(snap *catalog.Snapshot, hash string) *catalog.Catalog {
	var match *catalog.Catalog
	for _, hostname := range snap.Hostnames() {
		c, ok := snap.Get(hostname)
		if !ok {
			continue
		}
		if hashesEqual(c.APIKeyHash, hash) {
			match = c
		}
	}
	return match
}
