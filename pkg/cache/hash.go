package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a cache key of the form "prefix:hash(parts...)". The prefix
// names the artifact class ("manifest", "sprite", "config") so backends and
// cache hooks can tell entry kinds apart; the hash covers every component
// that affects the artifact's content.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes the SHA-256 of data as a 64-character hex string. The
// pipeline uses it to content-address manifest snapshots and target
// configuration documents.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
