package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the full 64-character hex SHA-256 of data. Used both for
// cache file names and for content-addressing SWC inputs.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashParts hashes an arbitrary tuple via its JSON encoding.
func hashParts(parts ...any) string {
	data, _ := json.Marshal(parts)
	return Hash(data)
}
