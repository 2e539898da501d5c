package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken hashes a token string before it is used as a denylist key.
// Denylist keys therefore never contain a live bearer credential, and the
// fixed-size key is cheaper to look up than a full JWT.
func HashToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))
	hashedBytes := hasher.Sum(nil)
	return hex.EncodeToString(hashedBytes)
}
