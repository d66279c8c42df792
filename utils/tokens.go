package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns n random bytes as a lowercase hex string. Used for room
// slugs and participant session tokens, which must be unguessable.
func RandomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the process cannot mint tokens at all
		panic(err)
	}
	return hex.EncodeToString(buf)
}
