package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns n cryptographically random bytes encoded as lowercase hex
// (2n characters). It panics only if the system random source fails.
func RandomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("utils: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
