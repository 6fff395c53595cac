package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashIp returns a salted sha256 of the ip, so that analytics never store raw addresses.
func HashIp(ip, salt string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(salt + ip))
	return hex.EncodeToString(sum[:])
}
