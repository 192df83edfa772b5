// Package gravatar derives a deterministic avatar URL from an email
// address: md5 of the trimmed, lowercased address, 200px, pg-rated, with
// the "mystery man" fallback.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// URL returns the Gravatar URL for the given email.
func URL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
