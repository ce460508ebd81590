package billing

import (
	"crypto/hmac"
	"strings"
)

// AuthorizeWebhook checks the token the provider presented against the
// configured shared token, byte-for-byte in constant time. An empty
// configured token disables the check entirely (open mode), convenient
// for local and sandbox setups, insecure for anything else.
func AuthorizeWebhook(presented, configured string) bool {
	secret := strings.TrimSpace(configured)
	if secret == "" {
		return true
	}
	return hmac.Equal([]byte(strings.TrimSpace(presented)), []byte(secret))
}
