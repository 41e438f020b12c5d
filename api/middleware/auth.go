package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/bingdict/models"
)

// identityKey is the gin context key under which Auth stores the caller
// identity used by RateLimit.
const identityKey = "bingdict.identity"

// keyring holds SHA-256 digests of the accepted API keys, so raw keys are
// not kept in memory after startup and comparisons take constant time.
type keyring [][sha256.Size]byte

func newKeyring(keys []string) keyring {
	var kr keyring
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			kr = append(kr, sha256.Sum256([]byte(k)))
		}
	}
	return kr
}

// lookup returns the digest of key and whether it is accepted.
func (kr keyring) lookup(key string) ([sha256.Size]byte, bool) {
	digest := sha256.Sum256([]byte(key))
	match := 0
	for i := range kr {
		match |= subtle.ConstantTimeCompare(digest[:], kr[i][:])
	}
	return digest, match == 1
}

// Auth returns API-key authentication middleware. Keys are read from
// X-API-Key or Authorization: Bearer. An empty key list disables the check.
//
// Authenticated callers are identified to RateLimit by a digest prefix of
// their key, never the key itself.
func Auth(apiKeys []string) gin.HandlerFunc {
	kr := newKeyring(apiKeys)
	if len(kr) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := extractAPIKey(c)
		if key == "" {
			abortUnauthorized(c, "missing API key: provide X-API-Key header or Authorization: Bearer <key>")
			return
		}

		digest, ok := kr.lookup(key)
		if !ok {
			abortUnauthorized(c, "invalid API key")
			return
		}

		c.Set(identityKey, "key:"+hex.EncodeToString(digest[:8]))
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(&models.ErrorDetail{
		Code:    models.ErrCodeUnauthorized,
		Message: msg,
	}))
}

// errorBody is the envelope used for requests rejected before a handler runs.
func errorBody(detail *models.ErrorDetail) gin.H {
	return gin.H{"success": false, "error": detail}
}

func extractAPIKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}
