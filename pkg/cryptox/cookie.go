package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// SignCookieValue appends an HMAC-SHA256 signature to a cookie value so the
// server can detect tampering. The result is "value.signature" with the
// signature base64url-encoded.
func SignCookieValue(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return value + "." + sig
}

// UnsignCookieValue validates a signed cookie value and returns the original
// value. The boolean is false when the signature is missing or does not
// match.
func UnsignCookieValue(signed, secret string) (string, bool) {
	idx := strings.LastIndexByte(signed, '.')
	if idx < 0 {
		return "", false
	}

	value := signed[:idx]
	if !hmac.Equal([]byte(SignCookieValue(value, secret)), []byte(signed)) {
		return "", false
	}
	return value, true
}
