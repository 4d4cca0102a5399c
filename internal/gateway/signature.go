package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Signature returns the base64 HMAC-SHA256 of the raw webhook payload.
func Signature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares the received header value against the
// expected signature in constant time.
func VerifySignature(payload []byte, received, secret string) bool {
	return hmac.Equal([]byte(received), []byte(Signature(payload, secret)))
}
