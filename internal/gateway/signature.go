package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSignature returns the hex HMAC-SHA256 over
// "<orderRef>|<paymentRef>" using the shared gateway secret.
func ComputeSignature(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the expected signature and compares it against
// the supplied one in constant time.
func VerifySignature(secret, orderRef, paymentRef, signature string) bool {
	expected := ComputeSignature(secret, orderRef, paymentRef)
	return hmac.Equal([]byte(expected), []byte(signature))
}
