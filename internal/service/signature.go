package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignPayment computes the provider's documented payment signature: the
// hex-encoded HMAC-SHA256 of "orderRef|paymentRef" under the shared secret.
func SignPayment(orderRef, paymentRef, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature checks a provider callback signature in constant
// time. Any deviation, including case changes, fails verification.
func VerifyPaymentSignature(orderRef, paymentRef, signature, secret string) bool {
	expected := SignPayment(orderRef, paymentRef, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
