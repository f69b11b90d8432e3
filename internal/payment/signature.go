package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks a gateway callback signature: the hex
// HMAC-SHA256 of "orderId|paymentId" under the API secret must equal
// the supplied value. Comparison is constant-time.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	return verifyPair(secret, orderID, paymentID, signature)
}

// VerifyLinkSignature checks a payment-link callback, which signs
// "linkId|referenceId" the same way.
func VerifyLinkSignature(secret, linkID, referenceID, signature string) bool {
	return verifyPair(secret, linkID, referenceID, signature)
}

func verifyPair(secret, left, right, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(left + "|" + right))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
