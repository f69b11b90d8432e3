package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test_secret"

	valid := sign(secret, "order_abc|pay_xyz")
	if !VerifySignature(secret, "order_abc", "pay_xyz", valid) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(secret, "order_abc", "pay_xyz", valid+"00") {
		t.Error("tampered signature accepted")
	}
	if VerifySignature("wrong_secret", "order_abc", "pay_xyz", valid) {
		t.Error("signature accepted under wrong secret")
	}
	if VerifySignature(secret, "order_other", "pay_xyz", valid) {
		t.Error("signature accepted for different order")
	}
	if VerifySignature(secret, "order_abc", "pay_xyz", "") {
		t.Error("empty signature accepted")
	}
}

func TestVerifyLinkSignature(t *testing.T) {
	const secret = "link_secret"

	valid := sign(secret, "plink_123|ref_456")
	if !VerifyLinkSignature(secret, "plink_123", "ref_456", valid) {
		t.Error("valid link signature rejected")
	}
	if VerifyLinkSignature(secret, "plink_123", "ref_789", valid) {
		t.Error("link signature accepted for different reference")
	}
}
