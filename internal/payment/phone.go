package payment

// FallbackPhone stands in when a customer contact cannot be used for a
// payment link. The gateway rejects malformed contacts outright.
const FallbackPhone = "9876543210"

// NormalizePhone strips every non-digit character and validates the
// result: it must be exactly 10 digits and not 10 repetitions of the
// same digit. Anything else gets the fallback number.
func NormalizePhone(phone string) string {
	digits := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		if phone[i] >= '0' && phone[i] <= '9' {
			digits = append(digits, phone[i])
		}
	}

	if len(digits) != 10 {
		return FallbackPhone
	}

	allSame := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return FallbackPhone
	}

	return string(digits)
}
