package auth

import "strings"

// NormalizePhone reduces a phone number to its canonical digit form: every
// non-digit is dropped, a leading international "00" is removed and a leading
// national trunk "0" is replaced by countryCode. The result is a fixed point,
// so normalizing twice yields the same string.
func NormalizePhone(raw, countryCode string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, "00") {
		digits = strings.TrimLeft(digits, "0")
	} else if strings.HasPrefix(digits, "0") {
		digits = countryCode + strings.TrimLeft(digits, "0")
	}
	return digits
}

// ValidPhone reports whether a normalized number has a plausible E.164 length.
func ValidPhone(normalized string) bool {
	return len(normalized) >= 8 && len(normalized) <= 15 && normalized[0] != '0'
}

// PlaceholderEmail is the synthesized address for accounts created by phone login.
func PlaceholderEmail(phone string) string {
	return phone + "@smslogin.local"
}

func validCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
