package payment

import (
	"math"
	"strings"
)

// Currencies Stripe charges in whole units.
var zeroDecimal = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// Currencies with three minor digits. Stripe requires the last digit to be 0.
var threeDecimal = map[string]bool{
	"bhd": true, "jod": true, "kwd": true, "omr": true, "tnd": true,
}

// Exponent is the number of minor-unit digits for an ISO 4217 currency code.
func Exponent(currency string) int {
	c := strings.ToLower(currency)
	switch {
	case zeroDecimal[c]:
		return 0
	case threeDecimal[c]:
		return 3
	default:
		return 2
	}
}

// MinorUnits converts a major-currency amount to the nearest integer minor unit.
func MinorUnits(amount float64, currency string) int64 {
	exp := Exponent(currency)
	minor := int64(math.Round(amount * math.Pow10(exp)))
	if exp == 3 {
		minor = int64(math.Round(float64(minor)/10)) * 10
	}
	return minor
}

// MajorUnits converts a gateway amount back to the major currency unit.
func MajorUnits(minor int64, currency string) float64 {
	return float64(minor) / math.Pow10(Exponent(currency))
}
