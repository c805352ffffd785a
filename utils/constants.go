package utils

// Redis key prefixes for the per-IP request counters.
const (
	OTPRequestKeyPrefix = "otp_req:"
	RequestKeyPrefix    = "req:"
)
