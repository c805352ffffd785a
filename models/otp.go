package models

import "time"

// PendingOTP is the single live one-time code for a normalized phone number.
type PendingOTP struct {
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the code is no longer usable at now.
func (p PendingOTP) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
