package domain

import "strings"

// Recipient is the identity a delivery is addressed to. UserID optionally
// links the recipient back to a directory user; templates may use Name.
type Recipient struct {
	Email  string
	Name   string
	UserID string
}

// Key is the identity used for deduplication within a campaign.
func (r Recipient) Key() string {
	return NormalizeEmail(r.Email)
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
