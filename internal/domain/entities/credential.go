package entities

import "time"

// Credential is a bearer token issued for the upstream content API.
type Credential struct {
	Token     string    // opaque access token
	ExpiresAt time.Time // moment the issuer stops accepting the token
}

// ValidAt reports whether the credential can still be used at now,
// keeping margin in reserve before the real expiry.
func (c *Credential) ValidAt(now time.Time, margin time.Duration) bool {
	if c == nil || c.Token == "" {
		return false
	}
	return now.Before(c.ExpiresAt.Add(-margin))
}
