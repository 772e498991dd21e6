package domain

import "time"

// Account is a registered user.
//
// Verification is non-nil only while an email verification is pending; it is
// cleared for good once EmailVerified becomes true.
type Account struct {
	Id            UserId
	Email         Email
	Name          string
	MobileNumber  string
	Address       string
	PassHash      string
	EmailVerified bool
	Verification  *Verification
	CreatedAt     time.Time
}

// Verification is the pending email verification of an account. ExpiresAt is
// kept in its persisted RFC 3339 form and parsed on use.
type Verification struct {
	Token     string
	ExpiresAt string
}

func NewVerification(token string, expires time.Time) *Verification {
	return &Verification{Token: token, ExpiresAt: expires.UTC().Format(time.RFC3339Nano)}
}

// Expiry parses the persisted expiry instant.
func (v Verification) Expiry() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v.ExpiresAt)
}

// Registration is the boundary-validated input of a sign-up.
type Registration struct {
	Email        Email
	Password     Password
	Name         string
	MobileNumber string
	Address      string
}

// Profile holds the user-editable attributes of an account.
type Profile struct {
	Email        Email
	Name         string
	MobileNumber string
	Address      string
}

type Credentials struct {
	Email    Email
	Password Password
}

type AccessToken struct {
	Token     string
	TokenType string
}
