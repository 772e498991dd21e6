package domain

type (
	Email    = string
	Password = string
	UserId   = int64
)

// TokenTypeBearer is the token type returned with every issued access token.
const TokenTypeBearer = "Bearer"

type VerificationStatus = string

const VerificationConfirmed VerificationStatus = "confirmed"
