package domain

import "time"

type TokenType string

const (
	TokenTypeActivation    TokenType = "activation"
	TokenTypePasswordReset TokenType = "password_reset"
)

// AccountToken is a single-use, time-boxed credential sent out of band
// (activation links, password-reset links). Once Used is set the token is
// permanently inert; consumed tokens are kept for audit.
type AccountToken struct {
	ID         string
	CustomerID string
	Token      string
	Type       TokenType
	Used       bool
	CreatedAt  time.Time
	ExpiresAt  time.Time
}
