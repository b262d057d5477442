package domain

import "errors"

// One sentinel per failure kind. Handlers map these to HTTP statuses with
// errors.Is; nothing in this package or below retries on them.
var (
	// Login failures. ErrBadCredentials deliberately covers both "unknown
	// email" and "wrong password" so callers cannot enumerate accounts.
	ErrBadCredentials     = errors.New("bad credentials")
	ErrAccountNotVerified = errors.New("account pending verification")
	ErrAccountSuspended   = errors.New("account suspended")

	// Single-use token failures.
	ErrTokenNotFound     = errors.New("token not found")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenAlreadyUsed  = errors.New("token already used")
	ErrTokenTypeMismatch = errors.New("token type mismatch")

	// Lookup / lifecycle failures.
	ErrEmailTaken        = errors.New("email already registered")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidTransition = errors.New("illegal account status transition")
)
