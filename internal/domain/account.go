package domain

import "time"

type AccountStatus string

const (
	StatusPendingVerification AccountStatus = "pending_verification"
	StatusActive              AccountStatus = "active"
	StatusSuspended           AccountStatus = "suspended"
)

// Account holds the credential and verification state for exactly one
// customer. The password hash is write-only from the outside: it is never
// logged or returned over the wire.
type Account struct {
	ID           string
	CustomerID   string
	PasswordHash string
	Status       AccountStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Activate moves a pending account to active. Activating an already active
// account is a no-op so that a replayed activation link does not fail.
// A suspended account cannot be activated this way.
func (a *Account) Activate() error {
	switch a.Status {
	case StatusActive:
		return nil
	case StatusPendingVerification:
		a.Status = StatusActive
		return nil
	default:
		return ErrInvalidTransition
	}
}

// GuardLogin rejects logins for accounts that are not active. Callers must
// verify the password before calling this, so the distinct errors here do
// not leak account state to unauthenticated parties.
func (a *Account) GuardLogin() error {
	switch a.Status {
	case StatusSuspended:
		return ErrAccountSuspended
	case StatusPendingVerification:
		return ErrAccountNotVerified
	default:
		return nil
	}
}

// Suspend is the administrative off switch. Only active accounts can be
// suspended.
func (a *Account) Suspend() error {
	if a.Status != StatusActive {
		return ErrInvalidTransition
	}
	a.Status = StatusSuspended
	return nil
}

// Reinstate lifts an administrative suspension.
func (a *Account) Reinstate() error {
	if a.Status != StatusSuspended {
		return ErrInvalidTransition
	}
	a.Status = StatusActive
	return nil
}
