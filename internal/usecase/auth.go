package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/mingle-social/mingle/internal/domain"
	"github.com/mingle-social/mingle/internal/metrics"
	"github.com/mingle-social/mingle/internal/password"
	"github.com/mingle-social/mingle/internal/repository"
	"github.com/mingle-social/mingle/internal/session"
)

// AuthService orchestrates login: credential check, account status gate,
// session token issuance — strictly in that order. A wrong password on a
// suspended account reports bad credentials, never the suspension.
type AuthService struct {
	accounts repository.AccountRepository
	hasher   *password.Hasher
	sessions *session.Service
}

func NewAuthService(accounts repository.AccountRepository, hasher *password.Hasher, sessions *session.Service) *AuthService {
	return &AuthService{accounts: accounts, hasher: hasher, sessions: sessions}
}

// Login exchanges email+password for a signed session token.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, error) {
	account, customer, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// Burn a comparison anyway so an unknown email costs the
			// same as a wrong password.
			s.hasher.Verify(rawPassword, s.hasher.Dummy())
			metrics.LoginAttemptsTotal.WithLabelValues("bad_credentials").Inc()
			return "", domain.ErrBadCredentials
		}
		return "", fmt.Errorf("find account: %w", err)
	}

	if !s.hasher.Verify(rawPassword, account.PasswordHash) {
		metrics.LoginAttemptsTotal.WithLabelValues("bad_credentials").Inc()
		return "", domain.ErrBadCredentials
	}

	if err := account.GuardLogin(); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues(guardOutcome(err)).Inc()
		return "", err
	}

	signed, err := s.sessions.Issue(customer.Email, customer.Role)
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	return signed, nil
}

func guardOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountSuspended):
		return "suspended"
	case errors.Is(err, domain.ErrAccountNotVerified):
		return "not_verified"
	default:
		return "error"
	}
}
