package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mingle-social/mingle/internal/domain"
	"github.com/mingle-social/mingle/internal/email"
	"github.com/mingle-social/mingle/internal/password"
	"github.com/mingle-social/mingle/internal/repository"
)

// AccountService owns the account lifecycle flows: registration, activation,
// password reset and password change, plus the administrative suspension
// switch.
type AccountService struct {
	accounts  repository.AccountRepository
	customers repository.CustomerRepository
	ledger    *TokenLedger
	hasher    *password.Hasher
	email     email.Sender
	linkBase  string
	logger    *slog.Logger
}

func NewAccountService(
	accounts repository.AccountRepository,
	customers repository.CustomerRepository,
	ledger *TokenLedger,
	hasher *password.Hasher,
	emailSender email.Sender,
	linkBase string,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		customers: customers,
		ledger:    ledger,
		hasher:    hasher,
		email:     emailSender,
		linkBase:  linkBase,
		logger:    logger.With("component", "account_service"),
	}
}

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates the customer together with its pending account and mails
// the activation link. A failed email send does not fail registration; the
// caller can hit resend-activation.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.Customer, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	customer, _, err := s.accounts.CreateWithCustomer(ctx, input.Email, input.Name, domain.RoleUser, hash)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.sendActivation(ctx, customer)
	return customer, nil
}

// Activate redeems an activation token and flips the account to active.
// Redeeming is atomic, so a replayed link fails with ErrTokenAlreadyUsed
// even when two requests race.
func (s *AccountService) Activate(ctx context.Context, rawToken string) error {
	token, err := s.ledger.Consume(ctx, rawToken, domain.TokenTypeActivation)
	if err != nil {
		return err
	}

	account, err := s.accounts.FindByCustomerID(ctx, token.CustomerID)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}

	if err := account.Activate(); err != nil {
		return err
	}
	if err := s.accounts.UpdateStatus(ctx, account.ID, account.Status); err != nil {
		return fmt.Errorf("persist activation: %w", err)
	}
	return nil
}

// ResendActivation issues a fresh activation token for a pending account.
// Earlier activation tokens stay valid until they expire. Resending for an
// already active account is a no-op.
func (s *AccountService) ResendActivation(ctx context.Context, emailAddr string) error {
	customer, err := s.customers.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	account, err := s.accounts.FindByCustomerID(ctx, customer.ID)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}
	if account.Status != domain.StatusPendingVerification {
		return nil
	}

	s.sendActivation(ctx, customer)
	return nil
}

// RequestPasswordReset issues a reset token and mails the reset link.
func (s *AccountService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	customer, err := s.customers.FindByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	token, err := s.ledger.Issue(ctx, customer.ID, domain.TokenTypePasswordReset)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	link := s.linkBase + "/accounts/reset-password/" + token.Token
	body := fmt.Sprintf(
		`<p>Click the link below to choose a new password (expires in 24 hours):</p><p><a href="%s">%s</a></p>`,
		link, link,
	)
	s.send(ctx, customer.Email, "Reset your password", body)
	return nil
}

// FinalizePasswordReset redeems a reset token and stores the new password
// hash. Allowed in any account status.
func (s *AccountService) FinalizePasswordReset(ctx context.Context, rawToken, newPassword string) error {
	token, err := s.ledger.Consume(ctx, rawToken, domain.TokenTypePasswordReset)
	if err != nil {
		return err
	}

	account, err := s.accounts.FindByCustomerID(ctx, token.CustomerID)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("persist password: %w", err)
	}
	return nil
}

// ChangePassword swaps the password for an authenticated caller after
// re-proving the current one.
func (s *AccountService) ChangePassword(ctx context.Context, customerID, currentPassword, newPassword string) error {
	account, err := s.accounts.FindByCustomerID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("find account: %w", err)
	}

	if !s.hasher.Verify(currentPassword, account.PasswordHash) {
		return domain.ErrBadCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.accounts.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("persist password: %w", err)
	}
	return nil
}

// Suspend administratively locks an active account.
func (s *AccountService) Suspend(ctx context.Context, customerID string) error {
	return s.transition(ctx, customerID, (*domain.Account).Suspend)
}

// Reinstate lifts an administrative suspension.
func (s *AccountService) Reinstate(ctx context.Context, customerID string) error {
	return s.transition(ctx, customerID, (*domain.Account).Reinstate)
}

func (s *AccountService) transition(ctx context.Context, customerID string, step func(*domain.Account) error) error {
	account, err := s.accounts.FindByCustomerID(ctx, customerID)
	if err != nil {
		return err
	}
	if err := step(account); err != nil {
		return err
	}
	if err := s.accounts.UpdateStatus(ctx, account.ID, account.Status); err != nil {
		return fmt.Errorf("persist status: %w", err)
	}
	return nil
}

func (s *AccountService) sendActivation(ctx context.Context, customer *domain.Customer) {
	token, err := s.ledger.Issue(ctx, customer.ID, domain.TokenTypeActivation)
	if err != nil {
		s.logger.ErrorContext(ctx, "issue activation token", "error", err)
		return
	}

	link := s.linkBase + "/accounts/activate/" + token.Token
	body := fmt.Sprintf(
		`<p>Welcome! Click the link below to activate your account (expires in 24 hours):</p><p><a href="%s">%s</a></p>`,
		link, link,
	)
	s.send(ctx, customer.Email, "Activate your account", body)
}

func (s *AccountService) send(ctx context.Context, to, subject, body string) {
	if err := s.email.Send(ctx, to, subject, body); err != nil {
		s.logger.ErrorContext(ctx, "send account email", "to", to, "subject", subject, "error", err)
	}
}
