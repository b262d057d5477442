package repository

import (
	"context"

	"github.com/mingle-social/mingle/internal/domain"
)

type AccountRepository interface {
	// CreateWithCustomer inserts the customer and its account in one
	// transaction. The account starts in pending_verification. Returns
	// domain.ErrEmailTaken when the email is already registered.
	CreateWithCustomer(ctx context.Context, email, name string, role domain.Role, passwordHash string) (*domain.Customer, *domain.Account, error)

	// FindByEmail resolves the account together with the customer it
	// belongs to. Returns domain.ErrAccountNotFound when the email is
	// unknown.
	FindByEmail(ctx context.Context, email string) (*domain.Account, *domain.Customer, error)

	// FindByCustomerID resolves the account owned by the customer.
	FindByCustomerID(ctx context.Context, customerID string) (*domain.Account, error)

	UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus) error
	UpdatePasswordHash(ctx context.Context, accountID, passwordHash string) error
}
