package repository

import (
	"context"

	"github.com/mingle-social/mingle/internal/domain"
)

// CustomerRepository is the identity lookup consumed by the authentication
// filter and the out-of-band token flows.
type CustomerRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
}
