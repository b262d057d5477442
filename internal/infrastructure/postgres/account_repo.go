package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mingle-social/mingle/internal/domain"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) CreateWithCustomer(ctx context.Context, email, name string, role domain.Role, passwordHash string) (*domain.Customer, *domain.Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var c domain.Customer
	err = tx.QueryRow(ctx, `
		INSERT INTO customers (email, name, role)
		VALUES ($1, $2, $3)
		RETURNING id, email, name, role, created_at, updated_at`,
		email, name, role,
	).Scan(&c.ID, &c.Email, &c.Name, &c.Role, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, nil, domain.ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("insert customer: %w", err)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO accounts (customer_id, password_hash, status)
		VALUES ($1, $2, $3)
		RETURNING id, customer_id, password_hash, status, created_at, updated_at`,
		c.ID, passwordHash, domain.StatusPendingVerification,
	)
	a, err := scanAccount(row)
	if err != nil {
		return nil, nil, fmt.Errorf("insert account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}
	return &c, a, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, *domain.Customer, error) {
	query := `
		SELECT a.id, a.customer_id, a.password_hash, a.status, a.created_at, a.updated_at,
		       c.id, c.email, c.name, c.role, c.created_at, c.updated_at
		FROM accounts a
		JOIN customers c ON c.id = a.customer_id
		WHERE c.email = $1`

	var a domain.Account
	var c domain.Customer
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.CustomerID, &a.PasswordHash, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&c.ID, &c.Email, &c.Name, &c.Role, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrAccountNotFound
		}
		return nil, nil, fmt.Errorf("find account by email: %w", err)
	}
	return &a, &c, nil
}

func (r *AccountRepository) FindByCustomerID(ctx context.Context, customerID string) (*domain.Account, error) {
	query := `
		SELECT id, customer_id, password_hash, status, created_at, updated_at
		FROM accounts
		WHERE customer_id = $1`

	return scanAccount(r.pool.QueryRow(ctx, query, customerID))
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET status = $2, updated_at = NOW() WHERE id = $1`,
		accountID, status,
	)
	if err != nil {
		return fmt.Errorf("update account status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) UpdatePasswordHash(ctx context.Context, accountID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		accountID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.CustomerID, &a.PasswordHash, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}
