package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mingle-social/mingle/internal/domain"
)

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Create(ctx context.Context, token *domain.AccountToken) (*domain.AccountToken, error) {
	query := `
		INSERT INTO account_tokens (customer_id, token, type, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, customer_id, token, type, used, created_at, expires_at`

	row := r.pool.QueryRow(ctx, query,
		token.CustomerID, token.Token, token.Type, token.ExpiresAt,
	)
	created, err := scanToken(row)
	if err != nil {
		return nil, fmt.Errorf("insert account token: %w", err)
	}
	return created, nil
}

// Consume is a single conditional update, so two racing calls on the same
// token string can never both succeed: the row is only matched while
// used = FALSE.
func (r *TokenRepository) Consume(ctx context.Context, token string, expectedType domain.TokenType) (*domain.AccountToken, error) {
	query := `
		UPDATE account_tokens
		SET    used = TRUE
		WHERE  token = $1
		  AND  type = $2
		  AND  used = FALSE
		  AND  expires_at > NOW()
		RETURNING id, customer_id, token, type, used, created_at, expires_at`

	consumed, err := scanToken(r.pool.QueryRow(ctx, query, token, expectedType))
	if err == nil {
		return consumed, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("consume account token: %w", err)
	}

	// The conditional update matched nothing. Re-read the row to tell the
	// caller why; a racing winner leaves used = TRUE behind for us to see.
	return nil, r.classifyFailure(ctx, token, expectedType)
}

func (r *TokenRepository) classifyFailure(ctx context.Context, token string, expectedType domain.TokenType) error {
	var (
		typ       domain.TokenType
		used      bool
		expiresAt time.Time
	)
	err := r.pool.QueryRow(ctx,
		`SELECT type, used, expires_at FROM account_tokens WHERE token = $1`,
		token,
	).Scan(&typ, &used, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTokenNotFound
		}
		return fmt.Errorf("classify token failure: %w", err)
	}

	switch {
	case typ != expectedType:
		return domain.ErrTokenTypeMismatch
	case time.Now().After(expiresAt):
		return domain.ErrTokenExpired
	case used:
		return domain.ErrTokenAlreadyUsed
	default:
		// The row became consumable between the update and this read;
		// treat the original attempt as lost to a racing winner.
		return domain.ErrTokenAlreadyUsed
	}
}

func (r *TokenRepository) DeleteExpiredUnused(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	query := `
		DELETE FROM account_tokens
		WHERE id IN (
			SELECT id FROM account_tokens
			WHERE used = FALSE AND expires_at < $1
			LIMIT $2
		)`

	tag, err := r.pool.Exec(ctx, query, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanToken(row pgx.Row) (*domain.AccountToken, error) {
	var t domain.AccountToken
	err := row.Scan(&t.ID, &t.CustomerID, &t.Token, &t.Type, &t.Used, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
