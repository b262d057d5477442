package repository

import (
	"context"
	"time"

	"github.com/mingle-social/mingle/internal/domain"
)

type TokenRepository interface {
	Create(ctx context.Context, token *domain.AccountToken) (*domain.AccountToken, error)

	// Consume atomically marks the token used and returns it. The
	// check-and-mark must behave as globally serialized per token: when two
	// callers race on the same token string, exactly one succeeds and the
	// other gets domain.ErrTokenAlreadyUsed. Other failure kinds are
	// domain.ErrTokenNotFound, domain.ErrTokenTypeMismatch and
	// domain.ErrTokenExpired.
	Consume(ctx context.Context, token string, expectedType domain.TokenType) (*domain.AccountToken, error)

	// DeleteExpiredUnused removes tokens that expired before cutoff without
	// ever being consumed. Consumed tokens are retained for audit.
	DeleteExpiredUnused(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}
