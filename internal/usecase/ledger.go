package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mingle-social/mingle/internal/domain"
	"github.com/mingle-social/mingle/internal/metrics"
	"github.com/mingle-social/mingle/internal/repository"
)

const tokenBytes = 32

// TokenLedger issues and redeems the single-use tokens behind activation
// and password-reset links. Issuing does not invalidate earlier live tokens
// of the same type; every outstanding token stays redeemable until it is
// used or expires.
type TokenLedger struct {
	tokens repository.TokenRepository
	ttl    time.Duration
}

func NewTokenLedger(tokens repository.TokenRepository, ttl time.Duration) *TokenLedger {
	return &TokenLedger{tokens: tokens, ttl: ttl}
}

// Issue persists and returns a fresh token for the customer. 256 bits of
// entropy plus a unique index make collisions a non-event.
func (l *TokenLedger) Issue(ctx context.Context, customerID string, typ domain.TokenType) (*domain.AccountToken, error) {
	raw := make([]byte, tokenBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	token := &domain.AccountToken{
		CustomerID: customerID,
		Token:      hex.EncodeToString(raw),
		Type:       typ,
		ExpiresAt:  time.Now().Add(l.ttl),
	}

	created, err := l.tokens.Create(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(typ)).Inc()
	return created, nil
}

// Consume redeems the token exactly once. All failure kinds come back as
// domain sentinels; see repository.TokenRepository for the atomicity
// contract.
func (l *TokenLedger) Consume(ctx context.Context, raw string, expectedType domain.TokenType) (*domain.AccountToken, error) {
	token, err := l.tokens.Consume(ctx, raw, expectedType)
	metrics.TokensConsumedTotal.WithLabelValues(string(expectedType), consumeOutcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	return token, nil
}

func consumeOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrTokenNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrTokenTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenAlreadyUsed):
		return "already_used"
	default:
		return "error"
	}
}
