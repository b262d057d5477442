package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mingle-social/mingle/internal/domain"
	"github.com/mingle-social/mingle/internal/usecase"
)

// memTokenRepo mimics the conditional-update semantics of the postgres
// repository: check-and-mark happens under one lock, so racing consumers
// serialize exactly like racing UPDATE statements.
type memTokenRepo struct {
	mu     sync.Mutex
	nextID int
	byRaw  map[string]*domain.AccountToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{byRaw: make(map[string]*domain.AccountToken)}
}

func (r *memTokenRepo) Create(_ context.Context, token *domain.AccountToken) (*domain.AccountToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *token
	stored.ID = fmt.Sprintf("tok-%d", r.nextID)
	stored.CreatedAt = time.Now()
	r.byRaw[stored.Token] = &stored

	out := stored
	return &out, nil
}

func (r *memTokenRepo) Consume(_ context.Context, raw string, expectedType domain.TokenType) (*domain.AccountToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byRaw[raw]
	switch {
	case !ok:
		return nil, domain.ErrTokenNotFound
	case stored.Type != expectedType:
		return nil, domain.ErrTokenTypeMismatch
	case time.Now().After(stored.ExpiresAt):
		return nil, domain.ErrTokenExpired
	case stored.Used:
		return nil, domain.ErrTokenAlreadyUsed
	}

	stored.Used = true
	out := *stored
	return &out, nil
}

func (r *memTokenRepo) DeleteExpiredUnused(_ context.Context, cutoff time.Time, limit int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for raw, tok := range r.byRaw {
		if n == int64(limit) {
			break
		}
		if !tok.Used && tok.ExpiresAt.Before(cutoff) {
			delete(r.byRaw, raw)
			n++
		}
	}
	return n, nil
}

func TestIssueThenConsume_SucceedsExactlyOnce(t *testing.T) {
	ledger := usecase.NewTokenLedger(newMemTokenRepo(), 24*time.Hour)
	ctx := context.Background()

	issued, err := ledger.Issue(ctx, "cust-1", domain.TokenTypeActivation)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.Used {
		t.Fatal("freshly issued token is marked used")
	}
	if len(issued.Token) != 64 {
		t.Fatalf("token length = %d, want 64 hex chars", len(issued.Token))
	}

	consumed, err := ledger.Consume(ctx, issued.Token, domain.TokenTypeActivation)
	if err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if !consumed.Used {
		t.Error("consumed token not marked used")
	}
	if consumed.CustomerID != "cust-1" {
		t.Errorf("customer = %q, want cust-1", consumed.CustomerID)
	}

	if _, err := ledger.Consume(ctx, issued.Token, domain.TokenTypeActivation); !errors.Is(err, domain.ErrTokenAlreadyUsed) {
		t.Errorf("second consume err = %v, want ErrTokenAlreadyUsed", err)
	}
}

func TestConsume_UnknownToken(t *testing.T) {
	ledger := usecase.NewTokenLedger(newMemTokenRepo(), 24*time.Hour)

	_, err := ledger.Consume(context.Background(), "no-such-token", domain.TokenTypeActivation)
	if !errors.Is(err, domain.ErrTokenNotFound) {
		t.Errorf("err = %v, want ErrTokenNotFound", err)
	}
}

func TestConsume_WrongType(t *testing.T) {
	ledger := usecase.NewTokenLedger(newMemTokenRepo(), 24*time.Hour)
	ctx := context.Background()

	issued, err := ledger.Issue(ctx, "cust-1", domain.TokenTypeActivation)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := ledger.Consume(ctx, issued.Token, domain.TokenTypePasswordReset); !errors.Is(err, domain.ErrTokenTypeMismatch) {
		t.Fatalf("err = %v, want ErrTokenTypeMismatch", err)
	}

	// The mismatch must not have burned the token.
	if _, err := ledger.Consume(ctx, issued.Token, domain.TokenTypeActivation); err != nil {
		t.Errorf("consume with correct type after mismatch: %v", err)
	}
}

func TestConsume_Expired(t *testing.T) {
	// Negative TTL issues tokens that are already expired.
	ledger := usecase.NewTokenLedger(newMemTokenRepo(), -time.Hour)
	ctx := context.Background()

	issued, err := ledger.Issue(ctx, "cust-1", domain.TokenTypePasswordReset)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := ledger.Consume(ctx, issued.Token, domain.TokenTypePasswordReset); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestIssue_DoesNotInvalidatePriorTokens(t *testing.T) {
	ledger := usecase.NewTokenLedger(newMemTokenRepo(), 24*time.Hour)
	ctx := context.Background()

	first, err := ledger.Issue(ctx, "cust-1", domain.TokenTypeActivation)
	if err != nil {
		t.Fatalf("issue first: %v", err)
	}
	second, err := ledger.Issue(ctx, "cust-1", domain.TokenTypeActivation)
	if err != nil {
		t.Fatalf("issue second: %v", err)
	}
	if first.Token == second.Token {
		t.Fatal("two issued tokens share the same string")
	}

	if _, err := ledger.Consume(ctx, first.Token, domain.TokenTypeActivation); err != nil {
		t.Errorf("older token no longer consumable: %v", err)
	}
	if _, err := ledger.Consume(ctx, second.Token, domain.TokenTypeActivation); err != nil {
		t.Errorf("newer token no longer consumable: %v", err)
	}
}

func TestConsume_ConcurrentDoubleRedeem(t *testing.T) {
	ledger := usecase.NewTokenLedger(newMemTokenRepo(), 24*time.Hour)
	ctx := context.Background()

	issued, err := ledger.Issue(ctx, "cust-1", domain.TokenTypePasswordReset)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	results := make(chan error, 2)
	var start sync.WaitGroup
	start.Add(1)

	for range 2 {
		go func() {
			start.Wait()
			_, err := ledger.Consume(ctx, issued.Token, domain.TokenTypePasswordReset)
			results <- err
		}()
	}
	start.Done()

	var ok, alreadyUsed int
	for range 2 {
		switch err := <-results; {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrTokenAlreadyUsed):
			alreadyUsed++
		default:
			t.Fatalf("unexpected consume error: %v", err)
		}
	}

	if ok != 1 || alreadyUsed != 1 {
		t.Errorf("got %d successes and %d already-used, want exactly 1 of each", ok, alreadyUsed)
	}
}
