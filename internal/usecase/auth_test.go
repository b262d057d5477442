package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mingle-social/mingle/internal/domain"
	"github.com/mingle-social/mingle/internal/password"
	"github.com/mingle-social/mingle/internal/session"
	"github.com/mingle-social/mingle/internal/usecase"
)

// ---- fakes ----

type fakeAccountRepo struct {
	createWithCustomer func(ctx context.Context, email, name string, role domain.Role, passwordHash string) (*domain.Customer, *domain.Account, error)
	findByEmail        func(ctx context.Context, email string) (*domain.Account, *domain.Customer, error)
	findByCustomerID   func(ctx context.Context, customerID string) (*domain.Account, error)
	updateStatus       func(ctx context.Context, accountID string, status domain.AccountStatus) error
	updatePasswordHash func(ctx context.Context, accountID, passwordHash string) error
}

func (r *fakeAccountRepo) CreateWithCustomer(ctx context.Context, email, name string, role domain.Role, passwordHash string) (*domain.Customer, *domain.Account, error) {
	return r.createWithCustomer(ctx, email, name, role, passwordHash)
}

func (r *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, *domain.Customer, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeAccountRepo) FindByCustomerID(ctx context.Context, customerID string) (*domain.Account, error) {
	return r.findByCustomerID(ctx, customerID)
}

func (r *fakeAccountRepo) UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus) error {
	return r.updateStatus(ctx, accountID, status)
}

func (r *fakeAccountRepo) UpdatePasswordHash(ctx context.Context, accountID, passwordHash string) error {
	return r.updatePasswordHash(ctx, accountID, passwordHash)
}

// ---- helpers ----

const (
	testSessionKey = "auth-test-session-key-32-chars!!!"
	testPassword   = "correct horse battery staple"
)

func testHasher(t *testing.T) *password.Hasher {
	t.Helper()
	h, err := password.NewHasher(bcrypt.MinCost, 4)
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	return h
}

func repoWithAccount(t *testing.T, h *password.Hasher, status domain.AccountStatus) *fakeAccountRepo {
	t.Helper()
	hash, err := h.Hash(testPassword)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	account := &domain.Account{ID: "acct-1", CustomerID: "cust-1", PasswordHash: hash, Status: status}
	customer := &domain.Customer{ID: "cust-1", Email: "alice@example.com", Role: domain.RoleUser}

	return &fakeAccountRepo{
		findByEmail: func(_ context.Context, email string) (*domain.Account, *domain.Customer, error) {
			if email != customer.Email {
				return nil, nil, domain.ErrAccountNotFound
			}
			return account, customer, nil
		},
	}
}

func newAuthService(t *testing.T, repo *fakeAccountRepo, h *password.Hasher) *usecase.AuthService {
	t.Helper()
	sessions := session.NewService([]byte(testSessionKey), time.Hour)
	return usecase.NewAuthService(repo, h, sessions)
}

// ---- Login ----

func TestLogin_ActiveAccount_ReturnsTokenWithEmailClaim(t *testing.T) {
	h := testHasher(t)
	svc := newAuthService(t, repoWithAccount(t, h, domain.StatusActive), h)

	signed, err := svc.Login(context.Background(), "alice@example.com", testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	sessions := session.NewService([]byte(testSessionKey), time.Hour)
	if !sessions.Validate(signed) {
		t.Fatal("returned token does not validate")
	}
	claims, err := sessions.ExtractClaims(signed)
	if err != nil {
		t.Fatalf("extract claims: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("email claim = %q, want alice@example.com", claims.Email)
	}
	if claims.Role != domain.RoleUser {
		t.Errorf("role claim = %q, want user", claims.Role)
	}
}

func TestLogin_UnknownEmail_BadCredentials(t *testing.T) {
	h := testHasher(t)
	svc := newAuthService(t, repoWithAccount(t, h, domain.StatusActive), h)

	_, err := svc.Login(context.Background(), "nobody@example.com", testPassword)
	if !errors.Is(err, domain.ErrBadCredentials) {
		t.Errorf("err = %v, want ErrBadCredentials", err)
	}
}

func TestLogin_WrongPassword_BadCredentials(t *testing.T) {
	h := testHasher(t)
	svc := newAuthService(t, repoWithAccount(t, h, domain.StatusActive), h)

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, domain.ErrBadCredentials) {
		t.Errorf("err = %v, want ErrBadCredentials", err)
	}
}

func TestLogin_PendingAccount_NotVerified(t *testing.T) {
	h := testHasher(t)
	svc := newAuthService(t, repoWithAccount(t, h, domain.StatusPendingVerification), h)

	_, err := svc.Login(context.Background(), "alice@example.com", testPassword)
	if !errors.Is(err, domain.ErrAccountNotVerified) {
		t.Errorf("err = %v, want ErrAccountNotVerified", err)
	}
}

func TestLogin_SuspendedAccount_Suspended(t *testing.T) {
	h := testHasher(t)
	svc := newAuthService(t, repoWithAccount(t, h, domain.StatusSuspended), h)

	_, err := svc.Login(context.Background(), "alice@example.com", testPassword)
	if !errors.Is(err, domain.ErrAccountSuspended) {
		t.Errorf("err = %v, want ErrAccountSuspended", err)
	}
}

// The credential gate runs strictly before the status gate: a wrong password
// on a suspended account must not reveal the suspension.
func TestLogin_WrongPasswordOnSuspended_BadCredentials(t *testing.T) {
	h := testHasher(t)
	svc := newAuthService(t, repoWithAccount(t, h, domain.StatusSuspended), h)

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, domain.ErrBadCredentials) {
		t.Errorf("err = %v, want ErrBadCredentials (must hide suspension)", err)
	}
}
