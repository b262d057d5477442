package principal_test

import (
	"context"
	"testing"

	"github.com/mingle-social/mingle/internal/domain"
	"github.com/mingle-social/mingle/internal/principal"
)

func TestHasRole(t *testing.T) {
	user := principal.Principal{Role: domain.RoleUser}
	admin := principal.Principal{Role: domain.RoleAdmin}

	if !user.HasRole(domain.RoleUser) {
		t.Error("user should satisfy user role")
	}
	if user.HasRole(domain.RoleAdmin) {
		t.Error("user should not satisfy admin role")
	}
	if !admin.HasRole(domain.RoleAdmin) || !admin.HasRole(domain.RoleUser) {
		t.Error("admin should satisfy every role")
	}
}

func TestWithPrincipal_DoesNotOverwrite(t *testing.T) {
	first := principal.Principal{CustomerID: "c1", Email: "a@example.com", Role: domain.RoleUser}
	second := principal.Principal{CustomerID: "c2", Email: "b@example.com", Role: domain.RoleAdmin}

	ctx := principal.WithPrincipal(context.Background(), first)
	ctx = principal.WithPrincipal(ctx, second)

	got, ok := principal.FromContext(ctx)
	if !ok {
		t.Fatal("principal missing from context")
	}
	if got != first {
		t.Errorf("principal = %+v, want the first-installed %+v", got, first)
	}
}

func TestFromContext_Empty(t *testing.T) {
	if _, ok := principal.FromContext(context.Background()); ok {
		t.Error("expected no principal in empty context")
	}
}
