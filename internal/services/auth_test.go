package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/lms-backend/internal/data/repos/testutil"
	"github.com/studyhall/lms-backend/internal/domain"
	"github.com/studyhall/lms-backend/internal/platform/ctxutil"
)

func newTokenOnlyAuthService(t *testing.T, ttl time.Duration) *authService {
	t.Helper()
	return &authService{
		log:          testutil.Logger(t),
		jwtSecretKey: "test-secret",
		accessTTL:    ttl,
	}
}

func TestSetContextFromToken_RoundTrip(t *testing.T) {
	svc := newTokenOnlyAuthService(t, time.Hour)
	user := &domain.User{ID: uuid.New(), Role: domain.RoleInstructor}

	token, err := svc.generateAccessToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	ctx, err := svc.SetContextFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		t.Fatalf("no request data in context")
	}
	if rd.UserID != user.ID {
		t.Fatalf("user id = %s, want %s", rd.UserID, user.ID)
	}
	if rd.Role != domain.RoleInstructor {
		t.Fatalf("role = %q, want instructor", rd.Role)
	}
}

func TestSetContextFromToken_RejectsBadTokens(t *testing.T) {
	svc := newTokenOnlyAuthService(t, time.Hour)

	if _, err := svc.SetContextFromToken(context.Background(), "not-a-token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("garbage token: got %v, want ErrUnauthorized", err)
	}

	other := newTokenOnlyAuthService(t, time.Hour)
	other.jwtSecretKey = "different-secret"
	token, err := other.generateAccessToken(&domain.User{ID: uuid.New(), Role: domain.RoleStudent})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc.SetContextFromToken(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("wrong key: got %v, want ErrUnauthorized", err)
	}
}

func TestSetContextFromToken_RejectsExpired(t *testing.T) {
	svc := newTokenOnlyAuthService(t, -time.Minute)
	token, err := svc.generateAccessToken(&domain.User{ID: uuid.New(), Role: domain.RoleStudent})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc.SetContextFromToken(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expired token: got %v, want ErrUnauthorized", err)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{domain.RoleAdmin, domain.RoleInstructor, domain.RoleStudent} {
		if !validRole(role) {
			t.Fatalf("%q rejected", role)
		}
	}
	if validRole("superuser") {
		t.Fatalf("unknown role accepted")
	}
}
