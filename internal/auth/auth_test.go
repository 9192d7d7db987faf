package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"subtrack/internal/keyval"
)

func newTestService() *Service {
	return NewService(keyval.NewMemoryStore(), "test-secret", time.Hour)
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, token, err := svc.SignUp(ctx, "Alice@Example.com", "hunter2", "Alice")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.ID == "" || token == "" {
		t.Fatal("SignUp returned empty user id or token")
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want lowercased", user.Email)
	}

	if _, _, err := svc.SignUp(ctx, "alice@example.com", "x", "Alice"); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate SignUp error = %v, want ErrUserExists", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "pw"},
		{"no at sign", "not-an-email", "pw"},
		{"empty password", "a@b.com", ""},
		{"blank password", "a@b.com", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.SignUp(ctx, tt.email, tt.password, ""); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("SignUp error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestSignUpDefaultsName(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, _, err := svc.SignUp(ctx, "bob@example.com", "pw", "")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.Name != "bob" {
		t.Errorf("name = %q, want local part of email", user.Name)
	}
}

func TestSignInCreatesUnknownUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, token, err := svc.SignIn(ctx, "new@example.com", "anything")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if user.ID == "" || token == "" {
		t.Fatal("SignIn returned empty user id or token")
	}

	again, _, err := svc.SignIn(ctx, "new@example.com", "different-password")
	if err != nil {
		t.Fatalf("second SignIn: %v", err)
	}
	if again.ID != user.ID {
		t.Error("second SignIn produced a different user")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	user, token, err := svc.SignUp(ctx, "a@b.com", "pw", "A")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	got, err := svc.CurrentUser(ctx, token)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got.ID != user.ID || got.Email != user.Email {
		t.Errorf("CurrentUser = %+v, want %+v", got, user)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestService()
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.VerifyToken(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("VerifyToken(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	other := NewService(keyval.NewMemoryStore(), "other-secret", time.Hour)

	_, token, err := svc.SignUp(ctx, "a@b.com", "pw", "A")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := other.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken with wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	_, token, err := svc.SignUp(ctx, "a@b.com", "pw", "A")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken(expired) error = %v, want ErrInvalidToken", err)
	}
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	if err := svc.SignOut(ctx, "user-1"); err != nil {
		t.Errorf("SignOut: %v", err)
	}
}
