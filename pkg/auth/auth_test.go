package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"tableflip.dev/progressly/pkg/store"
)

func TestSignUpValidation(t *testing.T) {
	l := &Local{Persistence: store.NewMemory()}
	ctx := context.Background()
	cases := []struct {
		req  SignUpRequest
		want error
	}{
		{SignUpRequest{Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret1"}, ErrFieldsRequired},
		{SignUpRequest{Name: "Ann", Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret2"}, ErrPasswordMismatch},
		{SignUpRequest{Name: "Ann", Email: "a@b.c", Password: "abc", ConfirmPassword: "abc"}, ErrPasswordTooShort},
	}
	for _, tc := range cases {
		if _, err := l.SignUp(ctx, tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("SignUp(%+v): expected %v, got %v", tc.req, tc.want, err)
		}
		if !IsValidation(tc.want) {
			t.Fatalf("%v should be a validation error", tc.want)
		}
	}
	if _, ok, _ := l.Current(ctx); ok {
		t.Fatalf("failed sign up must not start a session")
	}
}

func TestSignUpSignInSignOut(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	l := &Local{Persistence: mem}

	s, err := l.SignUp(ctx, SignUpRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1", ConfirmPassword: "secret1"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if s.Email != "ann@example.com" || s.Name != "Ann" {
		t.Fatalf("unexpected session %+v", s)
	}
	cur, ok, err := l.Current(ctx)
	if err != nil || !ok || cur != s {
		t.Fatalf("expected signed in as %+v, got %+v %v %v", s, cur, ok, err)
	}
	if _, err := l.SignUp(ctx, SignUpRequest{Name: "Other", Email: "ann@example.com", Password: "secret2", ConfirmPassword: "secret2"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	if err := l.SignOut(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, ok, _ := l.Current(ctx); ok {
		t.Fatalf("expected signed out")
	}

	if _, err := l.SignIn(ctx, "", "secret1"); !errors.Is(err, ErrCredentialsRequired) {
		t.Fatalf("expected ErrCredentialsRequired, got %v", err)
	}
	if _, err := l.SignIn(ctx, "ann@example.com", "wrong-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := l.SignIn(ctx, "ann@example.com", "secret1"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if cur, ok, _ := l.Current(ctx); !ok || cur.Name != "Ann" {
		t.Fatalf("expected session after sign in, got %+v", cur)
	}

	raw, err := mem.Read(ctx, store.UsersKey)
	if err != nil {
		t.Fatalf("read users: %v", err)
	}
	if !strings.Contains(string(raw), `"password":"secret1"`) {
		t.Fatalf("plaintext scheme should store the password as entered: %s", raw)
	}
}

func TestBcryptScheme(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	l := &Local{Persistence: mem, Scheme: Bcrypt{Cost: bcrypt.MinCost}}

	if _, err := l.SignUp(ctx, SignUpRequest{Name: "Bo", Email: "bo@example.com", Password: "hunter22", ConfirmPassword: "hunter22"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	raw, err := mem.Read(ctx, store.UsersKey)
	if err != nil {
		t.Fatalf("read users: %v", err)
	}
	if strings.Contains(string(raw), "hunter22") {
		t.Fatalf("bcrypt scheme must not store the password: %s", raw)
	}
	if _, err := l.SignIn(ctx, "bo@example.com", "hunter22"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if _, err := l.SignIn(ctx, "bo@example.com", "hunter23"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSchemeFor(t *testing.T) {
	if s, err := SchemeFor("bcrypt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	} else if _, ok := s.(Bcrypt); !ok {
		t.Fatalf("expected Bcrypt, got %T", s)
	}
	if _, err := SchemeFor("rot13"); err == nil {
		t.Fatalf("expected error for unknown scheme")
	}
}
