package account

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"tableflip.dev/progressly/pkg/auth"
	"tableflip.dev/progressly/pkg/store"
)

func TestAccountFlow(t *testing.T) {
	ctx := context.Background()
	a := &auth.Local{Persistence: store.NewMemory()}

	if _, err := Require(ctx, a); !errors.Is(err, ErrSignedOut) {
		t.Fatalf("expected ErrSignedOut, got %v", err)
	}

	var buf bytes.Buffer
	up := SignUp{Name: "Ann", Email: "ann@example.com", Password: "secret1", ConfirmPassword: "secret1", Out: &buf, Auth: a}
	if err := up.Do(ctx); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if s, err := Require(ctx, a); err != nil || s.Email != "ann@example.com" {
		t.Fatalf("expected session, got %+v %v", s, err)
	}

	buf.Reset()
	if err := (&WhoAmI{Out: &buf, Auth: a}).Do(ctx); err != nil || !strings.Contains(buf.String(), "Ann (ann@example.com)") {
		t.Fatalf("whoami: %q %v", buf.String(), err)
	}

	if err := (&SignOut{Out: &buf, Auth: a}).Do(ctx); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	buf.Reset()
	_ = (&WhoAmI{Out: &buf, Auth: a}).Do(ctx)
	if !strings.Contains(buf.String(), "Not signed in.") {
		t.Fatalf("expected signed out, got %q", buf.String())
	}

	in := SignIn{Email: "ann@example.com", Password: "nope-nope", Out: &buf, Auth: a}
	if err := in.Do(ctx); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	in = SignIn{Email: "ann@example.com", Password: "secret1", Out: &buf, Auth: a}
	if err := in.Do(ctx); err != nil {
		t.Fatalf("sign in: %v", err)
	}
}

func TestSignUpWithoutPromptReportsMissingFields(t *testing.T) {
	a := &auth.Local{Persistence: store.NewMemory()}
	up := SignUp{Email: "x@example.com", Auth: a}
	if err := up.Do(context.Background()); !errors.Is(err, auth.ErrFieldsRequired) {
		t.Fatalf("expected ErrFieldsRequired, got %v", err)
	}
}
