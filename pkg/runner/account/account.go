// Package account provides the sign up, sign in and sign out runners.
package account

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"tableflip.dev/progressly/pkg/auth"
)

// ErrSignedOut is returned by Require when no session exists.
var ErrSignedOut = errors.New("not signed in, run `progressly signin` or `progressly signup` first")

// Require fails unless a user is signed in.
func Require(ctx context.Context, a auth.Authenticator) (auth.Session, error) {
	s, ok, err := a.Current(ctx)
	if err != nil {
		return auth.Session{}, err
	}
	if !ok {
		return auth.Session{}, ErrSignedOut
	}
	return s, nil
}

func output(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

// prompt asks for a value when it is empty and prompting is allowed.
func prompt(value *string, label string, mask bool, allowed bool) error {
	if *value != "" || !allowed {
		return nil
	}
	p := promptui.Prompt{Label: label}
	if mask {
		p.Mask = '*'
	}
	v, err := p.Run()
	if err != nil {
		return err
	}
	*value = v
	return nil
}

// SignUp registers a user and signs them in. Missing fields are prompted
// for when Interactive is set.
type SignUp struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Interactive     bool
	Out             io.Writer

	Auth auth.Authenticator
}

func (n *SignUp) Do(ctx context.Context) error {
	if n.Auth == nil {
		return errors.New("can not sign up, no authenticator")
	}
	for _, f := range []struct {
		value *string
		label string
		mask  bool
	}{
		{&n.Name, "Name", false},
		{&n.Email, "Email", false},
		{&n.Password, "Password", true},
		{&n.ConfirmPassword, "Confirm password", true},
	} {
		if err := prompt(f.value, f.label, f.mask, n.Interactive); err != nil {
			return err
		}
	}
	s, err := n.Auth.SignUp(ctx, auth.SignUpRequest{
		Name:            n.Name,
		Email:           n.Email,
		Password:        n.Password,
		ConfirmPassword: n.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(output(n.Out), "Welcome, %s! You are signed in as %s.\n", s.Name, s.Email)
	return nil
}

// SignIn starts a session.
type SignIn struct {
	Email       string
	Password    string
	Interactive bool
	Out         io.Writer

	Auth auth.Authenticator
}

func (n *SignIn) Do(ctx context.Context) error {
	if n.Auth == nil {
		return errors.New("can not sign in, no authenticator")
	}
	if err := prompt(&n.Email, "Email", false, n.Interactive); err != nil {
		return err
	}
	if err := prompt(&n.Password, "Password", true, n.Interactive); err != nil {
		return err
	}
	s, err := n.Auth.SignIn(ctx, n.Email, n.Password)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(output(n.Out), "Signed in as %s (%s).\n", s.Name, s.Email)
	return nil
}

// SignOut ends the session.
type SignOut struct {
	Out io.Writer

	Auth auth.Authenticator
}

func (n *SignOut) Do(ctx context.Context) error {
	if n.Auth == nil {
		return errors.New("can not sign out, no authenticator")
	}
	if err := n.Auth.SignOut(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(output(n.Out), "Signed out.")
	return nil
}

// WhoAmI prints the signed in user.
type WhoAmI struct {
	Out io.Writer

	Auth auth.Authenticator
}

func (n *WhoAmI) Do(ctx context.Context) error {
	if n.Auth == nil {
		return errors.New("can not look up session, no authenticator")
	}
	s, ok, err := n.Auth.Current(ctx)
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(output(n.Out), "Not signed in.")
		return nil
	}
	_, _ = fmt.Fprintf(output(n.Out), "%s (%s)\n", s.Name, s.Email)
	return nil
}
