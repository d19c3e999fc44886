package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/progressly/pkg/store"
)

// Validation failures. The messages are shown to users as-is.
var (
	ErrFieldsRequired      = errors.New("All fields are required")
	ErrPasswordMismatch    = errors.New("Passwords do not match")
	ErrPasswordTooShort    = errors.New("Password must be at least 6 characters")
	ErrEmailExists         = errors.New("Email already exists")
	ErrCredentialsRequired = errors.New("Email and password are required")
	ErrInvalidCredentials  = errors.New("Invalid email or password")
)

const minPasswordLength = 6

// User is a stored account.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CreatedAt int64  `json:"createdAt"`
}

// Session identifies the signed-in user.
type Session struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type SignUpRequest struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Authenticator gates access to the task store. It is a local stub, not a
// security boundary.
type Authenticator interface {
	SignUp(ctx context.Context, req SignUpRequest) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context) error
	// Current returns the active session; ok is false when signed out.
	Current(ctx context.Context) (s Session, ok bool, err error)
}

// Local keeps users and the session in the same Persistence as the tasks.
type Local struct {
	Persistence store.Persistence
	Scheme      PasswordScheme
	Now         func() time.Time
}

var _ Authenticator = (*Local)(nil)

func (l *Local) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Local) scheme() PasswordScheme {
	if l.Scheme == nil {
		return Plaintext{}
	}
	return l.Scheme
}

func (l *Local) users(ctx context.Context) ([]User, error) {
	users := []User{}
	if _, err := store.ReadJSON(ctx, l.Persistence, store.UsersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SignUp registers a user and signs them in.
func (l *Local) SignUp(ctx context.Context, req SignUpRequest) (Session, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return Session{}, ErrFieldsRequired
	}
	if req.Password != req.ConfirmPassword {
		return Session{}, ErrPasswordMismatch
	}
	if len(req.Password) < minPasswordLength {
		return Session{}, ErrPasswordTooShort
	}
	users, err := l.users(ctx)
	if err != nil {
		return Session{}, err
	}
	for _, u := range users {
		if u.Email == req.Email {
			return Session{}, ErrEmailExists
		}
	}
	hashed, err := l.scheme().Hash(req.Password)
	if err != nil {
		return Session{}, fmt.Errorf("auth: hash password: %w", err)
	}
	now := l.now().UnixMilli()
	users = append(users, User{ID: now, Name: req.Name, Email: req.Email, Password: hashed, CreatedAt: now})
	if err := store.WriteJSON(ctx, l.Persistence, store.UsersKey, users); err != nil {
		return Session{}, err
	}
	session := Session{Email: req.Email, Name: req.Name}
	if err := store.WriteJSON(ctx, l.Persistence, store.AuthKey, session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// SignIn starts a session for a registered user.
func (l *Local) SignIn(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, ErrCredentialsRequired
	}
	users, err := l.users(ctx)
	if err != nil {
		return Session{}, err
	}
	for _, u := range users {
		if u.Email == email && l.scheme().Verify(u.Password, password) {
			session := Session{Email: u.Email, Name: u.Name}
			if err := store.WriteJSON(ctx, l.Persistence, store.AuthKey, session); err != nil {
				return Session{}, err
			}
			return session, nil
		}
	}
	return Session{}, ErrInvalidCredentials
}

func (l *Local) SignOut(ctx context.Context) error {
	return l.Persistence.Erase(ctx, store.AuthKey)
}

func (l *Local) Current(ctx context.Context) (Session, bool, error) {
	var s Session
	found, err := store.ReadJSON(ctx, l.Persistence, store.AuthKey, &s)
	if err != nil {
		return Session{}, false, err
	}
	return s, found, nil
}

// IsValidation reports whether err is one of the user-facing validation
// failures rather than a storage problem.
func IsValidation(err error) bool {
	for _, v := range []error{ErrFieldsRequired, ErrPasswordMismatch, ErrPasswordTooShort, ErrEmailExists, ErrCredentialsRequired, ErrInvalidCredentials} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
