package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/peakscale/weightlog/internal/domain"
	"github.com/peakscale/weightlog/internal/store"
	"github.com/peakscale/weightlog/pkg/cryptox"
	"github.com/peakscale/weightlog/pkg/ratex"
	"github.com/peakscale/weightlog/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. The two are indistinguishable on purpose so the login path
	// never reveals which one failed.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken reports a duplicate registration attempt.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrTooManyAttempts reports that login for this username is throttled.
	ErrTooManyAttempts = errors.New("too many login attempts, try again later")

	// ErrEmptyCredentials reports a blank username or password before any
	// store work happens.
	ErrEmptyCredentials = errors.New("username and password must not be empty")
)

// AuthService registers and verifies users. It composes the credential
// hasher with the store and owns the login throttle.
type AuthService struct {
	Store   store.Store
	Limiter *ratex.Keyed // optional; nil disables throttling
}

// Register creates a new account: fresh salt, slow salted hash, one insert.
// A duplicate username maps to ErrUsernameTaken and leaves state unchanged.
func (s *AuthService) Register(ctx context.Context, username, password string) (domain.User, error) {
	if username == "" || password == "" {
		return domain.User{}, ErrEmptyCredentials
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return domain.User{}, err
	}
	hash, err := cryptox.HashPassword(password, salt)
	if err != nil {
		return domain.User{}, err
	}

	id, err := s.Store.Users().Create(ctx, username, hash, salt)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("register %q: %w", username, err)
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", id, "username", username)

	return domain.User{
		ID:             id,
		Username:       username,
		CredentialHash: hash,
		CredentialSalt: salt,
	}, nil
}

// Login re-derives the hash from the candidate password and the stored salt
// and compares it against the stored hash. Unknown user, wrong password,
// and malformed stored credentials all come back as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, error) {
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	if s.Limiter != nil && !s.Limiter.Allow(username) {
		slogx.FromContext(ctx).Warn("login throttled", "username", username)
		return domain.User{}, ErrTooManyAttempts
	}

	u, err := s.Store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("login %q: %w", username, err)
	}

	if !cryptox.VerifyPassword(password, u.CredentialHash, u.CredentialSalt) {
		return domain.User{}, ErrInvalidCredentials
	}

	return u, nil
}
