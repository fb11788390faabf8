// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/metrics"
	"github.com/taskhive/taskhive/internal/model"
	"github.com/taskhive/taskhive/internal/repository"
	"github.com/taskhive/taskhive/internal/session"
	"github.com/taskhive/taskhive/internal/token"
)

// Service errors.
var (
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmptyToken         = errors.New("token is required for logout")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrInvalidEmail       = errors.New("email is not valid")
)

// emailRegex is a permissive shape check, not full RFC 5322.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserStore is the credential store collaborator.
// Implemented by *repository.Repository.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Authenticator verifies an email/password pair against stored credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) error
}

// StoreAuthenticator authenticates against a UserStore using the
// one-way password hash.
type StoreAuthenticator struct {
	Users UserStore
}

// Authenticate checks the password against the stored hash.
// Unknown email and wrong password both return ErrInvalidCredentials so the
// caller cannot learn which field was wrong.
func (a *StoreAuthenticator) Authenticate(ctx context.Context, email, password string) error {
	user, err := a.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("lookup credentials: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return ErrInvalidCredentials
	}
	return nil
}

// Session describes an established session returned by register and login.
type Session struct {
	UserID string
	Name   string
	Email  string
	Token  string
}

// AuthService orchestrates registration, login and logout.
// It owns writes to the revocation registry; no other component revokes.
type AuthService struct {
	users    UserStore
	authn    Authenticator
	codec    *token.Codec
	registry *session.Registry
	metrics  metrics.Recorder
}

// NewAuthService creates an AuthService.
// If authn is nil, a StoreAuthenticator over users is used.
func NewAuthService(users UserStore, authn Authenticator, codec *token.Codec, registry *session.Registry, recorder metrics.Recorder) *AuthService {
	if authn == nil {
		authn = &StoreAuthenticator{Users: users}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:    users,
		authn:    authn,
		codec:    codec,
		registry: registry,
		metrics:  recorder,
	}
}

// RegisterInput defines input for registering a user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user and issues a session token.
// The email must not already be registered; the check is case-sensitive,
// matching how emails are stored.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	_, err := s.users.GetUserByEmail(ctx, input.Email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// A concurrent registration may win the race after our check.
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	tok, err := s.codec.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncUserRegistered()

	return &Session{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Token:  tok,
	}, nil
}

// Login verifies credentials and issues a fresh session token.
// Credential failure reports ErrInvalidCredentials without revealing
// whether the email exists. The record lookup afterwards can still fail
// with ErrUserNotFound if the identity and user stores diverge.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		s.metrics.IncLoginFailure()
		return nil, ErrInvalidCredentials
	}

	if err := s.authn.Authenticate(ctx, email, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	tok, err := s.codec.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLoginSuccess()

	return &Session{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Token:  tok,
	}, nil
}

// Logout revokes the given token for the remaining process lifetime.
// The token is not validated before revocation: blacklisting a string that
// could never authenticate is harmless.
func (s *AuthService) Logout(token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}

	s.registry.Revoke(token)
	s.metrics.IncTokenRevoked()
	return nil
}

// IsRevoked reports whether the token has been revoked.
func (s *AuthService) IsRevoked(token string) bool {
	return s.registry.IsRevoked(token)
}

// validateRegisterInput checks required registration fields.
func validateRegisterInput(input RegisterInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrNameRequired
	}
	if input.Email == "" {
		return ErrEmailRequired
	}
	if !emailRegex.MatchString(input.Email) {
		return ErrInvalidEmail
	}
	if input.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}
