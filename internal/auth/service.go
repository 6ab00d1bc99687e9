// Package auth implements account creation and session handling on top of
// the identity provider and the user repository.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/memberhub/memberhub-backend/internal/identity"
	"github.com/memberhub/memberhub-backend/internal/users"
	pkgerrors "github.com/memberhub/memberhub-backend/pkg/errors"
)

// identityDelegate is the slice of the identity provider the auth service
// needs.
type identityDelegate interface {
	CreateUser(ctx context.Context, user identity.NewUser) (string, error)
	VerifyPassword(ctx context.Context, email, password string) (*identity.Session, error)
	VerifyToken(ctx context.Context, token string) (*identity.Identity, error)
	RevokeTokens(ctx context.Context, id string) error
}

// SignupRequest is the email/password registration payload.
type SignupRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	Username       string `json:"username"`
	PhoneNumber    string `json:"phoneNumber"`
	ProfilePicture string `json:"profilePicture"`
}

// GoogleSignupRequest carries the profile the OAuth front end already
// authenticated. No credential is created on this path.
type GoogleSignupRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profilePicture"`
}

// LoginRequest is the password sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult pairs the provider-issued bearer token with the user record.
type LoginResult struct {
	AccessToken string
	User        *users.User
}

// Service exposes the account lifecycle operations.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*users.User, error)
	GoogleSignup(ctx context.Context, req GoogleSignupRequest) (user *users.User, created bool, err error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	Repo     *users.Repository
	Identity identityDelegate
	Now      func() time.Time
}

type service struct {
	repo     *users.Repository
	identity identityDelegate
	now      func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repo required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity provider required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		identity: params.Identity,
		now:      params.Now,
	}, nil
}

// defaultUsername falls back to the local part of the email address.
func defaultUsername(username, email string) string {
	if username != "" {
		return username
	}
	local, _, found := strings.Cut(email, "@")
	if found {
		return local
	}
	return email
}

// Signup creates the provider credential first, then the record, then bumps
// the counter. A record write failure after the credential exists leaves an
// orphaned identity; there is no rollback on this path.
func (s *service) Signup(ctx context.Context, req SignupRequest) (*users.User, error) {
	id, err := s.identity.CreateUser(ctx, identity.NewUser{
		Email:          req.Email,
		Password:       req.Password,
		Username:       defaultUsername(req.Username, req.Email),
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return nil, err
	}

	user := &users.User{
		ID:             id,
		Email:          req.Email,
		Username:       defaultUsername(req.Username, req.Email),
		PhoneNumber:    req.PhoneNumber,
		ProfilePicture: req.ProfilePicture,
		AccountStatus:  users.StatusActive,
		AccountCreated: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
	}
	if err := s.repo.IncrementCount(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment user count")
	}
	return user, nil
}

// GoogleSignup is idempotent on email: a second signup for a known address
// returns the existing record untouched.
func (s *service) GoogleSignup(ctx context.Context, req GoogleSignupRequest) (*users.User, bool, error) {
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up user by email")
	}
	if existing != nil {
		return existing, false, nil
	}

	user := &users.User{
		ID:             fmt.Sprintf("google_%d", s.now().UnixMilli()),
		Email:          req.Email,
		Username:       defaultUsername(req.Name, req.Email),
		ProfilePicture: req.ProfilePicture,
		AccountStatus:  users.StatusActive,
		AccountCreated: s.now().UTC().Format(time.RFC3339),
		AuthProvider:   users.AuthProviderGoogle,
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
	}
	if err := s.repo.IncrementCount(ctx); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment user count")
	}
	return user, true, nil
}

// Login verifies the credential with the provider, then returns the stored
// record. A missing record falls back to the bare provider identity so a
// sign-in never fails on KV drift.
func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	session, err := s.identity.VerifyPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Find(ctx, session.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		user = &users.User{ID: session.UserID, Email: session.Email}
	}
	return &LoginResult{AccessToken: session.AccessToken, User: user}, nil
}

// Logout revokes the provider session when a valid token is presented.
// Missing or invalid tokens are not an error: the caller is already signed
// out as far as this service is concerned.
func (s *service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	ident, err := s.identity.VerifyToken(ctx, token)
	if err != nil {
		return nil
	}
	// Best effort; the token expires on its own regardless.
	_ = s.identity.RevokeTokens(ctx, ident.ID)
	return nil
}
