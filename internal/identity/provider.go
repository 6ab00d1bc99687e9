// Package identity wraps the third-party identity provider. Credential
// storage, password hashing, and token issuance all live on the provider
// side; this package only brokers calls to it.
package identity

import "context"

// Identity is the provider's view of an authenticated principal.
type Identity struct {
	ID    string
	Email string
	Admin bool
}

// Session is the result of a successful password sign-in.
type Session struct {
	AccessToken string
	UserID      string
	Email       string
}

// NewUser carries the fields forwarded to the provider at signup. The
// password never touches the key-value store.
type NewUser struct {
	Email          string
	Password       string
	Username       string
	ProfilePicture string
}

// TokenVerifier is the narrow surface the HTTP middleware needs.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*Identity, error)
}

// Provider is the full delegate surface.
type Provider interface {
	TokenVerifier
	CreateUser(ctx context.Context, user NewUser) (string, error)
	VerifyPassword(ctx context.Context, email, password string) (*Session, error)
	UpdatePassword(ctx context.Context, id, password string) error
	DeleteUser(ctx context.Context, id string) error
	RevokeTokens(ctx context.Context, id string) error
}
