package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/memberhub/memberhub-backend/pkg/config"
	pkgerrors "github.com/memberhub/memberhub-backend/pkg/errors"
)

const defaultSignInEndpoint = "https://identitytoolkit.googleapis.com"

// Firebase implements Provider on Firebase Auth. Admin operations go through
// the Admin SDK; password sign-in goes through the Identity Toolkit REST API
// because the Admin SDK has no credential-verification call.
type Firebase struct {
	client         *auth.Client
	apiKey         string
	signInEndpoint string
	httpClient     *http.Client
}

// NewFirebase initializes the Firebase Admin SDK from config. With neither a
// credentials file nor inline JSON configured, the SDK falls back to
// Application Default Credentials.
func NewFirebase(ctx context.Context, cfg config.FirebaseConfig) (*Firebase, error) {
	appConfig := &firebase.Config{ProjectID: cfg.ProjectID}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}

	return &Firebase{
		client:         client,
		apiKey:         cfg.WebAPIKey,
		signInEndpoint: defaultSignInEndpoint,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// CreateUser provisions a credentialed identity. The email is auto-confirmed
// because no mail server is configured for verification flows.
func (f *Firebase) CreateUser(ctx context.Context, user NewUser) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(user.Email).
		Password(user.Password).
		EmailVerified(true)
	if user.Username != "" {
		params = params.DisplayName(user.Username)
	}
	if user.ProfilePicture != "" {
		params = params.PhotoURL(user.ProfilePicture)
	}

	record, err := f.client.CreateUser(ctx, params)
	if err != nil {
		// Provider rejections (duplicate email, weak password) surface to
		// the caller with the provider's message.
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return record.UID, nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	IDToken string `json:"idToken"`
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

type signInError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// VerifyPassword signs in with email/password via the Identity Toolkit REST
// API and returns the issued bearer token.
func (f *Firebase) VerifyPassword(ctx context.Context, email, password string) (*Session, error) {
	payload, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode sign-in request")
	}

	url := fmt.Sprintf("%s/v1/accounts:signInWithPassword?key=%s", f.signInEndpoint, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build sign-in request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "identity provider unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read sign-in response")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr signInError
		message := "invalid credentials"
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			message = apiErr.Error.Message
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, message)
	}

	var result signInResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode sign-in response")
	}
	return &Session{
		AccessToken: result.IDToken,
		UserID:      result.LocalID,
		Email:       result.Email,
	}, nil
}

// VerifyToken validates a bearer token and extracts the identity plus the
// admin custom claim.
func (f *Firebase) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	decoded, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token")
	}

	ident := &Identity{ID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		ident.Email = email
	}
	if admin, ok := decoded.Claims["admin"].(bool); ok {
		ident.Admin = admin
	}
	return ident, nil
}

func (f *Firebase) UpdatePassword(ctx context.Context, id, password string) error {
	_, err := f.client.UpdateUser(ctx, id, (&auth.UserToUpdate{}).Password(password))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	return nil
}

func (f *Firebase) DeleteUser(ctx context.Context, id string) error {
	if err := f.client.DeleteUser(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete identity")
	}
	return nil
}

// RevokeTokens invalidates every refresh token for the identity, ending its
// sessions once the current ID tokens expire.
func (f *Firebase) RevokeTokens(ctx context.Context, id string) error {
	if err := f.client.RevokeRefreshTokens(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke sessions")
	}
	return nil
}
