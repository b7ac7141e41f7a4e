package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kvasnytsia/famplan/internal/core"
	"github.com/kvasnytsia/famplan/pkg/models"
)

// Credentials are the sign-in inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      int    `json:"age"`
	AvatarID string `json:"avatarId"`
}

// AuthResult is the sign-in response: a bearer token plus the profile.
type AuthResult struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// AuthClient talks to the auth endpoints of the planner backend.
type AuthClient struct {
	baseURL string
	http    *http.Client
}

// NewAuthClient creates an auth client for the given base URL.
func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SignUp registers a new account. A duplicate email surfaces as a
// validation error so the UI can report it without retrying.
func (a *AuthClient) SignUp(ctx context.Context, reg Registration) error {
	resp, err := a.post(ctx, "/api/auth/sign-up", reg)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return core.Errorf(core.KindValidation, "user with this email already exists")
	case resp.StatusCode == http.StatusBadRequest:
		return core.Errorf(core.KindValidation, "%s", apiMessage(resp.Body, "invalid registration data"))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return core.Errorf(core.KindServer, "auth service returned %d: %s",
			resp.StatusCode, apiMessage(resp.Body, http.StatusText(resp.StatusCode)))
	}
	return nil
}

// SignIn exchanges credentials for a token and profile.
func (a *AuthClient) SignIn(ctx context.Context, creds Credentials) (AuthResult, error) {
	resp, err := a.post(ctx, "/api/auth/sign-in", creds)
	if err != nil {
		return AuthResult{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusNotFound:
		return AuthResult{}, core.Errorf(core.KindValidation, "invalid email or password")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return AuthResult{}, core.Errorf(core.KindServer, "auth service returned %d: %s",
			resp.StatusCode, apiMessage(resp.Body, http.StatusText(resp.StatusCode)))
	}

	var result AuthResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return AuthResult{}, core.WrapError(core.KindServer, err, "decoding sign-in response")
	}
	if result.Token == "" {
		return AuthResult{}, core.Errorf(core.KindServer, "sign-in response has no token")
	}
	return result, nil
}

// ForgotPassword requests a password reset email.
func (a *AuthClient) ForgotPassword(ctx context.Context, email string) error {
	resp, err := a.post(ctx, "/api/auth/forgot-password", map[string]string{"email": email})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.Errorf(core.KindServer, "auth service returned %d: %s",
			resp.StatusCode, apiMessage(resp.Body, http.StatusText(resp.StatusCode)))
	}
	return nil
}

func (a *AuthClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return nil, core.WrapError(core.KindUnavailable, err, "auth service unreachable")
	}
	return resp, nil
}
