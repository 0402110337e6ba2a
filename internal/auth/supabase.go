package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

var (
	ErrMissingToken = errors.New("no authorization header")
	ErrInvalidToken = errors.New("invalid authentication")
)

// User is the identity a session token resolves to.
type User struct {
	ID    uuid.UUID
	Email string
}

// Authenticator resolves a session token to a known user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*User, error)
}

// SupabaseAuthenticator asks the hosted auth service who owns a token.
type SupabaseAuthenticator struct {
	client *resty.Client
}

func NewSupabaseAuthenticator(baseURL, anonKey string, timeout time.Duration) (*SupabaseAuthenticator, error) {
	if baseURL == "" {
		return nil, errors.New("SUPABASE_URL is required")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if anonKey != "" {
		client.SetHeader("apikey", anonKey)
	}
	return &SupabaseAuthenticator{client: client}, nil
}

func (a *SupabaseAuthenticator) Authenticate(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return nil, ErrMissingToken
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get("/auth/v1/user")
	if err != nil {
		return nil, fmt.Errorf("auth service request failed: %w", err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized, resp.StatusCode() == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.IsError():
		return nil, fmt.Errorf("auth service returned %d: %s", resp.StatusCode(), resp.String())
	}

	body := resp.Body()
	id, err := uuid.Parse(gjson.GetBytes(body, "id").String())
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &User{
		ID:    id,
		Email: gjson.GetBytes(body, "email").String(),
	}, nil
}
