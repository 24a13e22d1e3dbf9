package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrInvalidToken       = errors.New("invalid access token")
	ErrBackendUnavailable = errors.New("identity backend unavailable")
)

// User is the authenticated principal behind a bearer token.
type User struct {
	ID    string
	Email string
}

// Verifier resolves a bearer token to the user it belongs to.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (*User, error)
}

type HTTPVerifierConfig struct {
	UserInfoURL string
	HTTPTimeout time.Duration
}

// HTTPVerifier validates tokens against an external identity backend's
// userinfo endpoint.
type HTTPVerifier struct {
	userInfoURL string
	httpClient  *http.Client
}

func NewHTTPVerifier(cfg HTTPVerifierConfig) *HTTPVerifier {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPVerifier{
		userInfoURL: strings.TrimSpace(cfg.UserInfoURL),
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (v *HTTPVerifier) VerifyToken(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	if v.userInfoURL == "" {
		return nil, fmt.Errorf("%w: userinfo endpoint not configured", ErrBackendUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	default:
		return nil, fmt.Errorf("%w: userinfo returned status %d", ErrBackendUnavailable, resp.StatusCode)
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if strings.TrimSpace(payload.ID) == "" {
		return nil, ErrInvalidToken
	}

	return &User{
		ID:    strings.TrimSpace(payload.ID),
		Email: strings.ToLower(strings.TrimSpace(payload.Email)),
	}, nil
}
