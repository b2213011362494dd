// Package apiclient talks to the remote Nexa API that owns accounts and
// issues session tokens.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mtlprog/nexa/internal/domain"
)

// Endpoint paths relative to the configured base URL.
const (
	LoginPath          = "/login"
	ForgotPasswordPath = "/forget-password"
	ResetPasswordPath  = "/reset-password"
	RegisterPath       = "/signup"
	SessionsPath       = "/sessions"
)

// maxErrorBody caps how much of a rejected response is read for its detail.
const maxErrorBody = 64 << 10

// Client issues credential requests to the remote API. Requests are never
// retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for baseURL with the given per-request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient creates a Client using a caller-provided http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse is the acknowledgement body of the non-login endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ForgotPasswordRequest asks the API to mail a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest sets a new password using the token from the reset link.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	Username    string `json:"username"`
	NewPassword string `json:"new_password"`
}

// RegisterRequest creates a prospective account.
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Email        string `json:"email"`
	FirstName    string `json:"firstname,omitempty"`
	LastName     string `json:"lastname,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// ServerError reports a non-2xx response.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Unwrap lets callers match any rejection with domain.ErrServerRejected.
func (e *ServerError) Unwrap() error {
	return domain.ErrServerRejected
}

// Login exchanges a username and password for a session token. The body is
// sent as an OAuth2 password form.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+LoginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tok TokenResponse
	if err := c.do(req, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access_token", domain.ErrMalformedReply)
	}
	return &tok, nil
}

// ForgotPassword requests a password reset e-mail.
func (c *Client) ForgotPassword(ctx context.Context, in ForgotPasswordRequest) (*MessageResponse, error) {
	return c.postJSON(ctx, ForgotPasswordPath, in)
}

// ResetPassword sets a new password.
func (c *Client) ResetPassword(ctx context.Context, in ResetPasswordRequest) (*MessageResponse, error) {
	return c.postJSON(ctx, ResetPasswordPath, in)
}

// Register submits a sign-up request.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*MessageResponse, error) {
	return c.postJSON(ctx, RegisterPath, in)
}

// VerifySession asks the API whether sess is still accepted. A 401 or 403
// reply yields domain.ErrSessionExpired; any other failure is reported as is.
func (c *Client) VerifySession(ctx context.Context, sess domain.Session) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+SessionsPath, nil)
	if err != nil {
		return fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: server returned %d", domain.ErrSessionExpired, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &ServerError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*MessageResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var msg MessageResponse
	if err := c.do(req, &msg); err != nil && !errors.Is(err, domain.ErrMalformedReply) {
		return nil, err
	}
	return &msg, nil
}

// do sends req and decodes a 2xx JSON body into out.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrNetwork, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedReply, err)
	}
	return nil
}

// readDetail extracts a FastAPI-style {"detail": "..."} message if present.
func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var parsed struct {
		Detail  any    `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ""
	}
	if s, ok := parsed.Detail.(string); ok {
		return s
	}
	return parsed.Message
}
