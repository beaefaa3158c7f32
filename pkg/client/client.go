// Package client is a small Go client for the atelier API. It keeps a
// session token obtained from Login and attaches it as a bearer token on
// every subsequent request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// APIError is returned when the server answers with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to a running atelier API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken installs a previously issued token, bypassing Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current session token, empty if not logged in.
func (c *Client) Token() string {
	return c.token
}

// Logout drops the session token. Tokens are stateless so there is no
// server side call.
func (c *Client) Logout() {
	c.token = ""
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	var env envelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success {
		return &env, resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return &env, resp.StatusCode, nil
}

func decodeData(env *envelope, out interface{}) error {
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return sonic.Unmarshal(env.Data, out)
}
