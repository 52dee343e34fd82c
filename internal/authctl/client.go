// Package authctl implements the operator CLI that talks to the
// authentication server over its HTTP API.
package authctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/authmobile/authserver/internal/server/httpapi"
)

const requestTimeout = 10 * time.Second

// Client is a thin wrapper over the server's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) Register(ctx context.Context, username, email, password, confirmPassword string) (*httpapi.ApiResponse, error) {
	body := map[string]string{
		"username":        username,
		"email":           email,
		"password":        password,
		"confirmPassword": confirmPassword,
	}
	return c.post(ctx, "/register", body)
}

func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*httpapi.ApiResponse, error) {
	body := map[string]string{
		"usernameOrEmail": usernameOrEmail,
		"password":        password,
	}
	return c.post(ctx, "/login", body)
}

func (c *Client) Me(ctx context.Context, token string) (*httpapi.ApiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, body any) (*httpapi.ApiResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*httpapi.ApiResponse, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &httpapi.ApiResponse{}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	return out, nil
}
