// ABOUTME: Authentication endpoints of the blog platform API
// ABOUTME: Login, registration, and the current-user profile

package client

import (
	"context"
	"net/http"
)

// Me calls GET /me with the given token as the bearer credential. An empty
// token falls back to the installed credential source.
func (c *Client) Me(ctx context.Context, token string) (*MeResponse, error) {
	var me MeResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/me", token: token}, &me); err != nil {
		return nil, err
	}
	return &me, nil
}

// Login calls POST /auth/login. It does not touch session state; hand the
// response to the session manager.
func (c *Client) Login(ctx context.Context, in *LoginRequest) (*AuthResponse, error) {
	var auth AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: in}, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Register calls POST /auth/register
func (c *Client) Register(ctx context.Context, in *RegisterRequest) (*Author, error) {
	var author Author
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: in}, &author); err != nil {
		return nil, err
	}
	return &author, nil
}
