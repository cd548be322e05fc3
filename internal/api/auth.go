package api

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/merchkit/storefront/internal/domain/identity"
)

// AuthResult is the backend's response to a successful login or
// registration.
type AuthResult struct {
	User  identity.User `json:"user"`
	Token string        `json:"token"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session. Invalid credentials surface as
// an *Error carrying the backend message.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	if err := c.post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &res, nil); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, errors.New("login response missing token")
	}
	return &res, nil
}

// Register creates an account and returns the initial session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	var res AuthResult
	req := registerRequest{Name: name, Email: email, Password: password}
	if err := c.post(ctx, "/auth/register", req, &res, nil); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, errors.New("register response missing token")
	}
	return &res, nil
}
