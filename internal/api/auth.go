package api

import (
	"context"
	"net/http"

	"github.com/avicena/avicena/internal/domain"
)

// LoginResult carries the credentials returned by a successful login.
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login authenticates with email/password. The bearer header is absent
// here because no token is stored yet; every other operation is sent
// authenticated.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var result LoginResult
	if err := c.send(ctx, http.MethodPost, "/admin/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
