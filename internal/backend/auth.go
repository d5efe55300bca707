package backend

import (
	"context"
	"errors"
)

var ErrLoginFailed = errors.New("invalid username or password")

// AdminLogin exchanges admin credentials for a backend session token.
func (c *Client) AdminLogin(ctx context.Context, username, password string) (string, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var out struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, "/api/admin/login", body, &out); err != nil {
		return "", err
	}
	if !out.Success || out.Data.Token == "" {
		return "", ErrLoginFailed
	}
	return out.Data.Token, nil
}
