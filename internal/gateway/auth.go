package gateway

import (
	"context"
	"net/http"

	"buget/internal/core"
)

func (c *Client) Login(ctx context.Context, email, password string) (core.AuthResult, error) {
	return c.authenticate(ctx, "login", "/auth/login", email, password)
}

func (c *Client) Register(ctx context.Context, email, password string) (core.AuthResult, error) {
	return c.authenticate(ctx, "register", "/auth/register", email, password)
}

func (c *Client) authenticate(ctx context.Context, op, path, email, password string) (core.AuthResult, error) {
	body, err := c.do(ctx, call{
		op:           op,
		method:       http.MethodPost,
		path:         path,
		body:         credentials{Email: email, Password: password},
		authEndpoint: true,
	})
	if err != nil {
		return core.AuthResult{}, err
	}
	var resp authResponse
	if err := decode(op, body, &resp); err != nil {
		return core.AuthResult{}, err
	}
	return core.AuthResult{Token: resp.Token, User: resp.User.toCore()}, nil
}

// Me resolves the identity a token belongs to.
func (c *Client) Me(ctx context.Context, token string) (core.User, error) {
	body, err := c.do(ctx, call{
		op:           "me",
		method:       http.MethodGet,
		path:         "/auth/me",
		token:        token,
		authEndpoint: true,
	})
	if err != nil {
		return core.User{}, err
	}
	var resp meResponse
	if err := decode("me", body, &resp); err != nil {
		return core.User{}, err
	}
	return resp.User.toCore(), nil
}
