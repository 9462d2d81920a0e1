package rest

import (
	"context"

	"AMProject/global"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// Login authenticates and persists the resulting identity into the session.
func (c *Client) Login(ctx context.Context, email, password string) (global.Identity, error) {
	var out loginResponse
	if err := c.PostJSON(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return global.Identity{}, err
	}
	id := global.Identity{
		UserID: out.User.ID,
		Name:   out.User.Name,
		Email:  out.User.Email,
		Role:   out.User.Role,
		Token:  out.Token,
	}
	if err := c.sess.Store(id); err != nil {
		return global.Identity{}, err
	}
	return id, nil
}

// Logout clears the persisted session. The caller is responsible for
// revoking presence (removeUser) and closing the push channel first.
func (c *Client) Logout() error {
	return c.sess.Clear()
}
