package fxclient

import (
	"context"
	"errors"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
}

// Login authenticates and installs the returned credential on the client.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp authResponse
	err := c.postJSON(ctx, "/api/login", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", &AuthError{Err: mapAuthDetail(err)}
	}

	c.SetCredential(resp.AccessToken)
	return resp.AccessToken, nil
}

// Register creates an account and installs the returned credential.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	var resp authResponse
	err := c.postJSON(ctx, "/api/register", registerRequest{Username: username, Email: email, Password: password}, &resp)
	if err != nil {
		return "", &AuthError{Err: mapAuthDetail(err)}
	}

	c.SetCredential(resp.AccessToken)
	return resp.AccessToken, nil
}

// mapAuthDetail translates the server's recognized detail strings into
// sentinel errors callers can test with errors.Is.
func mapAuthDetail(err error) error {
	var he *httpError
	if !errors.As(err, &he) {
		return err
	}
	switch he.Detail {
	case "Invalid credentials":
		return ErrInvalidCredentials
	case "User already exists":
		return ErrUserExists
	}
	return err
}
