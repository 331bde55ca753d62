package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Kariqs/tablefy/models"
	"go.uber.org/zap"
)

// Login exchanges staff credentials for a token pair and stores it.
func (c *Client) Login(ctx context.Context, creds models.LoginData) (models.LoginResult, error) {
	var res models.LoginResult
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds, public: true}, &res)
	if err != nil {
		return models.LoginResult{}, err
	}
	if res.AccessToken == "" {
		return models.LoginResult{}, &Error{StatusCode: http.StatusOK, Message: "login returned no token", Err: ErrInvalidResponse}
	}
	if err := c.tokens.Save(res.TokenPair); err != nil {
		return res, fmt.Errorf("store credentials: %w", err)
	}
	return res, nil
}

// Logout revokes the refresh token and clears the stored pair. The local
// credentials are cleared even when the API cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	rt := c.tokens.RefreshToken()
	var err error
	if rt != "" {
		err = c.do(Quiet(ctx), request{
			method: http.MethodPost,
			path:   "/auth/logout",
			body:   map[string]string{"refreshToken": rt},
		}, nil)
	}
	if clearErr := c.tokens.Clear(); clearErr != nil {
		c.log.Warn("credentials not cleared", zap.Error(clearErr))
	}
	return err
}

// Ping reports whether the API answers at all. Any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return nil
}
