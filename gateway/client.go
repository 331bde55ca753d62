// Package gateway is the client of the platform's REST API.
//
// Every request carries the stored bearer token. A 401 triggers one token
// refresh and one retry; if the refresh is rejected the stored credentials are
// cleared and ErrSessionExpired is returned. Successful replies must carry a
// "data" payload. Error replies carry a "message" that is pushed to the
// notifier unless the call context was marked with Quiet.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Kariqs/tablefy/models"
	"github.com/Kariqs/tablefy/notify"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	refreshPath    = "/auth/refresh-token"
	refreshTimeout = 15 * time.Second
)

type Client struct {
	http     *resty.Client
	tokens   *TokenStore
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time

	refreshGroup     singleflight.Group
	onSessionExpired func()
}

type Option func(*Client)

func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// OnSessionExpired runs after a rejected refresh has cleared the credentials.
// The UI uses it to send the user back to the login screen.
func OnSessionExpired(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// New returns a client for the API at baseURL, e.g. https://host/api.
func New(baseURL string, tokens *TokenStore, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(15*time.Second).
			SetHeader("Accept", "application/json"),
		tokens:   tokens,
		notifier: notify.Discard{},
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Tokens() *TokenStore { return c.tokens }

type quietKey struct{}

// Quiet marks ctx so failures of calls made with it are not notified.
func Quiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

func isQuiet(ctx context.Context) bool {
	v, _ := ctx.Value(quietKey{}).(bool)
	return v
}

type request struct {
	method string
	path   string
	body   any
	query  map[string]string
	// public requests never carry a token and are not refreshed on 401.
	public bool
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// do runs req and decodes the data payload into out (which may be nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	err := c.roundTrip(ctx, req, out)
	if err != nil && !isQuiet(ctx) && !errors.Is(err, context.Canceled) {
		c.notifier.Error(UserMessage(err))
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, req request, out any) error {
	if !req.public && c.tokens.RefreshToken() != "" && c.tokens.Expired(c.now()) {
		if err := c.refresh(ctx); err != nil {
			return err
		}
	}

	used := ""
	if !req.public {
		used = c.tokens.AccessToken()
	}
	resp, err := c.send(ctx, req, used)
	if err == nil && resp.StatusCode() == http.StatusUnauthorized && used != "" {
		// Another call may already have refreshed while this one was in flight.
		if c.tokens.AccessToken() == used {
			if err := c.refresh(ctx); err != nil {
				return err
			}
		}
		resp, err = c.send(ctx, req, c.tokens.AccessToken())
	}
	return c.decode(ctx, req, resp, err, out)
}

func (c *Client) send(ctx context.Context, req request, token string) (*resty.Response, error) {
	r := c.http.R().SetContext(ctx)
	if token != "" {
		r.SetAuthToken(token)
	}
	if req.body != nil {
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}
	if len(req.query) > 0 {
		r.SetQueryParams(req.query)
	}
	return r.Execute(req.method, req.path)
}

func (c *Client) decode(ctx context.Context, req request, resp *resty.Response, err error, out any) error {
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.log.Warn("api request failed",
			zap.String("method", req.method), zap.String("path", req.path), zap.Error(err))
		return &Error{Err: fmt.Errorf("%w: %v", ErrUnreachable, err)}
	}

	var env envelope
	body := resp.Body()
	decodeErr := json.Unmarshal(body, &env)

	if status := resp.StatusCode(); status >= http.StatusBadRequest {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = http.StatusText(status)
		}
		c.log.Info("api request rejected",
			zap.String("method", req.method), zap.String("path", req.path),
			zap.Int("status", status), zap.String("message", msg))
		return &Error{StatusCode: status, Message: msg}
	}

	if decodeErr != nil || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return &Error{StatusCode: resp.StatusCode(), Message: "response carried no data", Err: ErrInvalidResponse}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &Error{StatusCode: resp.StatusCode(), Message: err.Error(), Err: ErrInvalidResponse}
	}
	return nil
}

// refresh exchanges the refresh token once for all concurrent callers.
// The exchange outlives the caller that started it, bounded by
// refreshTimeout. A rejected exchange ends the session; a transient failure
// does not.
func (c *Client) refresh(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		err := c.exchangeRefreshToken(rctx)
		if err == nil || IsTransient(err) || rctx.Err() != nil {
			return nil, err
		}
		c.log.Warn("token refresh rejected, ending session", zap.Error(err))
		c.expireSession()
		return nil, ErrSessionExpired
	})
	return err
}

func (c *Client) exchangeRefreshToken(ctx context.Context) error {
	pair, _ := c.tokens.Pair()
	if pair.RefreshToken == "" {
		return ErrSessionExpired
	}
	var next models.TokenPair
	req := request{
		method: http.MethodPost,
		path:   refreshPath,
		body:   map[string]string{"refreshToken": pair.RefreshToken},
		public: true,
	}
	resp, err := c.send(ctx, req, "")
	if err := c.decode(ctx, req, resp, err, &next); err != nil {
		return err
	}
	if next.AccessToken == "" {
		return ErrInvalidResponse
	}
	pair.AccessToken = next.AccessToken
	if next.RefreshToken != "" {
		pair.RefreshToken = next.RefreshToken
	}
	if err := c.tokens.Save(pair); err != nil {
		c.log.Warn("refreshed tokens not persisted", zap.Error(err))
	}
	return nil
}

func (c *Client) expireSession() {
	if err := c.tokens.Clear(); err != nil {
		c.log.Warn("credentials not cleared", zap.Error(err))
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}
