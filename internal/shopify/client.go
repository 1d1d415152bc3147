// Package shopify is a thin Admin API client: go-shopify's GraphQL transport
// plus the handful of typed operations the pro program needs. It knows nothing
// about pros; callers map metaobject fields to their own types.
package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"

	"github.com/maxviazov/prosante-admin/internal/config"
)

// Executor runs one GraphQL document against a shop and decodes `data` into out.
// Services depend on this interface so tests can swap the transport.
type Executor interface {
	Do(ctx context.Context, query string, vars map[string]any, out any) error
}

const defaultRetries = 3

// Client holds app-wide settings; Admin binds it to a shop session.
type Client struct {
	app        goshopify.App
	http       *http.Client
	apiVersion string
	scopes     string
	baseURL    string
	log        zerolog.Logger
}

// Option tweaks a Client at construction.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithBaseURL sends every request to a fixed origin instead of https://{shop}.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func NewClient(cfg config.ShopifyConfig, logger zerolog.Logger, opts ...Option) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		app: goshopify.App{
			ApiKey:    cfg.APIKey,
			ApiSecret: cfg.APISecret,
			Scope:     cfg.Scopes,
		},
		http:       &http.Client{Timeout: timeout},
		apiVersion: cfg.APIVersion,
		scopes:     cfg.Scopes,
		log:        logger.With().Str("module", "shopify").Logger(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.baseURL != "" {
		if u, err := url.Parse(c.baseURL); err == nil {
			next := c.http.Transport
			if next == nil {
				next = http.DefaultTransport
			}
			hc := *c.http
			hc.Transport = originTransport{origin: u, next: next}
			c.http = &hc
		}
	}
	return c
}

// originTransport rewrites the scheme and host of every request.
type originTransport struct {
	origin *url.URL
	next   http.RoundTripper
}

func (t originTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = t.origin.Scheme
	r.URL.Host = t.origin.Host
	r.Host = t.origin.Host
	return t.next.RoundTrip(r)
}

// shopClient builds a go-shopify client for one shop. token may be empty for the OAuth exchange.
func (c *Client) shopClient(shop, token string) (*goshopify.Client, error) {
	opts := []goshopify.Option{
		goshopify.WithHTTPClient(c.http),
		goshopify.WithRetry(defaultRetries),
		goshopify.WithLogger(leveledLogger{log: c.log.With().Str("shop", shop).Logger()}),
	}
	if c.apiVersion != "" {
		opts = append(opts, goshopify.WithVersion(c.apiVersion))
	}
	gc, err := goshopify.NewClient(c.app, shop, token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", shop, err)
	}
	return gc, nil
}

// Admin returns an Executor authenticated with an offline access token.
func (c *Client) Admin(shop, accessToken string) (*Admin, error) {
	gc, err := c.shopClient(shop, accessToken)
	if err != nil {
		return nil, err
	}
	return &Admin{gql: gc.GraphQL, shop: shop, log: c.log}, nil
}

// Admin is a per-shop GraphQL executor.
type Admin struct {
	gql  goshopify.GraphQLService
	shop string
	log  zerolog.Logger
}

// Do implements Executor.
func (a *Admin) Do(ctx context.Context, query string, vars map[string]any, out any) error {
	start := time.Now()
	err := a.gql.Query(ctx, query, vars, out)
	if err == nil {
		a.log.Debug().Str("shop", a.shop).Dur("took", time.Since(start)).Msg("graphql request")
		return nil
	}
	mapped := mapError(err)
	ev := a.log.Warn()
	if errors.Is(mapped, ErrUpstream) {
		ev = a.log.Error()
	}
	ev.Err(mapped).Str("shop", a.shop).Dur("took", time.Since(start)).Msg("graphql request failed")
	return mapped
}

// mapError folds go-shopify's error values onto ErrAccessDenied, GraphQLErrors and ErrUpstream.
func mapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var rl goshopify.RateLimitError
	if errors.As(err, &rl) {
		return fmt.Errorf("%w: rate limited, retry after %ds", ErrUpstream, rl.RetryAfter)
	}
	var re goshopify.ResponseError
	if errors.As(err, &re) {
		switch {
		case denied(re.Status):
			return fmt.Errorf("%w: status %d", ErrAccessDenied, re.Status)
		case re.Status < http.StatusMultipleChoices && len(re.Errors) > 0:
			out := make(GraphQLErrors, 0, len(re.Errors))
			for _, m := range re.Errors {
				out = append(out, GraphQLError{Message: m})
			}
			return out
		}
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, re.Status, truncate(re.Error(), 512))
	}
	var de goshopify.ResponseDecodingError
	if errors.As(err, &de) {
		if denied(de.Status) {
			return fmt.Errorf("%w: status %d", ErrAccessDenied, de.Status)
		}
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, de.Status, truncate(string(de.Body), 512))
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

func denied(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}

// leveledLogger routes go-shopify's logging to zerolog. Debug output carries
// request bodies and is dropped.
type leveledLogger struct {
	log zerolog.Logger
}

func (l leveledLogger) Debugf(string, ...interface{}) {}
func (l leveledLogger) Infof(format string, v ...interface{}) {
	l.log.Info().Msgf(format, v...)
}
func (l leveledLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn().Msgf(format, v...)
}
func (l leveledLogger) Errorf(format string, v ...interface{}) {
	l.log.Error().Msgf(format, v...)
}

var _ Executor = (*Admin)(nil)
