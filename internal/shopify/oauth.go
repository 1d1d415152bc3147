package shopify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
)

var shopDomainRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// IsValidShopDomain accepts only canonical *.myshopify.com hosts.
func IsValidShopDomain(shop string) bool {
	return shopDomainRe.MatchString(shop)
}

// AuthorizeURL builds the OAuth install URL for shop.
func (c *Client) AuthorizeURL(shop, redirectURI, state string) (string, error) {
	app := c.app
	app.RedirectUrl = redirectURI
	u, err := app.AuthorizeUrl(shop, state)
	if err != nil {
		return "", fmt.Errorf("failed to build authorize url: %w", err)
	}
	return u, nil
}

// VerifyQueryHMAC checks the hex `hmac` of an OAuth redirect against the
// sorted query string without `hmac` and `signature`.
func (c *Client) VerifyQueryHMAC(q url.Values) bool {
	ok, err := c.app.VerifyAuthorizationURL(&url.URL{RawQuery: q.Encode()})
	return err == nil && ok
}

// VerifyWebhookHMAC checks X-Shopify-Hmac-Sha256 (base64) against the raw body.
func (c *Client) VerifyWebhookHMAC(body []byte, header string) bool {
	if header == "" {
		return false
	}
	r, err := http.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	if err != nil {
		return false
	}
	r.Header.Set("X-Shopify-Hmac-Sha256", header)
	return c.app.VerifyWebhookRequest(r)
}

// AccessToken is the result of the OAuth code exchange.
type AccessToken struct {
	AccessToken string
	Scope       string
}

// ExchangeToken trades an authorization code for an offline access token.
// The granted scope is reported as the configured one.
func (c *Client) ExchangeToken(ctx context.Context, shop, code string) (AccessToken, error) {
	gc, err := c.shopClient(shop, "")
	if err != nil {
		return AccessToken{}, err
	}
	app := c.app
	app.Client = gc
	token, err := app.GetAccessToken(ctx, shop, code)
	if err != nil {
		return AccessToken{}, fmt.Errorf("token exchange: %w", mapError(err))
	}
	if token == "" {
		return AccessToken{}, fmt.Errorf("%w: token exchange returned empty token", ErrUpstream)
	}
	c.log.Info().Str("shop", shop).Str("scope", c.scopes).Msg("access token exchanged")
	return AccessToken{AccessToken: token, Scope: c.scopes}, nil
}
