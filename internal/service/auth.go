package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/maxviazov/prosante-admin/internal/config"
	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/pagination"
	"github.com/maxviazov/prosante-admin/internal/repository"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

// OAuthClient is the part of shopify.Client the install flow needs.
type OAuthClient interface {
	AuthorizeURL(shop, redirectURI, state string) (string, error)
	VerifyQueryHMAC(q url.Values) bool
	VerifyWebhookHMAC(body []byte, header string) bool
	ExchangeToken(ctx context.Context, shop, code string) (shopify.AccessToken, error)
}

const (
	tokenIssuer  = "prosante-admin"
	tokenLeeway  = 5 * time.Second
	defaultTTL   = time.Hour
	callbackPath = "/auth/callback"
)

// sessionClaims matches both the tokens we issue and App Bridge session tokens:
// HS256 signed with the API secret, aud = API key, dest = https://{shop}.
type sessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

type authService struct {
	oauth    OAuthClient
	tx       repository.TxManager
	sessions repository.SessionRepository
	events   repository.InstallEventRepository
	cfg      config.ShopifyConfig
	now      func() time.Time
	log      zerolog.Logger
}

// AuthOption tweaks an AuthService at construction.
type AuthOption func(*authService)

// WithClock replaces time.Now for token issuing and checks.
func WithClock(now func() time.Time) AuthOption { return func(s *authService) { s.now = now } }

func NewAuthService(
	oauth OAuthClient,
	tx repository.TxManager,
	sessions repository.SessionRepository,
	events repository.InstallEventRepository,
	cfg config.ShopifyConfig,
	logger zerolog.Logger,
	opts ...AuthOption,
) AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTTL
	}
	s := &authService{
		oauth:    oauth,
		tx:       tx,
		sessions: sessions,
		events:   events,
		cfg:      cfg,
		now:      time.Now,
		log:      logger.With().Str("module", "service").Str("component", "auth").Logger(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func validateShop(shop string) error {
	if !shopify.IsValidShopDomain(shop) {
		return newInvalidInput([]FieldError{{Field: "shop", Message: "must be a *.myshopify.com domain"}})
	}
	return nil
}

func (s *authService) InstallURL(shop string) (string, string, error) {
	if err := validateShop(shop); err != nil {
		return "", "", err
	}
	if s.cfg.AppURL == "" {
		return "", "", errors.New("shopify.app_url is not configured")
	}
	state := ulid.Make().String()
	u, err := s.oauth.AuthorizeURL(shop, s.cfg.AppURL+callbackPath, state)
	if err != nil {
		return "", "", err
	}
	return u, state, nil
}

func (s *authService) Callback(ctx context.Context, q url.Values, expectedState string) (model.Session, error) {
	shop := q.Get("shop")
	if err := validateShop(shop); err != nil {
		return model.Session{}, err
	}
	if expectedState == "" || q.Get("state") != expectedState {
		return model.Session{}, fmt.Errorf("%w: oauth state mismatch", ErrUnauthorized)
	}
	if !s.oauth.VerifyQueryHMAC(q) {
		s.log.Warn().Str("shop", shop).Msg("oauth callback hmac rejected")
		return model.Session{}, fmt.Errorf("%w: invalid hmac", ErrUnauthorized)
	}
	code := q.Get("code")
	if code == "" {
		return model.Session{}, newInvalidInput([]FieldError{{Field: "code", Message: "must not be empty"}})
	}

	tok, err := s.oauth.ExchangeToken(ctx, shop, code)
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Msg("token exchange failed")
		return model.Session{}, err
	}

	var out model.Session
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.sessions.Upsert(ctx, model.Session{Shop: shop, AccessToken: tok.AccessToken, Scope: tok.Scope})
		if err != nil {
			return err
		}
		_, err = s.events.Record(ctx, model.InstallEvent{Shop: shop, Kind: model.EventInstalled, Scope: tok.Scope})
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Msg("store session failed")
		return model.Session{}, err
	}
	s.log.Info().Str("shop", shop).Str("scope", tok.Scope).Msg("app installed")
	return out, nil
}

func (s *authService) VerifyWebhook(body []byte, signature string) error {
	if !s.oauth.VerifyWebhookHMAC(body, signature) {
		return fmt.Errorf("%w: invalid webhook signature", ErrUnauthorized)
	}
	return nil
}

// Uninstalled forgets the shop's session. Shopify retries webhooks, so a shop
// without a session still gets its event and succeeds.
func (s *authService) Uninstalled(ctx context.Context, shop string) error {
	if err := validateShop(shop); err != nil {
		return err
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.sessions.DeleteByShop(ctx, shop); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		_, err := s.events.Record(ctx, model.InstallEvent{Shop: shop, Kind: model.EventUninstalled})
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Msg("uninstall cleanup failed")
		return err
	}
	s.log.Info().Str("shop", shop).Msg("app uninstalled")
	return nil
}

// IssueToken signs a short-lived token for external pages. The Admin API access
// token itself never leaves the server.
func (s *authService) IssueToken(ctx context.Context, shop string) (model.APIToken, error) {
	if _, err := s.sessions.GetByShop(ctx, shop); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.APIToken{}, fmt.Errorf("%w: no session for %s", ErrUnauthorized, shop)
		}
		return model.APIToken{}, err
	}
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL)
	claims := sessionClaims{
		Dest: "https://" + shop,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   shop,
			Audience:  jwt.ClaimStrings{s.cfg.APIKey},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        ulid.Make().String(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.APISecret))
	if err != nil {
		return model.APIToken{}, fmt.Errorf("sign token: %w", err)
	}
	return model.APIToken{Shop: shop, Token: signed, ExpiresAt: exp.UTC()}, nil
}

func (s *authService) VerifySessionToken(token string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(s.cfg.APISecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(s.cfg.APIKey),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(tokenLeeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	u, err := url.Parse(claims.Dest)
	if err != nil || !shopify.IsValidShopDomain(u.Host) {
		return "", fmt.Errorf("%w: token has no valid dest", ErrUnauthorized)
	}
	return u.Host, nil
}

func (s *authService) ListEvents(ctx context.Context, shop string, req pagination.Request) (pagination.Result[model.InstallEvent], error) {
	req = req.Normalize()
	res, err := s.events.ListByShop(ctx, shop, repository.PageFromRequest(req))
	if err != nil {
		return pagination.Result[model.InstallEvent]{}, err
	}
	// Past the end: serve the last page, as in-memory listings do.
	if last := pagination.TotalPages(res.Total, req.PageSize); req.Page > last {
		req.Page = last
		if res, err = s.events.ListByShop(ctx, shop, repository.PageFromRequest(req)); err != nil {
			return pagination.Result[model.InstallEvent]{}, err
		}
	}
	return pagination.Result[model.InstallEvent]{
		Items:      res.Items,
		Total:      res.Total,
		Pagination: pagination.ClampedControls(req.Page, pagination.TotalPages(res.Total, req.PageSize)),
	}, nil
}
