package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/maxviazov/prosante-admin/internal/repository"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

// AdminResolver returns a GraphQL executor authenticated for shop.
type AdminResolver interface {
	Admin(ctx context.Context, shop string) (shopify.Executor, error)
}

// AdminResolverFunc adapts a function to AdminResolver.
type AdminResolverFunc func(ctx context.Context, shop string) (shopify.Executor, error)

func (f AdminResolverFunc) Admin(ctx context.Context, shop string) (shopify.Executor, error) {
	return f(ctx, shop)
}

type sessionAdmins struct {
	sessions repository.SessionRepository
	client   *shopify.Client
}

// NewAdminResolver binds the Shopify client to the offline session stored for each shop.
func NewAdminResolver(sessions repository.SessionRepository, client *shopify.Client) AdminResolver {
	return &sessionAdmins{sessions: sessions, client: client}
}

func (r *sessionAdmins) Admin(ctx context.Context, shop string) (shopify.Executor, error) {
	s, err := r.sessions.GetByShop(ctx, shop)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: no session for %s", ErrUnauthorized, shop)
	}
	if err != nil {
		return nil, err
	}
	admin, err := r.client.Admin(s.Shop, s.AccessToken)
	if err != nil {
		return nil, err
	}
	return admin, nil
}
