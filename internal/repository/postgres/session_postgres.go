package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/repository"
)

type sessionRepository struct{ pool *pgxpool.Pool }

func NewSessionRepository(pool *pgxpool.Pool) repository.SessionRepository {
	return &sessionRepository{pool: pool}
}

// OfflineSessionID is the id used for a shop's offline session row.
func OfflineSessionID(shop string) string { return "offline_" + shop }

const sessionColumns = `id, shop, access_token, scope, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (model.Session, error) {
	var s model.Session
	err := row.Scan(&s.ID, &s.Shop, &s.AccessToken, &s.Scope, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Upsert keeps created_at of an existing row and bumps updated_at.
func (r *sessionRepository) Upsert(ctx context.Context, s model.Session) (model.Session, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Session{}, err
	}
	if s.ID == "" {
		s.ID = OfflineSessionID(s.Shop)
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO shopify_sessions (id, shop, access_token, scope)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (shop) DO UPDATE
		 SET access_token = EXCLUDED.access_token,
		     scope = EXCLUDED.scope,
		     updated_at = now()
		 RETURNING `+sessionColumns,
		s.ID, s.Shop, s.AccessToken, s.Scope,
	)
	out, err := scanSession(row)
	if err != nil {
		return model.Session{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *sessionRepository) GetByShop(ctx context.Context, shop string) (model.Session, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Session{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM shopify_sessions WHERE shop = $1`, shop,
	)
	out, err := scanSession(row)
	if err != nil {
		return model.Session{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *sessionRepository) DeleteByShop(ctx context.Context, shop string) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM shopify_sessions WHERE shop = $1`, shop)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.SessionRepository = (*sessionRepository)(nil)
