package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/repository"
)

type installEventRepository struct{ pool *pgxpool.Pool }

func NewInstallEventRepository(pool *pgxpool.Pool) repository.InstallEventRepository {
	return &installEventRepository{pool: pool}
}

func (r *installEventRepository) Record(ctx context.Context, e model.InstallEvent) (model.InstallEvent, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.InstallEvent{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO install_events (shop, kind, scope) VALUES ($1, $2, $3)
		 RETURNING id, shop, kind, scope, created_at`,
		e.Shop, e.Kind, e.Scope,
	)
	var out model.InstallEvent
	if err := row.Scan(&out.ID, &out.Shop, &out.Kind, &out.Scope, &out.CreatedAt); err != nil {
		return model.InstallEvent{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *installEventRepository) ListByShop(ctx context.Context, shop string, p repository.Page) (repository.PageResult[model.InstallEvent], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.InstallEvent]{}, err
	}
	limit, offset := sanitizeLimitOffset(p)
	exec := getQ(ctx, r.pool)

	res := repository.PageResult[model.InstallEvent]{Items: make([]model.InstallEvent, 0, limit)}
	if err := exec.QueryRow(ctx, `SELECT COUNT(*) FROM install_events WHERE shop = $1`, shop).Scan(&res.Total); err != nil {
		return repository.PageResult[model.InstallEvent]{}, repository.MapPgError(err)
	}

	rows, err := exec.Query(ctx,
		`SELECT id, shop, kind, scope, created_at
		 FROM install_events
		 WHERE shop = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		shop, limit, offset,
	)
	if err != nil {
		return repository.PageResult[model.InstallEvent]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	for rows.Next() {
		var e model.InstallEvent
		if err := rows.Scan(&e.ID, &e.Shop, &e.Kind, &e.Scope, &e.CreatedAt); err != nil {
			return repository.PageResult[model.InstallEvent]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, e)
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.InstallEvent]{}, repository.MapPgError(err)
	}
	return res, nil
}

var _ repository.InstallEventRepository = (*installEventRepository)(nil)
