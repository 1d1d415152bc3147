package repository

import (
	"context"

	"github.com/maxviazov/prosante-admin/internal/model"
)

// Pinger represents a minimal readiness probe capability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
type TxFunc func(ctx context.Context) error

// TxManager runs fn in one transaction. Repositories called with the ctx passed to
// fn join that transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// SessionRepository stores one offline Admin API session per shop.
type SessionRepository interface {
	// Upsert inserts or replaces the session for s.Shop and returns the stored row.
	Upsert(ctx context.Context, s model.Session) (model.Session, error)
	GetByShop(ctx context.Context, shop string) (model.Session, error)
	// DeleteByShop returns ErrNotFound when the shop has no session.
	DeleteByShop(ctx context.Context, shop string) error
}

// InstallEventRepository is the append-only install/uninstall audit trail.
type InstallEventRepository interface {
	Record(ctx context.Context, e model.InstallEvent) (model.InstallEvent, error)
	// ListByShop returns newest events first.
	ListByShop(ctx context.Context, shop string, p Page) (PageResult[model.InstallEvent], error)
}
