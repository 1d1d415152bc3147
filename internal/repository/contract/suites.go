// Package contract holds behaviour suites any repository implementation must pass.
package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/repository"
)

type SessionFactory func(t *testing.T) (repository.SessionRepository, func())

type InstallEventFactory func(t *testing.T) (repository.InstallEventRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, sessions repository.SessionRepository, events repository.InstallEventRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func RunSessionRepositoryContract(t *testing.T, makeRepo SessionFactory) {
	t.Helper()

	t.Run("upsert_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Upsert(ctx, model.Session{Shop: "a.myshopify.com", AccessToken: "shpat_1", Scope: "read_customers"})
		if err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		if created.ID == "" || created.CreatedAt.IsZero() {
			t.Fatalf("expected id and timestamps, got %+v", created)
		}
		got, err := repo.GetByShop(ctx, "a.myshopify.com")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.AccessToken != "shpat_1" || got.Scope != "read_customers" {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("upsert_replaces_token", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		first, err := repo.Upsert(ctx, model.Session{Shop: "b.myshopify.com", AccessToken: "old"})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		second, err := repo.Upsert(ctx, model.Session{Shop: "b.myshopify.com", AccessToken: "new", Scope: "write_customers"})
		if err != nil {
			t.Fatalf("re-upsert: %v", err)
		}
		if second.ID != first.ID || second.AccessToken != "new" {
			t.Fatalf("expected same row with new token, got %+v", second)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Fatalf("created_at changed: %v -> %v", first.CreatedAt, second.CreatedAt)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByShop(context.Background(), "missing.myshopify.com")
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Upsert(ctx, model.Session{Shop: "c.myshopify.com", AccessToken: "t"}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if err := repo.DeleteByShop(ctx, "c.myshopify.com"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := repo.DeleteByShop(ctx, "c.myshopify.com"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func RunInstallEventRepositoryContract(t *testing.T, makeRepo InstallEventFactory) {
	t.Helper()

	t.Run("record_and_list_newest_first", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for _, kind := range []string{model.EventInstalled, model.EventUninstalled, model.EventInstalled} {
			if _, err := repo.Record(ctx, model.InstallEvent{Shop: "a.myshopify.com", Kind: kind}); err != nil {
				t.Fatalf("record: %v", err)
			}
		}
		if _, err := repo.Record(ctx, model.InstallEvent{Shop: "other.myshopify.com", Kind: model.EventInstalled}); err != nil {
			t.Fatalf("record other: %v", err)
		}

		res, err := repo.ListByShop(ctx, "a.myshopify.com", repository.Page{Limit: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 3 || len(res.Items) != 2 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		if res.Items[0].ID < res.Items[1].ID {
			t.Fatalf("expected newest first: %+v", res.Items)
		}

		rest, err := repo.ListByShop(ctx, "a.myshopify.com", repository.Page{Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("list2: %v", err)
		}
		if len(rest.Items) != 1 || rest.Items[0].Kind != model.EventInstalled {
			t.Fatalf("unexpected second page: %+v", rest.Items)
		}
	})

	t.Run("unknown_kind_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Record(context.Background(), model.InstallEvent{Shop: "a.myshopify.com", Kind: "exploded"})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("empty_shop", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		res, err := repo.ListByShop(context.Background(), "none.myshopify.com", repository.Page{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 0 || len(res.Items) != 0 {
			t.Fatalf("expected empty result, got %+v", res)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, sessions, events, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := sessions.Upsert(ctx, model.Session{Shop: "tx.myshopify.com", AccessToken: "t"}); err != nil {
				return err
			}
			_, err := events.Record(ctx, model.InstallEvent{Shop: "tx.myshopify.com", Kind: model.EventInstalled})
			return err
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := sessions.GetByShop(ctx, "tx.myshopify.com"); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, sessions, events, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		marker := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := sessions.Upsert(ctx, model.Session{Shop: "rb.myshopify.com", AccessToken: "t"}); err != nil {
				return err
			}
			if _, err := events.Record(ctx, model.InstallEvent{Shop: "rb.myshopify.com", Kind: model.EventInstalled}); err != nil {
				return err
			}
			return marker
		})
		if !errors.Is(err, marker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := sessions.GetByShop(ctx, "rb.myshopify.com"); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
		res, err := events.ListByShop(ctx, "rb.myshopify.com", repository.Page{})
		if err != nil || res.Total != 0 {
			t.Fatalf("expected no events after rollback, got total=%d err=%v", res.Total, err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}
