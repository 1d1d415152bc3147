package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

type dashboardService struct {
	admins AdminResolver
	log    zerolog.Logger
}

func NewDashboardService(admins AdminResolver, logger zerolog.Logger) DashboardService {
	l := logger.With().Str("module", "service").Str("component", "dashboard").Logger()
	return &dashboardService{admins: admins, log: l}
}

// Get fetches the four dashboard sections concurrently. A section that fails
// is logged and left empty; lost access or a cancelled request fails the whole call.
func (s *dashboardService) Get(ctx context.Context, shop string) (model.Dashboard, error) {
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return model.Dashboard{}, err
	}
	start := time.Now()
	log := s.log.With().Str("shop", shop).Logger()

	var (
		st        model.DefinitionStatus
		pros      []model.Pro
		discounts []shopify.CodeDiscount
		customers []shopify.Customer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		st, err = definitionStatus(gctx, ex)
		return tolerate(log, "definition", err)
	})
	g.Go(func() error {
		var err error
		pros, err = listPros(gctx, ex, DashboardSize)
		return tolerate(log, "pros", err)
	})
	g.Go(func() error {
		var err error
		discounts, err = shopify.ListCodeDiscounts(gctx, ex, "", DashboardSize)
		return tolerate(log, "discounts", err)
	})
	g.Go(func() error {
		var err error
		customers, err = shopify.ListCustomersByTag(gctx, ex, ProCustomerTag, DashboardSize)
		return tolerate(log, "customers", err)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("dashboard fetch failed")
		return model.Dashboard{}, err
	}

	if pros == nil {
		pros = []model.Pro{}
	}
	out := model.Dashboard{
		DefinitionExists: st.Exists,
		Pros:             pros,
		Discounts:        make([]model.Discount, 0, len(discounts)),
		Customers:        toCustomers(customers),
	}
	for _, d := range discounts {
		out.Discounts = append(out.Discounts, model.Discount{ID: d.ID, Title: d.Title, Code: d.Code, Status: d.Status})
	}
	log.Debug().Dur("took", time.Since(start)).Msg("dashboard built")
	return out, nil
}

// tolerate swallows a section error unless the shop session is no longer usable.
func tolerate(log zerolog.Logger, section string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUnauthorized), errors.Is(err, shopify.ErrAccessDenied),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	log.Warn().Err(err).Str("section", section).Msg("dashboard section unavailable")
	return nil
}
