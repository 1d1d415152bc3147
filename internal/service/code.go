package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/pagination"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

type codeService struct {
	admins AdminResolver
	log    zerolog.Logger
}

func NewCodeService(admins AdminResolver, logger zerolog.Logger) CodeService {
	l := logger.With().Str("module", "service").Str("component", "code").Logger()
	return &codeService{admins: admins, log: l}
}

// Overview joins the first 250 pros with their discounts; later records are not read.
func (s *codeService) Overview(ctx context.Context, shop string, req pagination.Request) (pagination.Result[model.CodeOverview], error) {
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return pagination.Result[model.CodeOverview]{}, err
	}
	pros, err := listPros(ctx, ex, shopify.MaxPageSize)
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Msg("list pros for codes failed")
		return pagination.Result[model.CodeOverview]{}, err
	}
	discounts, err := shopify.ListCodeDiscounts(ctx, ex, "", shopify.MaxPageSize)
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Msg("list discounts failed")
		return pagination.Result[model.CodeOverview]{}, err
	}
	return pagination.Paginate(codeOverview(pros, discounts), req), nil
}

// codeOverview links each pro to the discount redeemable with its code.
// Shopify matches codes case-insensitively, so the index does too.
func codeOverview(pros []model.Pro, discounts []shopify.CodeDiscount) []model.CodeOverview {
	byCode := make(map[string]string, len(discounts))
	for _, d := range discounts {
		if d.Code != "" {
			byCode[strings.ToUpper(d.Code)] = d.ID
		}
	}
	out := make([]model.CodeOverview, 0, len(pros))
	for _, p := range pros {
		row := model.CodeOverview{
			ProID:         p.ID,
			Name:          p.Name,
			Code:          p.Code,
			Value:         formatValue(p),
			TechnicalName: DiscountTitlePrefix + p.Name,
		}
		if id, ok := byCode[strings.ToUpper(p.Code)]; ok && p.Code != "" {
			row.DiscountID = id
			row.Linked = true
		}
		out = append(out, row)
	}
	return out
}

func formatValue(p model.Pro) string {
	if p.Montant == nil {
		return p.Type
	}
	return strings.TrimSpace(p.Montant.String() + " " + p.Type)
}
