package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/pagination"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

type customerService struct {
	admins AdminResolver
	log    zerolog.Logger
}

func NewCustomerService(admins AdminResolver, logger zerolog.Logger) CustomerService {
	l := logger.With().Str("module", "service").Str("component", "customer").Logger()
	return &customerService{admins: admins, log: l}
}

func (s *customerService) EnsurePro(ctx context.Context, shop, email, name string) (model.TagAction, error) {
	in := normalizeProInput(model.ProInput{Email: email, Name: name})
	if err := validateEmail(in.Email); err != nil {
		return "", err
	}
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return "", err
	}
	start := time.Now()
	action, err := ensureProCustomer(ctx, ex, in.Email, in.Name)
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Str("email", in.Email).Msg("ensure pro customer failed")
		return "", err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("shop", shop).Str("action", string(action)).Msg("pro customer ensured")
	return action, nil
}

func (s *customerService) RemovePro(ctx context.Context, shop, email string) error {
	in := normalizeProInput(model.ProInput{Email: email})
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return err
	}
	removed, err := removeProTag(ctx, ex, in.Email)
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Str("email", in.Email).Msg("remove pro tag failed")
		return err
	}
	s.log.Info().Str("shop", shop).Bool("customer_found", removed).Msg("pro tag removed")
	return nil
}

// ListPros pages over the first 250 customers tagged pro_sante.
func (s *customerService) ListPros(ctx context.Context, shop string, req pagination.Request) (pagination.Result[model.Customer], error) {
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return pagination.Result[model.Customer]{}, err
	}
	found, err := shopify.ListCustomersByTag(ctx, ex, ProCustomerTag, shopify.MaxPageSize)
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Msg("list pro customers failed")
		return pagination.Result[model.Customer]{}, err
	}
	return pagination.Paginate(toCustomers(found), req), nil
}

// ensureProCustomer looks the customer up by email, creates it already tagged when
// absent, and otherwise adds the tag if it is missing.
func ensureProCustomer(ctx context.Context, ex shopify.Executor, email, name string) (model.TagAction, error) {
	existing, err := shopify.FindCustomerByEmail(ctx, ex, email)
	if err != nil {
		return "", err
	}
	if existing == nil {
		first, last := splitName(name)
		_, err := shopify.CreateCustomer(ctx, ex, shopify.CustomerInput{
			Email:            email,
			FirstName:        first,
			LastName:         last,
			Tags:             []string{ProCustomerTag},
			MarketingOptedIn: true,
		})
		if err != nil {
			return "", err
		}
		return model.TagActionCreated, nil
	}
	if toCustomer(*existing).HasTag(ProCustomerTag) {
		return model.TagActionAlreadyTagged, nil
	}
	if err := shopify.AddTags(ctx, ex, existing.ID, []string{ProCustomerTag}); err != nil {
		return "", err
	}
	return model.TagActionTagged, nil
}

// removeProTag reports whether a customer with email existed.
func removeProTag(ctx context.Context, ex shopify.Executor, email string) (bool, error) {
	existing, err := shopify.FindCustomerByEmail(ctx, ex, email)
	if err != nil || existing == nil {
		return false, err
	}
	if err := shopify.RemoveTags(ctx, ex, existing.ID, []string{ProCustomerTag}); err != nil {
		return true, err
	}
	return true, nil
}

func toCustomer(c shopify.Customer) model.Customer {
	out := model.Customer{
		ID:          c.ID,
		DisplayName: c.DisplayName,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Tags:        c.Tags,
		OrdersCount: c.NumberOfOrders,
	}
	if c.AmountSpent != nil {
		out.AmountSpent = c.AmountSpent.Amount + " " + c.AmountSpent.CurrencyCode
	}
	return out
}

func toCustomers(in []shopify.Customer) []model.Customer {
	out := make([]model.Customer, 0, len(in))
	for _, c := range in {
		out = append(out, toCustomer(c))
	}
	return out
}
