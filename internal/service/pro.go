package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/pagination"
	"github.com/maxviazov/prosante-admin/internal/repository"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

// proService keeps three remote records in step: the metaobject, the customer tag
// and the discount code.
type proService struct {
	admins AdminResolver
	log    zerolog.Logger
}

func NewProService(admins AdminResolver, logger zerolog.Logger) ProService {
	l := logger.With().Str("module", "service").Str("component", "pro").Logger()
	return &proService{admins: admins, log: l}
}

// List pages over the first 250 pros; Shopify's page size caps a single read.
func (s *proService) List(ctx context.Context, shop string, req pagination.Request) (pagination.Result[model.Pro], error) {
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return pagination.Result[model.Pro]{}, err
	}
	pros, err := listPros(ctx, ex, shopify.MaxPageSize)
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Msg("list pros failed")
		return pagination.Result[model.Pro]{}, err
	}
	return pagination.Paginate(pros, req), nil
}

func (s *proService) Get(ctx context.Context, shop, id string) (model.Pro, error) {
	if err := validateID(id); err != nil {
		return model.Pro{}, err
	}
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return model.Pro{}, err
	}
	return getPro(ctx, ex, id)
}

func (s *proService) Create(ctx context.Context, shop string, in model.ProInput) (model.Pro, error) {
	start := time.Now()
	in = normalizeProInput(in)
	if err := validateProInput(in); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("pro validation failed")
		return model.Pro{}, err
	}
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return model.Pro{}, err
	}
	if err := requireDefinition(ctx, ex); err != nil {
		return model.Pro{}, err
	}
	existing, err := shopify.FindDiscountByCode(ctx, ex, in.Code)
	if err != nil {
		return model.Pro{}, err
	}
	if existing != nil {
		return model.Pro{}, fmt.Errorf("%w: %s", ErrCodeInUse, in.Code)
	}

	mo, err := shopify.CreateMetaobject(ctx, ex, ProMetaobjectType, proFields(in))
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Msg("create pro metaobject failed")
		return model.Pro{}, err
	}
	log := s.log.With().Str("shop", shop).Str("pro_id", mo.ID).Logger()

	if _, err := shopify.CreateBasicDiscount(ctx, ex, discountInput(in)); err != nil {
		log.Error().Err(err).Msg("create discount failed, removing pro")
		if _, derr := shopify.DeleteMetaobject(ctx, ex, mo.ID); derr != nil {
			log.Error().Err(derr).Msg("rollback of pro metaobject failed")
		}
		return model.Pro{}, err
	}
	action, err := ensureProCustomer(ctx, ex, in.Email, in.Name)
	if err != nil {
		// The pro and its code are usable without the tag; EnsurePro can be retried.
		log.Warn().Err(err).Str("email", in.Email).Msg("tag pro customer failed")
	}
	log.Info().Dur("took", time.Since(start)).Str("customer_action", string(action)).Msg("pro created")
	return proFromMetaobject(mo), nil
}

func (s *proService) Update(ctx context.Context, shop, id string, patch model.ProPatch) (model.Pro, error) {
	if err := validateID(id); err != nil {
		return model.Pro{}, err
	}
	if patch.Empty() {
		return model.Pro{}, newInvalidInput([]FieldError{{Field: "body", Message: "no fields to update"}})
	}
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return model.Pro{}, err
	}
	current, err := getPro(ctx, ex, id)
	if err != nil {
		return model.Pro{}, err
	}

	before := inputFromPro(current)
	after := normalizeProInput(applyPatch(before, patch))
	if err := validateProInput(after); err != nil {
		return model.Pro{}, err
	}
	changed := changedFields(before, after)
	if len(changed) == 0 {
		return current, nil
	}
	codeChanged := !strings.EqualFold(before.Code, after.Code)
	if codeChanged {
		taken, err := shopify.FindDiscountByCode(ctx, ex, after.Code)
		if err != nil {
			return model.Pro{}, err
		}
		if taken != nil {
			return model.Pro{}, fmt.Errorf("%w: %s", ErrCodeInUse, after.Code)
		}
	}

	mo, err := shopify.UpdateMetaobject(ctx, ex, id, changed)
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Str("pro_id", id).Msg("update pro metaobject failed")
		return model.Pro{}, err
	}
	log := s.log.With().Str("shop", shop).Str("pro_id", id).Logger()

	if discountChanged(before, after) {
		if err := syncDiscount(ctx, ex, before, after); err != nil {
			log.Error().Err(err).Msg("sync discount failed, reverting pro")
			if _, rerr := shopify.UpdateMetaobject(ctx, ex, id, changedFields(after, before)); rerr != nil {
				log.Error().Err(rerr).Msg("revert of pro metaobject failed")
			}
			return model.Pro{}, err
		}
	}
	if before.Email != after.Email {
		if _, err := removeProTag(ctx, ex, before.Email); err != nil {
			log.Warn().Err(err).Str("email", before.Email).Msg("untag previous email failed")
		}
		if _, err := ensureProCustomer(ctx, ex, after.Email, after.Name); err != nil {
			log.Warn().Err(err).Str("email", after.Email).Msg("tag new email failed")
		}
	}
	log.Info().Int("fields", len(changed)).Bool("code_changed", codeChanged).Msg("pro updated")
	return proFromMetaobject(mo), nil
}

// Delete removes the pro, then its discount and customer tag. Cleanup failures
// are logged; the pro is gone either way.
func (s *proService) Delete(ctx context.Context, shop, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return err
	}
	current, err := getPro(ctx, ex, id)
	if err != nil {
		return err
	}
	if _, err := shopify.DeleteMetaobject(ctx, ex, id); err != nil {
		s.log.Error().Err(err).Str("shop", shop).Str("pro_id", id).Msg("delete pro metaobject failed")
		return err
	}
	log := s.log.With().Str("shop", shop).Str("pro_id", id).Logger()

	if current.Code != "" {
		d, err := shopify.FindDiscountByCode(ctx, ex, current.Code)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("lookup discount failed")
		case d != nil:
			if err := shopify.DeleteDiscount(ctx, ex, d.ID); err != nil {
				log.Warn().Err(err).Str("discount_id", d.ID).Msg("delete discount failed")
			}
		}
	}
	if current.Email != "" {
		if _, err := removeProTag(ctx, ex, current.Email); err != nil {
			log.Warn().Err(err).Msg("untag pro customer failed")
		}
	}
	log.Info().Msg("pro deleted")
	return nil
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return newInvalidInput([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return nil
}

func requireDefinition(ctx context.Context, ex shopify.Executor) error {
	st, err := definitionStatus(ctx, ex)
	if err != nil {
		return err
	}
	if !st.Exists {
		return ErrDefinitionMissing
	}
	return nil
}

func getPro(ctx context.Context, ex shopify.Executor, id string) (model.Pro, error) {
	mo, err := shopify.GetMetaobject(ctx, ex, id)
	if err != nil {
		return model.Pro{}, err
	}
	if mo == nil {
		return model.Pro{}, fmt.Errorf("pro %s: %w", id, repository.ErrNotFound)
	}
	return proFromMetaobject(*mo), nil
}

func listPros(ctx context.Context, ex shopify.Executor, first int) ([]model.Pro, error) {
	mos, err := shopify.ListMetaobjects(ctx, ex, ProMetaobjectType, first)
	if err != nil {
		return nil, err
	}
	out := make([]model.Pro, 0, len(mos))
	for _, mo := range mos {
		out = append(out, proFromMetaobject(mo))
	}
	return out, nil
}

func proFromMetaobject(mo shopify.Metaobject) model.Pro {
	p := model.Pro{ID: mo.ID, DisplayName: mo.DisplayName}
	p.Identification, _ = mo.Value("identification")
	p.Name, _ = mo.Value("name")
	p.Email, _ = mo.Value("email")
	p.Code, _ = mo.Value("code")
	p.Type, _ = mo.Value("type")
	if raw, ok := mo.Value("montant"); ok {
		if d, err := decimal.NewFromString(raw); err == nil {
			p.Montant = &d
		}
	}
	return p
}

func inputFromPro(p model.Pro) model.ProInput {
	in := model.ProInput{
		Identification: p.Identification,
		Name:           p.Name,
		Email:          p.Email,
		Code:           p.Code,
		Type:           p.Type,
	}
	if p.Montant != nil {
		in.Montant = *p.Montant
	}
	return in
}

func applyPatch(in model.ProInput, p model.ProPatch) model.ProInput {
	if p.Identification != nil {
		in.Identification = *p.Identification
	}
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Email != nil {
		in.Email = *p.Email
	}
	if p.Code != nil {
		in.Code = *p.Code
	}
	if p.Montant != nil {
		in.Montant = *p.Montant
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	return in
}

func proFields(in model.ProInput) []shopify.FieldInput {
	return []shopify.FieldInput{
		{Key: "identification", Value: in.Identification},
		{Key: "name", Value: in.Name},
		{Key: "email", Value: in.Email},
		{Key: "code", Value: in.Code},
		{Key: "montant", Value: in.Montant.String()},
		{Key: "type", Value: in.Type},
	}
}

// changedFields returns only the fields whose value differs, so an update never
// rewrites untouched remote data.
func changedFields(before, after model.ProInput) []shopify.FieldInput {
	old := proFields(before)
	var out []shopify.FieldInput
	for i, f := range proFields(after) {
		if f.Key == "montant" {
			if !before.Montant.Equal(after.Montant) {
				out = append(out, f)
			}
			continue
		}
		if f.Value != old[i].Value {
			out = append(out, f)
		}
	}
	return out
}

func discountChanged(before, after model.ProInput) bool {
	return before.Code != after.Code || before.Name != after.Name ||
		before.Type != after.Type || !before.Montant.Equal(after.Montant)
}

func discountInput(in model.ProInput) shopify.BasicDiscountInput {
	out := shopify.BasicDiscountInput{Title: DiscountTitlePrefix + in.Name, Code: in.Code}
	value := in.Montant
	if in.Type == model.ValueTypePercent {
		pct := value.Div(hundred)
		out.Percentage = &pct
	} else {
		out.Amount = &value
	}
	return out
}

// syncDiscount updates the discount owning before.Code in place. A code that was
// never linked gets a new discount.
func syncDiscount(ctx context.Context, ex shopify.Executor, before, after model.ProInput) error {
	d, err := shopify.FindDiscountByCode(ctx, ex, before.Code)
	if err != nil {
		return err
	}
	if d == nil {
		_, err := shopify.CreateBasicDiscount(ctx, ex, discountInput(after))
		return err
	}
	_, err = shopify.UpdateBasicDiscount(ctx, ex, d.ID, discountInput(after))
	return err
}
