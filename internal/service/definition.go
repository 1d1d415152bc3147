package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

// ProFieldDefinitions is the field layout of the pro metaobject.
func ProFieldDefinitions() []shopify.FieldDefinition {
	choices, _ := json.Marshal([]string{model.ValueTypePercent, model.ValueTypeAmount})
	return []shopify.FieldDefinition{
		{Name: "Identification", Key: "identification", Type: "single_line_text_field", Required: true},
		{Name: "Name", Key: "name", Type: "single_line_text_field", Required: true},
		{Name: "Email", Key: "email", Type: "single_line_text_field", Required: true},
		{Name: "Code Name", Key: "code", Type: "single_line_text_field", Required: true},
		{Name: "Montant", Key: "montant", Type: "number_decimal", Required: true},
		{
			Name: "Type", Key: "type", Type: "single_line_text_field", Required: true,
			Validations: []shopify.Validation{{Name: "choices", Value: string(choices)}},
		},
	}
}

type definitionService struct {
	admins AdminResolver
	log    zerolog.Logger
}

func NewDefinitionService(admins AdminResolver, logger zerolog.Logger) DefinitionService {
	l := logger.With().Str("module", "service").Str("component", "definition").Logger()
	return &definitionService{admins: admins, log: l}
}

func (s *definitionService) Status(ctx context.Context, shop string) (model.DefinitionStatus, error) {
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return model.DefinitionStatus{}, err
	}
	return definitionStatus(ctx, ex)
}

func (s *definitionService) Ensure(ctx context.Context, shop string) (model.DefinitionStatus, error) {
	ex, err := s.admins.Admin(ctx, shop)
	if err != nil {
		return model.DefinitionStatus{}, err
	}
	st, err := definitionStatus(ctx, ex)
	if err != nil || st.Exists {
		return st, err
	}

	def, err := shopify.CreateDefinition(ctx, ex, shopify.DefinitionInput{
		Name:        ProDefinitionName,
		Type:        ProMetaobjectType,
		Fields:      ProFieldDefinitions(),
		Publishable: true,
	})
	if err != nil {
		s.log.Error().Err(err).Str("shop", shop).Msg("create pro definition failed")
		return model.DefinitionStatus{}, err
	}
	s.log.Info().Str("shop", shop).Str("definition_id", def.ID).Msg("pro definition created")
	return model.DefinitionStatus{Exists: true, ID: def.ID, Type: ProMetaobjectType}, nil
}

func definitionStatus(ctx context.Context, ex shopify.Executor) (model.DefinitionStatus, error) {
	def, err := shopify.DefinitionByType(ctx, ex, ProMetaobjectType)
	if err != nil {
		return model.DefinitionStatus{}, err
	}
	st := model.DefinitionStatus{Type: ProMetaobjectType}
	if def != nil {
		st.Exists = true
		st.ID = def.ID
	}
	return st, nil
}
