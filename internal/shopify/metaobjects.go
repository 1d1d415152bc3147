package shopify

import (
	"context"
	"fmt"
)

// Field is a metaobject key/value pair. Value is nil when the field is unset.
type Field struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// Metaobject is a generic remote record.
type Metaobject struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Fields      []Field `json:"fields"`
}

// Value returns a field's value; ok is false for a missing or null field.
func (m Metaobject) Value(key string) (string, bool) {
	for _, f := range m.Fields {
		if f.Key == key && f.Value != nil {
			return *f.Value, true
		}
	}
	return "", false
}

// FieldInput is a key/value sent on create/update.
type FieldInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Validation is a field definition constraint such as `choices`.
type Validation struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FieldDefinition describes one field of a metaobject definition.
type FieldDefinition struct {
	Name        string       `json:"name"`
	Key         string       `json:"key"`
	Type        string       `json:"type"`
	Required    bool         `json:"required"`
	Validations []Validation `json:"validations,omitempty"`
}

// DefinitionInput is the payload of metaobjectDefinitionCreate.
type DefinitionInput struct {
	Name        string
	Type        string
	Fields      []FieldDefinition
	Publishable bool
}

// Definition is the subset of a metaobject definition we read back.
type Definition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// DefinitionByType returns the definition for typ, or nil when none exists.
func DefinitionByType(ctx context.Context, ex Executor, typ string) (*Definition, error) {
	var out struct {
		Definition *Definition `json:"metaobjectDefinitionByType"`
	}
	if err := ex.Do(ctx, definitionByTypeQuery, map[string]any{"type": typ}, &out); err != nil {
		return nil, fmt.Errorf("metaobject definition lookup: %w", err)
	}
	return out.Definition, nil
}

// CreateDefinition creates a metaobject definition.
func CreateDefinition(ctx context.Context, ex Executor, in DefinitionInput) (Definition, error) {
	def := map[string]any{
		"name":             in.Name,
		"type":             in.Type,
		"fieldDefinitions": in.Fields,
	}
	if in.Publishable {
		def["capabilities"] = map[string]any{"publishable": map[string]any{"enabled": true}}
	}
	var out struct {
		Payload struct {
			Definition *Definition `json:"metaobjectDefinition"`
			UserErrors UserErrors  `json:"userErrors"`
		} `json:"metaobjectDefinitionCreate"`
	}
	if err := ex.Do(ctx, definitionCreateMutation, map[string]any{"definition": def}, &out); err != nil {
		return Definition{}, fmt.Errorf("metaobject definition create: %w", err)
	}
	if err := out.Payload.UserErrors.Err(); err != nil {
		return Definition{}, err
	}
	if out.Payload.Definition == nil {
		return Definition{}, fmt.Errorf("%w: metaobject definition create returned no definition", ErrUpstream)
	}
	return *out.Payload.Definition, nil
}

// GetMetaobject fetches one record; nil when it does not exist.
func GetMetaobject(ctx context.Context, ex Executor, id string) (*Metaobject, error) {
	var out struct {
		Metaobject *Metaobject `json:"metaobject"`
	}
	if err := ex.Do(ctx, metaobjectQuery, map[string]any{"id": id}, &out); err != nil {
		return nil, fmt.Errorf("metaobject get: %w", err)
	}
	return out.Metaobject, nil
}

// ListMetaobjects returns up to first records of typ (capped at MaxPageSize).
func ListMetaobjects(ctx context.Context, ex Executor, typ string, first int) ([]Metaobject, error) {
	var out struct {
		Metaobjects struct {
			Nodes []Metaobject `json:"nodes"`
		} `json:"metaobjects"`
	}
	vars := map[string]any{"type": typ, "first": clampFirst(first)}
	if err := ex.Do(ctx, metaobjectsQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("metaobject list: %w", err)
	}
	return out.Metaobjects.Nodes, nil
}

// CreateMetaobject creates a record of typ.
func CreateMetaobject(ctx context.Context, ex Executor, typ string, fields []FieldInput) (Metaobject, error) {
	var out struct {
		Payload struct {
			Metaobject *Metaobject `json:"metaobject"`
			UserErrors UserErrors  `json:"userErrors"`
		} `json:"metaobjectCreate"`
	}
	vars := map[string]any{"metaobject": map[string]any{"type": typ, "fields": fields}}
	if err := ex.Do(ctx, metaobjectCreateMutation, vars, &out); err != nil {
		return Metaobject{}, fmt.Errorf("metaobject create: %w", err)
	}
	if err := out.Payload.UserErrors.Err(); err != nil {
		return Metaobject{}, err
	}
	if out.Payload.Metaobject == nil {
		return Metaobject{}, fmt.Errorf("%w: metaobject create returned no record", ErrUpstream)
	}
	return *out.Payload.Metaobject, nil
}

// UpdateMetaobject overwrites the given fields only.
func UpdateMetaobject(ctx context.Context, ex Executor, id string, fields []FieldInput) (Metaobject, error) {
	var out struct {
		Payload struct {
			Metaobject *Metaobject `json:"metaobject"`
			UserErrors UserErrors  `json:"userErrors"`
		} `json:"metaobjectUpdate"`
	}
	vars := map[string]any{"id": id, "metaobject": map[string]any{"fields": fields}}
	if err := ex.Do(ctx, metaobjectUpdateMutation, vars, &out); err != nil {
		return Metaobject{}, fmt.Errorf("metaobject update: %w", err)
	}
	if err := out.Payload.UserErrors.Err(); err != nil {
		return Metaobject{}, err
	}
	if out.Payload.Metaobject == nil {
		return Metaobject{}, fmt.Errorf("%w: metaobject update returned no record", ErrUpstream)
	}
	return *out.Payload.Metaobject, nil
}

// DeleteMetaobject deletes a record and returns the deleted ID.
func DeleteMetaobject(ctx context.Context, ex Executor, id string) (string, error) {
	var out struct {
		Payload struct {
			DeletedID  *string    `json:"deletedId"`
			UserErrors UserErrors `json:"userErrors"`
		} `json:"metaobjectDelete"`
	}
	if err := ex.Do(ctx, metaobjectDeleteMutation, map[string]any{"id": id}, &out); err != nil {
		return "", fmt.Errorf("metaobject delete: %w", err)
	}
	if err := out.Payload.UserErrors.Err(); err != nil {
		return "", err
	}
	if out.Payload.DeletedID == nil {
		return "", fmt.Errorf("%w: metaobject delete returned no id", ErrUpstream)
	}
	return *out.Payload.DeletedID, nil
}

func clampFirst(n int) int {
	if n <= 0 || n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
