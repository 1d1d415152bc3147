package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/maxviazov/prosante-admin/internal/model"
)

var validate = newValidator()

var hundred = decimal.NewFromInt(100)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so field errors match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func toFieldErrors(err error) []FieldError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make([]FieldError, 0, len(ves))
	for _, fe := range ves {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

func normalizeProInput(in model.ProInput) model.ProInput {
	in.Identification = strings.TrimSpace(in.Identification)
	in.Name = strings.Join(strings.Fields(in.Name), " ")
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Code = strings.TrimSpace(in.Code)
	in.Type = strings.TrimSpace(in.Type)
	return in
}

func validateProInput(in model.ProInput) error {
	ferrs := toFieldErrors(validate.Struct(in))
	if in.Code != "" && strings.ContainsAny(in.Code, " \t\r\n") {
		ferrs = append(ferrs, FieldError{Field: "code", Message: "must not contain whitespace"})
	}
	switch {
	case !in.Montant.IsPositive():
		ferrs = append(ferrs, FieldError{Field: "montant", Message: "must be greater than 0"})
	case in.Type == model.ValueTypePercent && in.Montant.GreaterThan(hundred):
		ferrs = append(ferrs, FieldError{Field: "montant", Message: "must not exceed 100 for a percentage"})
	}
	return newInvalidInput(ferrs)
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		msg := "must be a valid email address"
		if email == "" {
			msg = "must not be empty"
		}
		return newInvalidInput([]FieldError{{Field: "email", Message: msg}})
	}
	return nil
}

// splitName puts the first word in firstName and the rest in lastName.
// A single word is used for both, since Shopify shows lastName in lists.
func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	last = strings.Join(parts[1:], " ")
	if last == "" {
		last = first
	}
	return first, last
}
