// Package service holds the pro program use cases. It coordinates the Shopify Admin API
// and the session store; transport and SQL details stay in their own packages.
package service

import (
	"context"
	"errors"
	"net/url"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/pagination"
)

// Names shared with the storefront theme; changing them orphans existing data.
const (
	ProMetaobjectType   = "mm_pro_de_sante"
	ProDefinitionName   = "MM Pro de santé"
	ProCustomerTag      = "pro_sante"
	DiscountTitlePrefix = "Code promo Pro Sante - "
)

// DashboardSize is how many rows of each list the dashboard shows.
const DashboardSize = 20

var (
	// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
	// Field-level details are retrieved via FieldErrors(err).
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized covers missing sessions, bad HMACs and rejected tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDefinitionMissing means pros cannot be written until the definition is created.
	ErrDefinitionMissing = errors.New("pro metaobject definition does not exist")
	// ErrCodeInUse means another discount already owns the requested code.
	ErrCodeInUse = errors.New("discount code already in use")
)

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// newInvalidInput returns nil when fe is empty.
func newInvalidInput(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	var fe interface{ Fields() []FieldError }
	if errors.As(err, &fe) && errors.Is(err, ErrInvalidInput) {
		return fe.Fields()
	}
	return nil
}

// DefinitionService manages the pro metaobject definition.
type DefinitionService interface {
	Status(ctx context.Context, shop string) (model.DefinitionStatus, error)
	// Ensure creates the definition when missing; calling it again is a no-op.
	Ensure(ctx context.Context, shop string) (model.DefinitionStatus, error)
}

// ProService manages pro entries together with their customer tag and discount code.
type ProService interface {
	List(ctx context.Context, shop string, req pagination.Request) (pagination.Result[model.Pro], error)
	Get(ctx context.Context, shop, id string) (model.Pro, error)
	Create(ctx context.Context, shop string, in model.ProInput) (model.Pro, error)
	Update(ctx context.Context, shop, id string, patch model.ProPatch) (model.Pro, error)
	Delete(ctx context.Context, shop, id string) error
}

// CustomerService manages the pro customer segment.
type CustomerService interface {
	EnsurePro(ctx context.Context, shop, email, name string) (model.TagAction, error)
	// RemovePro drops the tag only; a missing customer is not an error.
	RemovePro(ctx context.Context, shop, email string) error
	ListPros(ctx context.Context, shop string, req pagination.Request) (pagination.Result[model.Customer], error)
}

// CodeService reports the discount codes owned by pros.
type CodeService interface {
	Overview(ctx context.Context, shop string, req pagination.Request) (pagination.Result[model.CodeOverview], error)
}

// DashboardService builds the admin home page.
type DashboardService interface {
	Get(ctx context.Context, shop string) (model.Dashboard, error)
}

// AuthService covers app install, webhooks and the tokens handed to the front end.
type AuthService interface {
	// InstallURL returns the OAuth redirect and the state the callback must echo.
	InstallURL(shop string) (redirect, state string, err error)
	Callback(ctx context.Context, query url.Values, expectedState string) (model.Session, error)
	VerifyWebhook(body []byte, signature string) error
	Uninstalled(ctx context.Context, shop string) error
	IssueToken(ctx context.Context, shop string) (model.APIToken, error)
	// VerifySessionToken returns the shop a token was issued for.
	VerifySessionToken(token string) (string, error)
	ListEvents(ctx context.Context, shop string, req pagination.Request) (pagination.Result[model.InstallEvent], error)
}
