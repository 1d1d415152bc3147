package service_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/pagination"
	"github.com/maxviazov/prosante-admin/internal/repository"
	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

const shop = "demo.myshopify.com"

func validInput() model.ProInput {
	return model.ProInput{
		Identification: "RPPS-10001",
		Name:           "Jane  Doe",
		Email:          " Jane@Example.com ",
		Code:           "JANE15",
		Montant:        decimal.RequireFromString("15"),
		Type:           model.ValueTypePercent,
	}
}

func strPtr(s string) *string { return &s }

func TestProService_Create(t *testing.T) {
	f := newFakeShop().withDefinition()
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	pro, err := svc.Create(context.Background(), shop, validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, pro.ID)
	assert.Equal(t, "Jane Doe", pro.Name)
	assert.Equal(t, "jane@example.com", pro.Email)
	require.NotNil(t, pro.Montant)
	assert.True(t, pro.Montant.Equal(decimal.NewFromInt(15)))

	title, value, ok := f.discountFor("JANE15")
	require.True(t, ok, "discount created")
	assert.Equal(t, "Code promo Pro Sante - Jane Doe", title)
	assert.InDelta(t, 0.15, value["percentage"], 1e-9)

	assert.Equal(t, []string{service.ProCustomerTag}, f.customerTags("jane@example.com"))
}

func TestProService_Create_AmountDiscount(t *testing.T) {
	f := newFakeShop().withDefinition()
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	in := validInput()
	in.Type = model.ValueTypeAmount
	in.Montant = decimal.RequireFromString("12.5")
	_, err := svc.Create(context.Background(), shop, in)
	require.NoError(t, err)

	_, value, ok := f.discountFor("JANE15")
	require.True(t, ok)
	amount := value["discountAmount"].(map[string]any)
	assert.Equal(t, "12.50", amount["amount"])
}

func TestProService_Create_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.ProInput)
		field  string
	}{
		{"missing identification", func(in *model.ProInput) { in.Identification = " " }, "identification"},
		{"missing name", func(in *model.ProInput) { in.Name = "" }, "name"},
		{"bad email", func(in *model.ProInput) { in.Email = "nope" }, "email"},
		{"code with space", func(in *model.ProInput) { in.Code = "JANE 15" }, "code"},
		{"zero montant", func(in *model.ProInput) { in.Montant = decimal.Zero }, "montant"},
		{"percent over 100", func(in *model.ProInput) { in.Montant = decimal.NewFromInt(101) }, "montant"},
		{"bad type", func(in *model.ProInput) { in.Type = "$" }, "type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeShop().withDefinition()
			svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))
			in := validInput()
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), shop, in)
			require.ErrorIs(t, err, service.ErrInvalidInput)
			fields := service.FieldErrors(err)
			require.NotEmpty(t, fields)
			assert.Equal(t, tc.field, fields[0].Field)
			assert.Empty(t, f.calls, "no remote call on invalid input")
		})
	}
}

func TestProService_Create_DefinitionMissing(t *testing.T) {
	f := newFakeShop()
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))
	_, err := svc.Create(context.Background(), shop, validInput())
	assert.ErrorIs(t, err, service.ErrDefinitionMissing)
	assert.Zero(t, f.called("metaobjectCreate"))
}

func TestProService_Create_CodeInUse(t *testing.T) {
	f := newFakeShop().withDefinition()
	f.addDiscount("jane15", "Summer")
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))
	_, err := svc.Create(context.Background(), shop, validInput())
	assert.ErrorIs(t, err, service.ErrCodeInUse)
	assert.Zero(t, f.called("metaobjectCreate"))
}

func TestProService_Create_DiscountFailureRollsBack(t *testing.T) {
	f := newFakeShop().withDefinition()
	f.userErrOn["discountCodeBasicCreate"] = "Code must be unique"
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	_, err := svc.Create(context.Background(), shop, validInput())
	var ue shopify.UserErrors
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, 1, f.called("metaobjectDelete"))
	assert.Empty(t, f.metaobjects)
}

func TestProService_Create_TagFailureStillSucceeds(t *testing.T) {
	f := newFakeShop().withDefinition()
	f.userErrOn["customerCreate"] = "Email has already been taken"
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	_, err := svc.Create(context.Background(), shop, validInput())
	require.NoError(t, err)
	assert.Len(t, f.metaobjects, 1)
}

func TestProService_GetAndList(t *testing.T) {
	f := newFakeShop().withDefinition()
	id := f.addPro(map[string]string{"name": "A", "code": "A1", "montant": "10.5", "type": "€"})
	for i := 0; i < 24; i++ {
		f.addPro(map[string]string{"name": "P", "code": "P"})
	}
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))
	ctx := context.Background()

	got, err := svc.Get(ctx, shop, id)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
	require.NotNil(t, got.Montant)
	assert.Equal(t, "10.5", got.Montant.String())

	res, err := svc.List(ctx, shop, pagination.Request{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 25, res.Total)
	assert.Len(t, res.Items, 10)
	assert.Equal(t, 3, res.Pagination.TotalPages)
	assert.True(t, res.Pagination.CanPrevious)

	res, err = svc.List(ctx, shop, pagination.Request{Page: 99, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pagination.CurrentPage, "clamped to last page")
	assert.Len(t, res.Items, 5)
}

func TestProService_Get_NotFound(t *testing.T) {
	f := newFakeShop()
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))
	_, err := svc.Get(context.Background(), shop, "gid://shopify/Metaobject/404")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Get(context.Background(), shop, " ")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func seedPro(t *testing.T, f *fakeShop) string {
	t.Helper()
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))
	p, err := svc.Create(context.Background(), shop, validInput())
	require.NoError(t, err)
	return p.ID
}

func TestProService_Update_ValueResyncsDiscount(t *testing.T) {
	f := newFakeShop().withDefinition()
	id := seedPro(t, f)
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	m := decimal.NewFromInt(20)
	got, err := svc.Update(context.Background(), shop, id, model.ProPatch{Montant: &m})
	require.NoError(t, err)
	require.NotNil(t, got.Montant)
	assert.Equal(t, "20", got.Montant.String())
	assert.Equal(t, 1, f.called("discountCodeBasicUpdate"))

	_, value, ok := f.discountFor("JANE15")
	require.True(t, ok)
	assert.InDelta(t, 0.2, value["percentage"], 1e-9)
}

func TestProService_Update_CodeChange(t *testing.T) {
	f := newFakeShop().withDefinition()
	id := seedPro(t, f)
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	got, err := svc.Update(context.Background(), shop, id, model.ProPatch{Code: strPtr("JANE20")})
	require.NoError(t, err)
	assert.Equal(t, "JANE20", got.Code)

	_, _, oldExists := f.discountFor("JANE15")
	_, _, newExists := f.discountFor("JANE20")
	assert.False(t, oldExists)
	assert.True(t, newExists)
	assert.Len(t, f.discounts, 1)
}

func TestProService_Update_DiscountFailureRevertsPro(t *testing.T) {
	f := newFakeShop().withDefinition()
	id := seedPro(t, f)
	f.userErrOn["discountCodeBasicUpdate"] = "Code is invalid"
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	_, err := svc.Update(context.Background(), shop, id, model.ProPatch{Code: strPtr("JANE20"), Name: strPtr("Jane Smith")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Code is invalid")
	assert.Equal(t, 2, f.called("metaobjectUpdate"))

	got, err := svc.Get(context.Background(), shop, id)
	require.NoError(t, err)
	assert.Equal(t, "JANE15", got.Code)
	assert.Equal(t, "Jane Doe", got.Name)

	_, _, oldExists := f.discountFor("JANE15")
	_, _, newExists := f.discountFor("JANE20")
	assert.True(t, oldExists)
	assert.False(t, newExists)
}

func TestProService_Update_CodeTaken(t *testing.T) {
	f := newFakeShop().withDefinition()
	id := seedPro(t, f)
	f.addDiscount("TAKEN", "Other")
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	_, err := svc.Update(context.Background(), shop, id, model.ProPatch{Code: strPtr("TAKEN")})
	assert.ErrorIs(t, err, service.ErrCodeInUse)
	assert.Zero(t, f.called("metaobjectUpdate"))
}

func TestProService_Update_EmailMovesTag(t *testing.T) {
	f := newFakeShop().withDefinition()
	id := seedPro(t, f)
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	_, err := svc.Update(context.Background(), shop, id, model.ProPatch{Email: strPtr("new@example.com")})
	require.NoError(t, err)
	assert.Empty(t, f.customerTags("jane@example.com"))
	assert.Equal(t, []string{service.ProCustomerTag}, f.customerTags("new@example.com"))
	assert.Zero(t, f.called("discountCodeBasicUpdate"), "email does not touch the discount")
}

func TestProService_Update_EmptyAndNoop(t *testing.T) {
	f := newFakeShop().withDefinition()
	id := seedPro(t, f)
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	_, err := svc.Update(context.Background(), shop, id, model.ProPatch{})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Update(context.Background(), shop, id, model.ProPatch{Code: strPtr(" JANE15 ")})
	require.NoError(t, err)
	assert.Zero(t, f.called("metaobjectUpdate"))
}

func TestProService_Update_InvalidMerged(t *testing.T) {
	f := newFakeShop().withDefinition()
	id := seedPro(t, f)
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	m := decimal.NewFromInt(150)
	_, err := svc.Update(context.Background(), shop, id, model.ProPatch{Montant: &m})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, "montant", service.FieldErrors(err)[0].Field)
}

func TestProService_Delete(t *testing.T) {
	f := newFakeShop().withDefinition()
	id := seedPro(t, f)
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	require.NoError(t, svc.Delete(context.Background(), shop, id))
	assert.Empty(t, f.metaobjects)
	assert.Empty(t, f.discounts)
	assert.Empty(t, f.customerTags("jane@example.com"))

	err := svc.Delete(context.Background(), shop, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProService_Delete_CleanupFailureIgnored(t *testing.T) {
	f := newFakeShop().withDefinition()
	id := seedPro(t, f)
	f.failOn["discountCodeDelete"] = shopify.ErrUpstream
	svc := service.NewProService(f.resolver(), zerolog.New(io.Discard))

	require.NoError(t, svc.Delete(context.Background(), shop, id))
	assert.Empty(t, f.metaobjects)
}

func TestProService_NoSession(t *testing.T) {
	noSession := service.AdminResolverFunc(func(context.Context, string) (shopify.Executor, error) {
		return nil, service.ErrUnauthorized
	})
	svc := service.NewProService(noSession, zerolog.New(io.Discard))
	_, err := svc.List(context.Background(), shop, pagination.Request{})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
