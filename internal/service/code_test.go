package service_test

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/pagination"
	"github.com/maxviazov/prosante-admin/internal/service"
)

func TestCodeService_Overview(t *testing.T) {
	f := newFakeShop()
	linked := f.addPro(map[string]string{"name": "Jane Doe", "code": "JANE15", "montant": "15", "type": "%"})
	f.addPro(map[string]string{"name": "Bob", "code": "BOB5", "montant": "5.50", "type": "€"})
	did := f.addDiscount("jane15", "Code promo Pro Sante - Jane Doe")
	svc := service.NewCodeService(f.resolver(), zerolog.New(io.Discard))

	res, err := svc.Overview(context.Background(), shop, pagination.Request{})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)

	assert.Equal(t, model.CodeOverview{
		ProID:         linked,
		Name:          "Jane Doe",
		Code:          "JANE15",
		Value:         "15 %",
		TechnicalName: "Code promo Pro Sante - Jane Doe",
		DiscountID:    did,
		Linked:        true,
	}, res.Items[0])

	assert.False(t, res.Items[1].Linked)
	assert.Empty(t, res.Items[1].DiscountID)
	assert.Equal(t, "5.5 €", res.Items[1].Value)
	assert.Equal(t, 1, res.Pagination.TotalPages)
}
