package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/pagination"
	"github.com/maxviazov/prosante-admin/internal/repository"
	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/internal/shopify"
)

const proBody = `{"identification":"RPPS 1","name":"Jane Doe","email":"jane@example.com","code":"JANE15","montant":"15","type":"%"}`

func TestProHandler_Create_OK(t *testing.T) {
	f := newFixture(t)
	f.pros.pro = model.Pro{ID: "gid://shopify/Metaobject/1", Name: "Jane Doe", Code: "JANE15"}

	w := f.do(http.MethodPost, "/api/v1/pros", proBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got model.Pro
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "gid://shopify/Metaobject/1", got.ID)
	assert.Equal(t, testShop, f.pros.gotShop)
	assert.Equal(t, "JANE15", f.pros.gotIn.Code)
	assert.True(t, decimal.NewFromInt(15).Equal(f.pros.gotIn.Montant))
}

func TestProHandler_Create_NumericMontant(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/api/v1/pros", `{"name":"Jane","montant":12.5,"type":"€"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "12.5", f.pros.gotIn.Montant.String())
}

func TestProHandler_Create_Invalid(t *testing.T) {
	f := newFixture(t)
	f.pros.err = &fakeInvalid{fe: []service.FieldError{{Field: "email", Message: "must be a valid email"}}}

	w := f.do(http.MethodPost, "/api/v1/pros", proBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_input")
	assert.Contains(t, w.Body.String(), `"field":"email"`)
}

func TestProHandler_Create_MalformedBody(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/api/v1/pros", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "malformed request body")
	assert.Empty(t, f.pros.gotShop)
}

func TestProHandler_Create_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"code_in_use", fmt.Errorf("%w: JANE15", service.ErrCodeInUse), http.StatusConflict},
		{"definition_missing", service.ErrDefinitionMissing, http.StatusConflict},
		{"no_session", fmt.Errorf("%w: no session", service.ErrUnauthorized), http.StatusUnauthorized},
		{"user_errors", shopify.UserErrors{{Message: "Code is invalid"}}, http.StatusUnprocessableEntity},
		{"upstream", shopify.ErrUpstream, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.pros.err = tc.err
			w := f.do(http.MethodPost, "/api/v1/pros", proBody)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestProHandler_Get_IDForms(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/api/v1/pros/42", "gid://shopify/Metaobject/42"},
		{"/api/v1/pros/gid%3A%2F%2Fshopify%2FMetaobject%2F42", "gid://shopify/Metaobject/42"},
	}
	for _, tc := range cases {
		f := newFixture(t)
		w := f.do(http.MethodGet, tc.path, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, tc.want, f.pros.gotID, tc.path)
	}
}

func TestProHandler_Get_NotFound(t *testing.T) {
	f := newFixture(t)
	f.pros.err = fmt.Errorf("pro 42: %w", repository.ErrNotFound)
	w := f.do(http.MethodGet, "/api/v1/pros/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProHandler_List(t *testing.T) {
	f := newFixture(t)
	f.pros.list = pagination.Paginate([]model.Pro{{ID: "a"}, {ID: "b"}, {ID: "c"}}, pagination.Request{Page: 2, PageSize: 2})

	w := f.do(http.MethodGet, "/api/v1/pros?page=2&page_size=2", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, pagination.Request{Page: 2, PageSize: 2}, f.pros.gotReq)

	var body struct {
		Items      []model.Pro `json:"items"`
		Total      int         `json:"total"`
		Pagination struct {
			CurrentPage int  `json:"current_page"`
			CanNext     bool `json:"can_next"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "c", body.Items[0].ID)
	assert.Equal(t, 2, body.Pagination.CurrentPage)
	assert.False(t, body.Pagination.CanNext)
}

func TestProHandler_List_BadQuery(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/api/v1/pros?page=two&page_size=x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"page"`)
	assert.Contains(t, w.Body.String(), `"field":"page_size"`)
}

func TestProHandler_Update(t *testing.T) {
	f := newFixture(t)
	f.pros.pro = model.Pro{ID: "gid://shopify/Metaobject/7", Code: "NEW10"}

	w := f.do(http.MethodPatch, "/api/v1/pros/7", `{"code":"NEW10"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, f.pros.gotPatch.Code)
	assert.Equal(t, "NEW10", *f.pros.gotPatch.Code)
	assert.Nil(t, f.pros.gotPatch.Email)
	assert.Equal(t, "gid://shopify/Metaobject/7", f.pros.gotID)
}

func TestProHandler_Delete(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodDelete, "/api/v1/pros/7", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "gid://shopify/Metaobject/7", f.pros.gotID)
}
