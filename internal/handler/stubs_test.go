package handler_test

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/prosante-admin/internal/config"
	"github.com/maxviazov/prosante-admin/internal/handler"
	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/pagination"
	"github.com/maxviazov/prosante-admin/internal/service"
)

const (
	testShop  = "demo.myshopify.com"
	goodToken = "good-token"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

// fakeInvalid replicates aggregated validation error semantics.
type fakeInvalid struct{ fe []service.FieldError }

func (f *fakeInvalid) Error() string                { return service.ErrInvalidInput.Error() }
func (f *fakeInvalid) Unwrap() error                { return service.ErrInvalidInput }
func (f *fakeInvalid) Fields() []service.FieldError { return f.fe }

type stubAuth struct {
	installErr   error
	callbackErr  error
	gotState     string
	webhookErr   error
	uninstalled  string
	tokenErr     error
	eventsReq    pagination.Request
	eventsResult pagination.Result[model.InstallEvent]
}

func (s *stubAuth) InstallURL(shop string) (string, string, error) {
	if s.installErr != nil {
		return "", "", s.installErr
	}
	return "https://" + shop + "/admin/oauth/authorize?state=st8", "st8", nil
}

func (s *stubAuth) Callback(_ context.Context, q url.Values, expectedState string) (model.Session, error) {
	s.gotState = expectedState
	if s.callbackErr != nil {
		return model.Session{}, s.callbackErr
	}
	return model.Session{Shop: q.Get("shop")}, nil
}

func (s *stubAuth) VerifyWebhook([]byte, string) error { return s.webhookErr }

func (s *stubAuth) Uninstalled(_ context.Context, shop string) error {
	s.uninstalled = shop
	return nil
}

func (s *stubAuth) IssueToken(_ context.Context, shop string) (model.APIToken, error) {
	if s.tokenErr != nil {
		return model.APIToken{}, s.tokenErr
	}
	return model.APIToken{Shop: shop, Token: "jwt"}, nil
}

func (s *stubAuth) VerifySessionToken(token string) (string, error) {
	if token != goodToken {
		return "", fmt.Errorf("%w: bad token", service.ErrUnauthorized)
	}
	return testShop, nil
}

func (s *stubAuth) ListEvents(_ context.Context, _ string, req pagination.Request) (pagination.Result[model.InstallEvent], error) {
	s.eventsReq = req
	return s.eventsResult, nil
}

type stubPros struct {
	gotShop  string
	gotID    string
	gotReq   pagination.Request
	gotIn    model.ProInput
	gotPatch model.ProPatch
	pro      model.Pro
	list     pagination.Result[model.Pro]
	err      error
}

func (s *stubPros) List(_ context.Context, shop string, req pagination.Request) (pagination.Result[model.Pro], error) {
	s.gotShop, s.gotReq = shop, req
	return s.list, s.err
}

func (s *stubPros) Get(_ context.Context, shop, id string) (model.Pro, error) {
	s.gotShop, s.gotID = shop, id
	return s.pro, s.err
}

func (s *stubPros) Create(_ context.Context, shop string, in model.ProInput) (model.Pro, error) {
	s.gotShop, s.gotIn = shop, in
	return s.pro, s.err
}

func (s *stubPros) Update(_ context.Context, shop, id string, patch model.ProPatch) (model.Pro, error) {
	s.gotShop, s.gotID, s.gotPatch = shop, id, patch
	return s.pro, s.err
}

func (s *stubPros) Delete(_ context.Context, shop, id string) error {
	s.gotShop, s.gotID = shop, id
	return s.err
}

type stubCustomers struct {
	action   model.TagAction
	gotEmail string
	gotName  string
	err      error
}

func (s *stubCustomers) EnsurePro(_ context.Context, _, email, name string) (model.TagAction, error) {
	s.gotEmail, s.gotName = email, name
	return s.action, s.err
}

func (s *stubCustomers) RemovePro(_ context.Context, _, email string) error {
	s.gotEmail = email
	return s.err
}

func (s *stubCustomers) ListPros(context.Context, string, pagination.Request) (pagination.Result[model.Customer], error) {
	return pagination.Result[model.Customer]{Items: []model.Customer{}}, s.err
}

type stubDefinitions struct {
	status  model.DefinitionStatus
	ensured bool
}

func (s *stubDefinitions) Status(context.Context, string) (model.DefinitionStatus, error) {
	return s.status, nil
}

func (s *stubDefinitions) Ensure(context.Context, string) (model.DefinitionStatus, error) {
	s.ensured = true
	return model.DefinitionStatus{Exists: true, ID: "gid://shopify/MetaobjectDefinition/1", Type: service.ProMetaobjectType}, nil
}

type stubCodes struct{ err error }

func (s stubCodes) Overview(context.Context, string, pagination.Request) (pagination.Result[model.CodeOverview], error) {
	return pagination.Result[model.CodeOverview]{}, s.err
}

type stubDashboard struct{ err error }

func (s stubDashboard) Get(context.Context, string) (model.Dashboard, error) {
	return model.Dashboard{DefinitionExists: true}, s.err
}

type fixture struct {
	r           *gin.Engine
	auth        *stubAuth
	pros        *stubPros
	customers   *stubCustomers
	definitions *stubDefinitions
}

func newFixture(t *testing.T, opts ...func(*handler.Deps)) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &fixture{
		r:           gin.New(),
		auth:        &stubAuth{},
		pros:        &stubPros{},
		customers:   &stubCustomers{},
		definitions: &stubDefinitions{},
	}
	d := handler.Deps{
		Pinger:      stubPinger{},
		Auth:        f.auth,
		Definitions: f.definitions,
		Pros:        f.pros,
		Customers:   f.customers,
		Codes:       stubCodes{},
		Dashboard:   stubDashboard{},
		Logger:      zerolog.New(io.Discard),
		CORS:        config.CORSConfig{},
		APIKey:      "api-key",
	}
	for _, o := range opts {
		o(&d)
	}
	handler.Register(f.r, d)
	return f
}

// do sends an authenticated request unless the caller sets its own Authorization header.
func (f *fixture) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+goodToken)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.r.ServeHTTP(w, req)
	return w
}
