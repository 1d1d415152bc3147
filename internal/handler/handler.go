package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/prosante-admin/internal/config"
	"github.com/maxviazov/prosante-admin/internal/service"
)

// Deps is everything Register needs. Services left nil must not be routed to.
type Deps struct {
	Pinger      Pinger
	Auth        service.AuthService
	Definitions service.DefinitionService
	Pros        service.ProService
	Customers   service.CustomerService
	Codes       service.CodeService
	Dashboard   service.DashboardService
	Logger      zerolog.Logger
	CORS        config.CORSConfig
	APIKey      string
}

// Register installs middleware and mounts all routes on the given engine.
func Register(r *gin.Engine, d Deps) {
	// Pro IDs may arrive as URL-encoded GIDs; route on the raw path so %2F stays inside the parameter.
	r.UseRawPath = true

	r.Use(RequestID(), AccessLog(d.Logger), gin.Recovery())
	if mw := CORS(d.CORS); mw != nil {
		r.Use(mw)
	}

	h := NewHealthHandler(d.Pinger)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	RegisterDocs(r)

	auth := NewAuthHandler(d.Auth, d.APIKey)
	auth.RegisterPublic(r)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}

		shop := api.Group("", RequireShop(d.Auth))
		auth.Register(shop)
		NewDashboardHandler(d.Dashboard).Register(shop)
		NewDefinitionHandler(d.Definitions).Register(shop)
		NewProHandler(d.Pros).Register(shop)
		NewCodeHandler(d.Codes).Register(shop)
		NewCustomerHandler(d.Customers).Register(shop)
		PaginationHandler{}.Register(shop)
	}
}
