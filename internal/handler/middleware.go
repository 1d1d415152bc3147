package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/maxviazov/prosante-admin/internal/config"
	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/pkg/response"
)

// Context keys set by the middleware chain.
const (
	RequestIDKey = "request_id"
	ShopKey      = "shop"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// RequestID keeps an incoming X-Request-ID or assigns a new ULID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = ulid.Make().String()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one line per request. 5xx and errors attached with c.Error log at error level.
func AccessLog(logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("module", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		switch {
		case status >= http.StatusInternalServerError || len(c.Errors) > 0:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("error", c.Errors.String())
		}
		ev.Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("shop", c.GetString(ShopKey)).
			Msg("request")
	}
}

// CORS allows the external pages listed in config to call the API with a bearer token.
// It returns nil when no origin is configured.
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	if len(cfg.AllowedOrigins) == 0 {
		return nil
	}
	cc := cors.DefaultConfig()
	cc.AllowOrigins = cfg.AllowedOrigins
	cc.AllowHeaders = append(cc.AllowHeaders, "Authorization", RequestIDHeader)
	cc.ExposeHeaders = []string{RequestIDHeader}
	cc.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	cc.MaxAge = 12 * time.Hour
	return cors.New(cc)
}

// TokenVerifier resolves a session token to the shop it was issued for.
type TokenVerifier interface {
	VerifySessionToken(token string) (string, error)
}

// RequireShop rejects requests without a valid "Bearer <token>" and stores the shop in the context.
func RequireShop(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.WriteError(c, service.ErrUnauthorized)
			return
		}
		shop, err := v.VerifySessionToken(parts[1])
		if err != nil {
			response.WriteError(c, err)
			return
		}
		c.Set(ShopKey, shop)
		c.Next()
	}
}

// shopFrom returns the shop set by RequireShop.
func shopFrom(c *gin.Context) string {
	return c.GetString(ShopKey)
}
