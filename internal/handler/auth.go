package handler

import (
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/pkg/response"
)

const (
	stateCookie   = "shopify_oauth_state"
	stateMaxAge   = 600
	maxWebhookLen = 1 << 20
)

// AuthHandler serves the OAuth install flow, the app webhooks and the token endpoints.
type AuthHandler struct {
	svc    service.AuthService
	apiKey string
}

func NewAuthHandler(svc service.AuthService, apiKey string) *AuthHandler {
	return &AuthHandler{svc: svc, apiKey: apiKey}
}

// RegisterPublic mounts the routes Shopify calls without a session token.
func (h *AuthHandler) RegisterPublic(r *gin.Engine) {
	g := r.Group(AuthPrefix)
	{
		g.GET("/install", h.install)
		g.GET("/callback", h.callback)
	}
	r.POST(UninstalledWebhookPath, h.uninstalled)
}

// Register mounts the authenticated routes.
func (h *AuthHandler) Register(r *gin.RouterGroup) {
	r.GET("/token", h.token)
	r.GET("/install-events", h.events)
}

func (h *AuthHandler) install(c *gin.Context) {
	redirect, state, err := h.svc.InstallURL(c.Query("shop"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateMaxAge, AuthPrefix, "", true, true)
	c.Redirect(http.StatusFound, redirect)
}

func (h *AuthHandler) callback(c *gin.Context) {
	state, _ := c.Cookie(stateCookie)
	sess, err := h.svc.Callback(c.Request.Context(), c.Request.URL.Query(), state)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	c.SetCookie(stateCookie, "", -1, AuthPrefix, "", true, true)
	c.Redirect(http.StatusFound, h.adminAppURL(sess.Shop))
}

// adminAppURL opens the embedded app inside the shop admin.
func (h *AuthHandler) adminAppURL(shop string) string {
	u := url.URL{Scheme: "https", Host: shop, Path: "/admin/apps/" + h.apiKey}
	return u.String()
}

// uninstalled must read the raw body: the signature covers the exact bytes Shopify sent.
func (h *AuthHandler) uninstalled(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookLen))
	if err != nil {
		response.WriteError(c, bindError("body"))
		return
	}
	if err := h.svc.VerifyWebhook(body, c.GetHeader("X-Shopify-Hmac-Sha256")); err != nil {
		response.WriteError(c, err)
		return
	}
	if err := h.svc.Uninstalled(c.Request.Context(), c.GetHeader("X-Shopify-Shop-Domain")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *AuthHandler) token(c *gin.Context) {
	tok, err := h.svc.IssueToken(c.Request.Context(), shopFrom(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	response.WriteData(c, http.StatusOK, tok)
}

func (h *AuthHandler) events(c *gin.Context) {
	req, err := pageRequest(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.ListEvents(c.Request.Context(), shopFrom(c), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
