package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/pkg/response"
)

type DefinitionHandler struct {
	svc service.DefinitionService
}

func NewDefinitionHandler(svc service.DefinitionService) *DefinitionHandler {
	return &DefinitionHandler{svc: svc}
}

func (h *DefinitionHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/metaobject/definition")
	{
		g.GET("", h.status)
		g.POST("", h.ensure)
	}
}

func (h *DefinitionHandler) status(c *gin.Context) {
	st, err := h.svc.Status(c.Request.Context(), shopFrom(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, st)
}

// ensure is idempotent, so it answers 200 whether or not the definition was just created.
func (h *DefinitionHandler) ensure(c *gin.Context) {
	st, err := h.svc.Ensure(c.Request.Context(), shopFrom(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, st)
}
