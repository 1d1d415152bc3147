package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/pkg/response"
)

type ProHandler struct {
	svc service.ProService
}

func NewProHandler(svc service.ProService) *ProHandler { return &ProHandler{svc: svc} }

func (h *ProHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/pros")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		// pro_id is either the numeric metaobject ID or the URL-encoded GID.
		g.GET("/:pro_id", h.get)
		g.PATCH("/:pro_id", h.update)
		g.DELETE("/:pro_id", h.delete)
	}
}

func (h *ProHandler) create(c *gin.Context) {
	var in model.ProInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.WriteError(c, bindError("body"))
		return
	}
	pro, err := h.svc.Create(c.Request.Context(), shopFrom(c), in)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, pro)
}

func (h *ProHandler) list(c *gin.Context) {
	req, err := pageRequest(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.List(c.Request.Context(), shopFrom(c), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *ProHandler) get(c *gin.Context) {
	pro, err := h.svc.Get(c.Request.Context(), shopFrom(c), proID(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, pro)
}

func (h *ProHandler) update(c *gin.Context) {
	var patch model.ProPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.WriteError(c, bindError("body"))
		return
	}
	pro, err := h.svc.Update(c.Request.Context(), shopFrom(c), proID(c), patch)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, pro)
}

func (h *ProHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), shopFrom(c), proID(c)); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

const metaobjectGIDPrefix = "gid://shopify/Metaobject/"

func proID(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("pro_id"))
	if id != "" && strings.Trim(id, "0123456789") == "" {
		return metaobjectGIDPrefix + id
	}
	return id
}
