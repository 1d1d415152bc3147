package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/pkg/response"
)

type CodeHandler struct {
	svc service.CodeService
}

func NewCodeHandler(svc service.CodeService) *CodeHandler { return &CodeHandler{svc: svc} }

func (h *CodeHandler) Register(r *gin.RouterGroup) {
	r.GET("/codes", h.list)
}

func (h *CodeHandler) list(c *gin.Context) {
	req, err := pageRequest(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.Overview(c.Request.Context(), shopFrom(c), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
