package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/pkg/response"
)

type DashboardHandler struct {
	svc service.DashboardService
}

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Register(r *gin.RouterGroup) {
	r.GET("/dashboard", h.get)
}

func (h *DashboardHandler) get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), shopFrom(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, d)
}
