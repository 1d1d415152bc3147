package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/prosante-admin/internal/model"
	"github.com/maxviazov/prosante-admin/internal/service"
	"github.com/maxviazov/prosante-admin/pkg/response"
)

type CustomerHandler struct {
	svc service.CustomerService
}

func NewCustomerHandler(svc service.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func (h *CustomerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/customers")
	{
		g.GET("", h.list)
		g.POST("/pro", h.ensurePro)
		g.DELETE("/pro", h.removePro)
	}
}

type ensureProRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *CustomerHandler) list(c *gin.Context) {
	req, err := pageRequest(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.ListPros(c.Request.Context(), shopFrom(c), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *CustomerHandler) ensurePro(c *gin.Context) {
	var req ensureProRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, bindError("body"))
		return
	}
	action, err := h.svc.EnsurePro(c.Request.Context(), shopFrom(c), req.Email, req.Name)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	status := http.StatusOK
	if action == model.TagActionCreated {
		status = http.StatusCreated
	}
	response.WriteData(c, status, gin.H{"action": action})
}

func (h *CustomerHandler) removePro(c *gin.Context) {
	if err := h.svc.RemovePro(c.Request.Context(), shopFrom(c), c.Query("email")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
