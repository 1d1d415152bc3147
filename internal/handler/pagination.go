package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/prosante-admin/internal/pagination"
	"github.com/maxviazov/prosante-admin/pkg/response"
)

// PaginationHandler exposes the page-control computation for front ends that render it themselves.
type PaginationHandler struct{}

func (h PaginationHandler) Register(r *gin.RouterGroup) {
	r.GET("/pagination", h.controls)
}

// controls is strict: unlike list endpoints it reports an invalid range instead of clamping.
func (h PaginationHandler) controls(c *gin.Context) {
	v, err := queryInts(c, "current", "total")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	out, err := pagination.NewControls(v[0], v[1])
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, out)
}
