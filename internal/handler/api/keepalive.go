package api

import (
	"net/http"

	resdto "exoterior-booking/internal/handler/dto/response"
	"exoterior-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type KeepaliveHandler struct {
	status queries.StatusQueries
}

func NewKeepaliveHandler(status queries.StatusQueries) *KeepaliveHandler {
	return &KeepaliveHandler{status: status}
}

// @Summary Keepalive
// @Description Touch the store so an idle database is not paused. Needs the cron bearer when CRON_SECRET is set.
// @Tags ops
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.KeepaliveResponse
// @Failure 401 {object} httperr.Response
// @Router /api/keepalive [get]
func (h *KeepaliveHandler) Keepalive(c *gin.Context) {
	c.JSON(http.StatusOK, resdto.FromStoreStatus(h.status.StoreStatus(c.Request.Context())))
}
