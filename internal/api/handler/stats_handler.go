package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coderr/marketplace/internal/core/ports"
)

type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// BaseInfo handles GET /api/base-info.
//
// @Summary      Platform summary
// @Tags         stats
// @Produce      json
// @Success      200  {object}  domain.BaseInfo
// @Router       /api/base-info [get]
func (h *StatsHandler) BaseInfo(c echo.Context) error {
	info, err := h.service.BaseInfo(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}
