package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary 运营概览
// GET /api/v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, summary)
}

// PlanDistribution 各套餐生效会员数分布
// GET /api/v1/dashboard/plan-distribution
func (h *DashboardHandler) PlanDistribution(c *gin.Context) {
	distribution, err := h.dashboardService.PlanDistribution()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, distribution)
}

// Expiring 即将到期的会籍列表
// GET /api/v1/dashboard/expiring
func (h *DashboardHandler) Expiring(c *gin.Context) {
	expiring, err := h.dashboardService.ListExpiring()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, expiring)
}
