package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// Create 新建套餐
// POST /api/v1/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	plan, err := h.planService.CreatePlan(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Created(c, plan)
}

// Get 查询套餐详情
// GET /api/v1/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ParamError(c, "套餐编号格式错误")
		return
	}

	plan, err := h.planService.GetPlan(planID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, plan)
}

// List 查询全部套餐
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.planService.ListPlans()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, plans)
}

// Update 更新套餐
// PUT /api/v1/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ParamError(c, "套餐编号格式错误")
		return
	}

	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	plan, err := h.planService.UpdatePlan(planID, &req)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, plan)
}

// Delete 删除套餐
// DELETE /api/v1/plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ParamError(c, "套餐编号格式错误")
		return
	}

	if err := h.planService.DeletePlan(planID); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.NoContent(c)
}
