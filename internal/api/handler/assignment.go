package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type AssignmentHandler struct {
	membershipService *service.MembershipService
}

func NewAssignmentHandler(membershipService *service.MembershipService) *AssignmentHandler {
	return &AssignmentHandler{membershipService: membershipService}
}

// ListByUser 查询会员全部套餐绑定
// GET /api/v1/users/:id/assignments
func (h *AssignmentHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ParamError(c, "会员编号格式错误")
		return
	}

	infos, err := h.membershipService.ListAssignmentsByUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, infos)
}

// RemovePlan 移除会员当前生效套餐
// DELETE /api/v1/users/:id/plan
func (h *AssignmentHandler) RemovePlan(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ParamError(c, "会员编号格式错误")
		return
	}

	if err := h.membershipService.RemovePlan(userID); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.NoContent(c)
}

// Delete 删除一条套餐绑定记录
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) Delete(c *gin.Context) {
	assignmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "绑定编号格式错误")
		return
	}

	if err := h.membershipService.DeleteAssignment(assignmentID); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.NoContent(c)
}
