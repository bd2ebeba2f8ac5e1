package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// Toggle 打卡（签到或签退）
// POST /api/v1/attendance/toggle
func (h *AttendanceHandler) Toggle(c *gin.Context) {
	var req dto.AttendanceToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, checkedIn, err := h.attendanceService.Toggle(req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrMemberNotActive),
			errors.Is(err, service.ErrAlreadyCheckedOut),
			errors.Is(err, service.ErrCheckoutTooEarly),
			errors.Is(err, service.ErrCheckoutBeforeCheckin):
			response.ConflictError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	message := "签退成功"
	if checkedIn {
		message = "签到成功"
	}
	response.SuccessWithMessage(c, message, info)
}

// BulkCheckout 批量签退当天未签退记录
// POST /api/v1/attendance/bulk-checkout
func (h *AttendanceHandler) BulkCheckout(c *gin.Context) {
	closed, err := h.attendanceService.BulkCheckout()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"closed": closed})
}

// List 分页查询考勤记录
// GET /api/v1/attendance?page=1&page_size=20
func (h *AttendanceHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	infos, total, err := h.attendanceService.List(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, infos)
}

// ListByUser 查询会员全部考勤记录
// GET /api/v1/users/:id/attendance
func (h *AttendanceHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ParamError(c, "会员编号格式错误")
		return
	}

	infos, err := h.attendanceService.ListByUser(userID)
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

// DailyCounts 区间内每天的到馆人次
// GET /api/v1/attendance/daily-counts?start=2025-01-01&end=2025-01-31
func (h *AttendanceHandler) DailyCounts(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		response.ParamError(c, err.Error())
		return
	}

	counts, err := h.attendanceService.DailyCounts(start, end)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, counts)
}
