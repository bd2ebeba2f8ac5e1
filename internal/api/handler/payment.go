package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create 记一笔收款
// POST /api/v1/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.paymentService.AddPayment(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPlanNotFound),
			errors.Is(err, service.ErrOriginalPaymentNotFound),
			errors.Is(err, service.ErrInvalidPaymentMethod),
			errors.Is(err, service.ErrInvalidDate):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Created(c, info)
}

// Get 查询收款详情
// GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "收款编号格式错误")
		return
	}

	info, err := h.paymentService.GetPayment(paymentID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// List 分页查询收款记录
// GET /api/v1/payments?page=1&page_size=20&sort=payment_date&order=desc
func (h *PaymentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	sortField := c.DefaultQuery("sort", "payment_date")
	descending := c.DefaultQuery("order", "desc") == "desc"

	infos, total, err := h.paymentService.ListPayments(page, pageSize, sortField, descending)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, infos)
}

// ListByUser 查询会员全部收款记录
// GET /api/v1/users/:id/payments
func (h *PaymentHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.ParamError(c, "会员编号格式错误")
		return
	}

	infos, err := h.paymentService.ListByUser(userID)
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

// Delete 删除收款记录
// DELETE /api/v1/payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "收款编号格式错误")
		return
	}

	if err := h.paymentService.DeletePayment(paymentID); err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.NoContent(c)
}

// Analytics 收款统计
// GET /api/v1/payments/analytics?start=2025-01-01&end=2025-12-31
func (h *PaymentHandler) Analytics(c *gin.Context) {
	start, end, err := parseDateRange(c)
	if err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.paymentService.Analytics(start, end)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, result)
}

// parseDateRange 解析 start/end 查询参数，缺省为最近 30 天
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse(dto.DateLayout, s)
		if err != nil {
			return start, end, errors.New("start 日期格式错误，应为 yyyy-MM-dd")
		}
		start = parsed
	}
	if e := c.Query("end"); e != "" {
		parsed, err := time.Parse(dto.DateLayout, e)
		if err != nil {
			return start, end, errors.New("end 日期格式错误，应为 yyyy-MM-dd")
		}
		end = parsed
	}

	return start, end, nil
}
