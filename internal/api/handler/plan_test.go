package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
	"github.com/qs3c/gym_go_server/internal/testutil"
)

func setupPlanHandler(t *testing.T) *PlanHandler {
	t.Helper()

	db := testutil.SetupTestDB(t)
	planService := service.NewPlanService(repository.NewPlanRepository(db))

	return NewPlanHandler(planService)
}

func planRouter(handler *PlanHandler) *gin.Engine {
	router := gin.New()
	group := router.Group("/plans", mockAuth(1))
	{
		group.POST("", handler.Create)
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
	}
	return router
}

func TestPlanHandler_CRUD(t *testing.T) {
	handler := setupPlanHandler(t)
	router := planRouter(handler)

	// 新建
	w := performRequest(router, "POST", "/plans", dto.PlanRequest{
		PlanName:       "年卡",
		Price:          8800,
		DurationMonths: 12,
		FeaturesList:   "器械区,泳池,私教",
	})
	resp := parseResponse(t, w)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	planID := int(data["plan_id"].(float64))
	assert.Equal(t, "年卡", data["plan_name"])

	// 查询
	w = performRequest(router, "GET", fmt.Sprintf("/plans/%d", planID), nil)
	resp = parseResponse(t, w)

	require.Equal(t, http.StatusOK, w.Code)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, 8800.0, data["price"])

	// 更新
	w = performRequest(router, "PUT", fmt.Sprintf("/plans/%d", planID), dto.PlanRequest{
		PlanName:       "年卡升级",
		Price:          9900,
		DurationMonths: 12,
		FeaturesList:   "器械区,泳池,私教,桑拿",
	})
	resp = parseResponse(t, w)

	require.Equal(t, http.StatusOK, w.Code)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, "年卡升级", data["plan_name"])

	// 列表
	w = performRequest(router, "GET", "/plans", nil)
	resp = parseResponse(t, w)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data, 1)

	// 删除
	w = performRequest(router, "DELETE", fmt.Sprintf("/plans/%d", planID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(router, "GET", fmt.Sprintf("/plans/%d", planID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanHandler_Create_InvalidDuration(t *testing.T) {
	handler := setupPlanHandler(t)
	router := planRouter(handler)

	w := performRequest(router, "POST", "/plans", dto.PlanRequest{
		PlanName:       "零时长",
		Price:          100,
		DurationMonths: 0,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandler_Get_NotFound(t *testing.T) {
	handler := setupPlanHandler(t)
	router := planRouter(handler)

	w := performRequest(router, "GET", "/plans/999", nil)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}
