package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api/handler"
	"github.com/qs3c/gym_go_server/internal/api/middleware"
)

type Router struct {
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	planHandler       *handler.PlanHandler
	assignmentHandler *handler.AssignmentHandler
	paymentHandler    *handler.PaymentHandler
	attendanceHandler *handler.AttendanceHandler
	dashboardHandler  *handler.DashboardHandler
	websocketHandler  *handler.WebSocketHandler
	cfg               *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	planHandler *handler.PlanHandler,
	assignmentHandler *handler.AssignmentHandler,
	paymentHandler *handler.PaymentHandler,
	attendanceHandler *handler.AttendanceHandler,
	dashboardHandler *handler.DashboardHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:       authHandler,
		userHandler:       userHandler,
		planHandler:       planHandler,
		assignmentHandler: assignmentHandler,
		paymentHandler:    paymentHandler,
		attendanceHandler: attendanceHandler,
		dashboardHandler:  dashboardHandler,
		websocketHandler:  websocketHandler,
		cfg:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket（前台大屏实时考勤）
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/login", r.authHandler.Login)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 会员
			users := authenticated.Group("/users")
			{
				users.POST("", r.userHandler.Create)
				users.GET("", r.userHandler.List)
				users.GET("/search", r.userHandler.Search)
				users.GET("/status/:status", r.userHandler.FilterByStatus)
				users.GET("/:id", r.userHandler.Get)
				users.PUT("/:id", r.userHandler.Update)
				users.DELETE("/:id", r.userHandler.Delete)
				users.POST("/:id/photo", r.userHandler.UploadPhoto)
				users.GET("/:id/assignments", r.assignmentHandler.ListByUser)
				users.DELETE("/:id/plan", r.assignmentHandler.RemovePlan)
				users.GET("/:id/payments", r.paymentHandler.ListByUser)
				users.GET("/:id/attendance", r.attendanceHandler.ListByUser)
			}

			// 套餐
			plans := authenticated.Group("/plans")
			{
				plans.POST("", r.planHandler.Create)
				plans.GET("", r.planHandler.List)
				plans.GET("/:id", r.planHandler.Get)
				plans.PUT("/:id", r.planHandler.Update)
				plans.DELETE("/:id", r.planHandler.Delete)
			}

			// 套餐绑定
			authenticated.DELETE("/assignments/:id", r.assignmentHandler.Delete)

			// 收款
			payments := authenticated.Group("/payments")
			{
				payments.POST("", r.paymentHandler.Create)
				payments.GET("", r.paymentHandler.List)
				payments.GET("/analytics", r.paymentHandler.Analytics)
				payments.GET("/:id", r.paymentHandler.Get)
				payments.DELETE("/:id", r.paymentHandler.Delete)
			}

			// 考勤
			attendance := authenticated.Group("/attendance")
			{
				attendance.POST("/toggle", r.attendanceHandler.Toggle)
				attendance.POST("/bulk-checkout", r.attendanceHandler.BulkCheckout)
				attendance.GET("", r.attendanceHandler.List)
				attendance.GET("/daily-counts", r.attendanceHandler.DailyCounts)
			}

			// 运营概览
			dashboard := authenticated.Group("/dashboard")
			{
				dashboard.GET("/summary", r.dashboardHandler.Summary)
				dashboard.GET("/expiring", r.dashboardHandler.Expiring)
				dashboard.GET("/plan-distribution", r.dashboardHandler.PlanDistribution)
			}
		}
	}

	return engine
}
