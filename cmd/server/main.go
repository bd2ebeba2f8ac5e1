package main

import (
	"context"
	"fmt"
	"log"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api"
	"github.com/qs3c/gym_go_server/internal/api/handler"
	"github.com/qs3c/gym_go_server/internal/database"
	"github.com/qs3c/gym_go_server/internal/pkg/cron"
	"github.com/qs3c/gym_go_server/internal/pkg/oss"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
	"github.com/qs3c/gym_go_server/internal/pkg/queue"
	"github.com/qs3c/gym_go_server/internal/pkg/ws"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS（可选）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" && cfg.OSS.AccessKeyID != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("Warning: Failed to init OSS client: %v", err)
		} else {
			log.Println("OSS client initialized")
		}
	}

	// 初始化 Queue 和 Pub/Sub
	reminderQueue := queue.NewQueue(rdb, cfg.Queue.ReminderQueue)
	publisher := pubsub.NewPublisher(rdb)
	subscriber := pubsub.NewSubscriber(rdb)

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(adminRepo, cfg.JWT)
	membershipService := service.NewMembershipService(db, userRepo, planRepo, assignmentRepo)
	userService := service.NewUserService(db, userRepo, planRepo, assignmentRepo, membershipService, ossClient)
	planService := service.NewPlanService(planRepo)
	attendanceService := service.NewAttendanceService(db, attendanceRepo, userRepo, membershipService, publisher, cfg.Attendance)
	paymentService := service.NewPaymentService(db, paymentRepo, userRepo, planRepo, membershipService)
	dashboardService := service.NewDashboardService(userRepo, planRepo, assignmentRepo, attendanceRepo, rdb, cfg.Membership.ReminderDays)

	// 初始管理员账号
	if err := authService.Bootstrap(cfg.Admin); err != nil {
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	// 考勤事件转发到 WebSocket 大屏
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.AttendanceEvent) {
			if err := wsHub.Broadcast(&ws.Message{Type: event.Type, Data: event}); err != nil {
				log.Printf("Failed to broadcast attendance event: %v", err)
			}
		})
		if err != nil {
			log.Printf("Attendance feed subscription stopped: %v", err)
		}
	}()

	// 定时任务：夜间批量签退 + 到期提醒扫描
	cronService := cron.NewService(attendanceService, dashboardService, reminderQueue)
	cronService.Start()
	defer cronService.Stop()

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	planHandler := handler.NewPlanHandler(planService)
	assignmentHandler := handler.NewAssignmentHandler(membershipService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		userHandler,
		planHandler,
		assignmentHandler,
		paymentHandler,
		attendanceHandler,
		dashboardHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
