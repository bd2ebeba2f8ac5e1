package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/database"
	"github.com/qs3c/gym_go_server/internal/pkg/queue"
	"github.com/qs3c/gym_go_server/internal/repository"
	"github.com/qs3c/gym_go_server/internal/service"
)

var (
	withReminders = flag.Bool("reminders", false, "Also scan expiring memberships and enqueue reminders")
)

// 手动触发批量签退（夜间定时任务的人工替补）
func main() {
	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	membershipService := service.NewMembershipService(db, userRepo, planRepo, assignmentRepo)
	attendanceService := service.NewAttendanceService(db, attendanceRepo, userRepo, membershipService, nil, cfg.Attendance)

	log.Println("Starting manual bulk checkout...")
	closed, err := attendanceService.BulkCheckout()
	if err != nil {
		log.Fatalf("Bulk checkout failed: %v", err)
	}
	log.Printf("Bulk checkout completed, closed: %d", closed)

	if !*withReminders {
		return
	}

	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}

	dashboardService := service.NewDashboardService(userRepo, planRepo, assignmentRepo, attendanceRepo, rdb, cfg.Membership.ReminderDays)
	reminderQueue := queue.NewQueue(rdb, cfg.Queue.ReminderQueue)

	expiring, err := dashboardService.ListExpiring()
	if err != nil {
		log.Fatalf("Failed to scan expiring memberships: %v", err)
	}

	ctx := context.Background()
	enqueued := 0
	for _, item := range expiring {
		msg := &queue.ReminderMessage{
			UserID:   item.UserID,
			UserName: item.UserName,
			PlanID:   item.PlanID,
			PlanName: item.PlanName,
			EndDate:  item.EndDate,
			DaysLeft: item.DaysLeft,
		}
		if err := reminderQueue.Push(ctx, msg); err != nil {
			log.Printf("Failed to enqueue reminder for user %d: %v", item.UserID, err)
			continue
		}
		enqueued++
	}
	log.Printf("Enqueued %d expiry reminders", enqueued)
}
