package cron

import (
	"context"
	"log"
	"time"

	"github.com/qs3c/gym_go_server/internal/pkg/queue"
	"github.com/qs3c/gym_go_server/internal/service"
)

// Service 定时任务：
// 每晚闭馆后批量签退未签退的考勤，并扫描即将到期的会籍
// 将提醒任务推入队列，由 worker 消费发送邮件。
type Service struct {
	attendanceService *service.AttendanceService
	dashboardService  *service.DashboardService
	reminderQueue     *queue.Queue
	stopChan          chan struct{}
}

func NewService(
	attendanceService *service.AttendanceService,
	dashboardService *service.DashboardService,
	reminderQueue *queue.Queue,
) *Service {
	return &Service{
		attendanceService: attendanceService,
		dashboardService:  dashboardService,
		reminderQueue:     reminderQueue,
		stopChan:          make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runNightly()
	log.Println("Cron service started (bulk checkout + expiry reminders)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runNightly 每天 23:00 执行批量签退与到期扫描
func (s *Service) runNightly() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), 23, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	timer := time.NewTimer(next.Sub(now))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.runBulkCheckout()
			s.runReminderScan()
			timer.Reset(24 * time.Hour)
		}
	}
}

// runBulkCheckout 批量签退当天未签退的考勤
func (s *Service) runBulkCheckout() {
	log.Println("Starting nightly bulk checkout...")
	closed, err := s.attendanceService.BulkCheckout()
	if err != nil {
		log.Printf("Failed to run bulk checkout: %v", err)
		return
	}
	log.Printf("Bulk checkout completed, closed: %d", closed)
}

// runReminderScan 扫描即将到期的会籍并推入提醒队列
func (s *Service) runReminderScan() {
	if s.reminderQueue == nil {
		return
	}

	log.Println("Starting expiry reminder scan...")
	expiring, err := s.dashboardService.ListExpiring()
	if err != nil {
		log.Printf("Failed to scan expiring memberships: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

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
		if err := s.reminderQueue.Push(ctx, msg); err != nil {
			log.Printf("Failed to enqueue reminder for user %d: %v", item.UserID, err)
			continue
		}
		enqueued++
	}
	log.Printf("Expiry reminder scan completed, enqueued: %d", enqueued)
}

// RunNow 立即执行批量签退与到期扫描（用于手动触发）
func (s *Service) RunNow() error {
	closed, err := s.attendanceService.BulkCheckout()
	if err != nil {
		return err
	}
	log.Printf("Manual bulk checkout completed, closed: %d", closed)
	s.runReminderScan()
	return nil
}
