package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
)

const (
	dashboardCacheKey = "gym:dashboard:summary"
	dashboardCacheTTL = 60 * time.Second
)

// DashboardService 运营总览：汇总数据走 Redis 短缓存
type DashboardService struct {
	userRepo       *repository.UserRepository
	planRepo       *repository.PlanRepository
	assignmentRepo *repository.AssignmentRepository
	attendanceRepo *repository.AttendanceRepository
	redisClient    *redis.Client // 可为 nil，降级为直查数据库
	reminderDays   int
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	planRepo *repository.PlanRepository,
	assignmentRepo *repository.AssignmentRepository,
	attendanceRepo *repository.AttendanceRepository,
	redisClient *redis.Client,
	reminderDays int,
) *DashboardService {
	return &DashboardService{
		userRepo:       userRepo,
		planRepo:       planRepo,
		assignmentRepo: assignmentRepo,
		attendanceRepo: attendanceRepo,
		redisClient:    redisClient,
		reminderDays:   reminderDays,
	}
}

// Summary 运营概览。缓存命中直接返回，未命中回源后写缓存
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var summary dto.DashboardSummary
			if err := json.Unmarshal([]byte(cached), &summary); err == nil {
				return &summary, nil
			}
		} else if err != redis.Nil {
			log.Printf("Failed to read dashboard cache: %v", err)
		}
	}

	summary, err := s.buildSummary()
	if err != nil {
		return nil, err
	}

	if s.redisClient != nil {
		data, err := json.Marshal(summary)
		if err == nil {
			if err := s.redisClient.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL).Err(); err != nil {
				log.Printf("Failed to write dashboard cache: %v", err)
			}
		}
	}

	return summary, nil
}

func (s *DashboardService) buildSummary() (*dto.DashboardSummary, error) {
	today := dateOf(time.Now())

	totalMembers, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	totalPlans, err := s.planRepo.Count()
	if err != nil {
		return nil, err
	}
	checkedIn, err := s.attendanceRepo.CountByDay(today)
	if err != nil {
		return nil, err
	}

	// 生效绑定按会员去重得到 Active 人数
	activeAssignments, err := s.assignmentRepo.ListActiveOn(today)
	if err != nil {
		return nil, err
	}
	activeUsers := make(map[int]struct{})
	for _, a := range activeAssignments {
		activeUsers[a.UserID] = struct{}{}
	}

	expiring, err := s.ListExpiring()
	if err != nil {
		return nil, err
	}

	return &dto.DashboardSummary{
		TotalMembers:   totalMembers,
		ActiveMembers:  int64(len(activeUsers)),
		TotalPlans:     totalPlans,
		CheckedInToday: checkedIn,
		ExpiringSoon:   int64(len(expiring)),
	}, nil
}

// PlanDistribution 各套餐当前生效的会员数，按套餐列表顺序返回
func (s *DashboardService) PlanDistribution() ([]dto.PlanDistributionItem, error) {
	today := dateOf(time.Now())

	assignments, err := s.assignmentRepo.ListActiveOn(today)
	if err != nil {
		return nil, err
	}
	counts := make(map[int]int64)
	for _, a := range assignments {
		counts[a.PlanID]++
	}

	plans, err := s.planRepo.List()
	if err != nil {
		return nil, err
	}

	result := make([]dto.PlanDistributionItem, 0, len(plans))
	for _, p := range plans {
		result = append(result, dto.PlanDistributionItem{
			PlanID:   p.PlanID,
			PlanName: p.PlanName,
			Count:    counts[p.PlanID],
		})
	}
	return result, nil
}

// ListExpiring 即将到期的会籍：结束日期在 (今天, 今天+N] 内的绑定
func (s *DashboardService) ListExpiring() ([]dto.ExpiringMembership, error) {
	today := dateOf(time.Now())
	windowStart := today.AddDate(0, 0, 1)
	windowEnd := today.AddDate(0, 0, s.reminderDays)

	assignments, err := s.assignmentRepo.ListEndingBetween(windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	userIDs := make([]int, 0, len(assignments))
	planIDSet := make(map[int]struct{})
	for _, a := range assignments {
		userIDs = append(userIDs, a.UserID)
		planIDSet[a.PlanID] = struct{}{}
	}
	users, err := s.userRepo.ListByIDs(userIDs)
	if err != nil {
		return nil, err
	}
	userNames := make(map[int]string, len(users))
	for _, u := range users {
		userNames[u.UserID] = u.Name
	}

	planIDs := make([]int, 0, len(planIDSet))
	for id := range planIDSet {
		planIDs = append(planIDs, id)
	}
	plans, err := s.planRepo.ListByIDs(planIDs)
	if err != nil {
		return nil, err
	}
	planNames := make(map[int]string, len(plans))
	for _, p := range plans {
		planNames[p.PlanID] = p.PlanName
	}

	result := make([]dto.ExpiringMembership, 0, len(assignments))
	for _, a := range assignments {
		result = append(result, dto.ExpiringMembership{
			UserID:   a.UserID,
			UserName: userNames[a.UserID],
			PlanID:   a.PlanID,
			PlanName: planNames[a.PlanID],
			EndDate:  a.EndDate.Format(dto.DateLayout),
			DaysLeft: int(a.EndDate.Sub(today).Hours() / 24),
		})
	}
	return result, nil
}
