package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrAttendanceNotFound    = errors.New("考勤记录不存在")
	ErrMemberNotActive       = errors.New("会员会籍未生效，无法签到")
	ErrAlreadyCheckedOut     = errors.New("今日已完成签到签退，不能重复打卡")
	ErrCheckoutBeforeCheckin = errors.New("签退时间早于签到时间")
	ErrCheckoutTooEarly      = errors.New("未达到最短停留时间，暂不能签退")
)

// AttendanceService 考勤状态机：
// 每个会员每天 无记录 → 已签到 → 已签退（当日终态）。
type AttendanceService struct {
	db             *gorm.DB
	attendanceRepo *repository.AttendanceRepository
	userRepo       *repository.UserRepository
	membership     *MembershipService
	publisher      *pubsub.Publisher // 可为 nil（未接 Redis 时）
	cfg            config.AttendanceConfig

	now func() time.Time
}

func NewAttendanceService(
	db *gorm.DB,
	attendanceRepo *repository.AttendanceRepository,
	userRepo *repository.UserRepository,
	membership *MembershipService,
	publisher *pubsub.Publisher,
	cfg config.AttendanceConfig,
) *AttendanceService {
	return &AttendanceService{
		db:             db,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		membership:     membership,
		publisher:      publisher,
		cfg:            cfg,
		now:            time.Now,
	}
}

func (s *AttendanceService) minStay() time.Duration {
	return time.Duration(s.cfg.MinStayMinutes) * time.Minute
}

// Toggle 打卡：当天无记录则签到，有未签退记录则签退，
// 已签退则拒绝。签退要求不早于签到且满足最短停留时间。
func (s *AttendanceService) Toggle(userID int) (*dto.AttendanceInfo, bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, err
	}

	now := s.now()
	today := dateOf(now)

	record, err := s.attendanceRepo.GetByUserAndDay(userID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	// 签到
	if record == nil {
		if s.cfg.RequireActivePlan {
			status, err := s.membership.StatusFor(userID)
			if err != nil {
				return nil, false, err
			}
			if status != model.StatusActive {
				return nil, false, ErrMemberNotActive
			}
		}

		record = &model.Attendance{
			UserID:      userID,
			Day:         today,
			CheckInTime: now,
		}
		if err := s.attendanceRepo.Create(record); err != nil {
			return nil, false, err
		}

		s.publish(pubsub.EventCheckIn, user, record)
		return s.buildInfo(record, user.Name), true, nil
	}

	// 当日已签退，第三次打卡拒绝
	if record.CheckOutTime != nil {
		return nil, false, ErrAlreadyCheckedOut
	}

	// 签退
	if now.Before(record.CheckInTime) {
		return nil, false, ErrCheckoutBeforeCheckin
	}
	elapsed := now.Sub(record.CheckInTime)
	if elapsed < s.minStay() {
		return nil, false, ErrCheckoutTooEarly
	}

	checkOut := now
	record.CheckOutTime = &checkOut
	record.MinutesSpent = int(elapsed.Minutes())
	if err := s.attendanceRepo.Update(record); err != nil {
		return nil, false, err
	}

	s.publish(pubsub.EventCheckOut, user, record)
	return s.buildInfo(record, user.Name), false, nil
}

// BulkCheckout 批量签退当天所有未签退记录。
// 会籍未生效、未满最短停留、签到时间异常的记录跳过不报错，
// 返回实际签退的条数。
func (s *AttendanceService) BulkCheckout() (int, error) {
	now := s.now()
	today := dateOf(now)

	records, err := s.attendanceRepo.ListOpenByDay(today)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, record := range records {
		status, err := s.membership.StatusFor(record.UserID)
		if err != nil {
			return closed, err
		}
		if status != model.StatusActive {
			continue
		}
		if record.CheckInTime.IsZero() || now.Before(record.CheckInTime) {
			continue
		}
		elapsed := now.Sub(record.CheckInTime)
		if elapsed < s.minStay() {
			continue
		}

		checkOut := now
		record.CheckOutTime = &checkOut
		record.MinutesSpent = int(elapsed.Minutes())
		if err := s.attendanceRepo.Update(record); err != nil {
			return closed, err
		}
		closed++
	}

	return closed, nil
}

// ListByUser 查询会员全部考勤
func (s *AttendanceService) ListByUser(userID int) ([]dto.AttendanceInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	records, err := s.attendanceRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.AttendanceInfo, 0, len(records))
	for _, r := range records {
		infos = append(infos, *s.buildInfo(r, user.Name))
	}
	return infos, nil
}

// List 分页查询考勤（带会员姓名）
func (s *AttendanceService) List(page, pageSize int) ([]dto.AttendanceInfo, int64, error) {
	records, total, err := s.attendanceRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	userIDs := make([]int, 0, len(records))
	for _, r := range records {
		userIDs = append(userIDs, r.UserID)
	}
	users, err := s.userRepo.ListByIDs(userIDs)
	if err != nil {
		return nil, 0, err
	}
	names := make(map[int]string, len(users))
	for _, u := range users {
		names[u.UserID] = u.Name
	}

	infos := make([]dto.AttendanceInfo, 0, len(records))
	for _, r := range records {
		infos = append(infos, *s.buildInfo(r, names[r.UserID]))
	}
	return infos, total, nil
}

// DailyCounts 区间内每天的到馆人次
func (s *AttendanceService) DailyCounts(start, end time.Time) ([]dto.DailyCount, error) {
	records, err := s.attendanceRepo.ListByDayRange(dateOf(start), dateOf(end))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, r := range records {
		counts[r.Day.Format(dto.DateLayout)]++
	}

	result := make([]dto.DailyCount, 0, len(counts))
	for day := dateOf(start); !day.After(dateOf(end)); day = day.AddDate(0, 0, 1) {
		key := day.Format(dto.DateLayout)
		if c, ok := counts[key]; ok {
			result = append(result, dto.DailyCount{Date: key, Count: c})
		}
	}
	return result, nil
}

func (s *AttendanceService) buildInfo(record *model.Attendance, userName string) *dto.AttendanceInfo {
	info := &dto.AttendanceInfo{
		AttendanceID: record.AttendanceID,
		UserID:       record.UserID,
		UserName:     userName,
		Day:          record.Day.Format(dto.DateLayout),
		CheckInTime:  record.CheckInTime.Format(time.RFC3339),
		MinutesSpent: record.MinutesSpent,
	}
	if record.CheckOutTime != nil {
		info.CheckOutTime = record.CheckOutTime.Format(time.RFC3339)
		info.CheckedOut = true
	}
	return info
}

func (s *AttendanceService) publish(eventType string, user *model.User, record *model.Attendance) {
	if s.publisher == nil {
		return
	}

	event := &pubsub.AttendanceEvent{
		Type:         eventType,
		UserID:       user.UserID,
		UserName:     user.Name,
		Time:         s.now().Format(time.RFC3339),
		MinutesSpent: record.MinutesSpent,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.publisher.PublishAttendance(ctx, event); err != nil {
		log.Printf("Failed to publish attendance event: %v", err)
	}
}
