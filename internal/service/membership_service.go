package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrPlanConflict       = errors.New("会员已有生效套餐，请先移除当前套餐再更换")
	ErrAssignmentNotFound = errors.New("套餐绑定记录不存在")
)

// MembershipService 会籍生命周期引擎：
// 负责状态推导、套餐绑定、续期与移除。
type MembershipService struct {
	db             *gorm.DB
	userRepo       *repository.UserRepository
	planRepo       *repository.PlanRepository
	assignmentRepo *repository.AssignmentRepository
}

func NewMembershipService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	planRepo *repository.PlanRepository,
	assignmentRepo *repository.AssignmentRepository,
) *MembershipService {
	return &MembershipService{
		db:             db,
		userRepo:       userRepo,
		planRepo:       planRepo,
		assignmentRepo: assignmentRepo,
	}
}

// dateOf 截断到日期（本地时区零点）
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DeriveStatus 由绑定记录推导会籍状态，纯函数、无副作用：
// 存在结束日期严格晚于 day 的绑定为 Active；
// 有绑定但全部到期为 Expired；无绑定为 Inactive。
// 存储的状态字段只是缓存，读取时一律以此推导结果为准。
func DeriveStatus(assignments []*model.PlanAssignment, day time.Time) string {
	if len(assignments) == 0 {
		return model.StatusInactive
	}
	for _, a := range assignments {
		if a.EndDate.After(day) {
			return model.StatusActive
		}
	}
	return model.StatusExpired
}

// StatusFor 查询并推导会员当前状态
func (s *MembershipService) StatusFor(userID int) (string, error) {
	assignments, err := s.assignmentRepo.ListByUserID(userID)
	if err != nil {
		return "", err
	}
	return DeriveStatus(assignments, dateOf(time.Now())), nil
}

// RefreshStatusTx 重新推导状态并回写缓存字段
func (s *MembershipService) RefreshStatusTx(tx *gorm.DB, user *model.User) (string, error) {
	assignments, err := repository.NewAssignmentRepository(tx).ListByUserID(user.UserID)
	if err != nil {
		return "", err
	}

	status := DeriveStatus(assignments, dateOf(time.Now()))
	if status != user.MembershipStatus {
		user.MembershipStatus = status
		if err := repository.NewUserRepository(tx).Update(user); err != nil {
			return "", err
		}
	}
	return status, nil
}

// AssignOrExtendTx 绑定或续期套餐（收款路径）：
// 当前有生效绑定时从原结束日期顺延（不吞掉已付时长），
// 否则以 start 为起始日新建绑定。返回绑定记录和是否为续期。
func (s *MembershipService) AssignOrExtendTx(tx *gorm.DB, userID int, plan *model.MembershipPlan, start time.Time) (*model.PlanAssignment, bool, error) {
	assignmentRepo := repository.NewAssignmentRepository(tx)
	today := dateOf(time.Now())

	active, err := assignmentRepo.ActiveByUserID(userID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if active != nil && active.EndDate.After(today) {
		active.EndDate = active.EndDate.AddDate(0, plan.DurationMonths, 0)
		if err := assignmentRepo.Update(active); err != nil {
			return nil, false, err
		}
		if err := s.markStatusTx(tx, userID, model.StatusActive); err != nil {
			return nil, false, err
		}
		return active, true, nil
	}

	start = dateOf(start)
	assignment := &model.PlanAssignment{
		UserID:    userID,
		PlanID:    plan.PlanID,
		StartDate: start,
		EndDate:   start.AddDate(0, plan.DurationMonths, 0),
	}
	if err := assignmentRepo.Create(assignment); err != nil {
		return nil, false, err
	}
	if err := s.markStatusTx(tx, userID, model.StatusActive); err != nil {
		return nil, false, err
	}
	return assignment, false, nil
}

// ChangePlanTx 会员编辑路径的换套餐策略：
// 选择同一套餐视为续期；已有生效套餐时选择其它套餐直接拒绝
// （必须先移除，避免"换套餐"静默变成给旧套餐续费）；
// planID 为 nil 表示选择"无套餐"，结束当前绑定。
func (s *MembershipService) ChangePlanTx(tx *gorm.DB, user *model.User, planID *int) error {
	assignmentRepo := repository.NewAssignmentRepository(tx)
	today := dateOf(time.Now())

	active, err := assignmentRepo.ActiveByUserID(user.UserID, today)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	hasActive := active != nil && active.EndDate.After(today)

	if planID == nil {
		if !hasActive {
			return nil
		}
		active.EndDate = today
		if err := assignmentRepo.Update(active); err != nil {
			return err
		}
		user.MembershipStatus = model.StatusInactive
		return nil
	}

	plan, err := repository.NewPlanRepository(tx).GetByID(*planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	if hasActive {
		if active.PlanID != plan.PlanID {
			return ErrPlanConflict
		}
		active.EndDate = active.EndDate.AddDate(0, plan.DurationMonths, 0)
		if err := assignmentRepo.Update(active); err != nil {
			return err
		}
		user.MembershipStatus = model.StatusActive
		return nil
	}

	assignment := &model.PlanAssignment{
		UserID:    user.UserID,
		PlanID:    plan.PlanID,
		StartDate: today,
		EndDate:   today.AddDate(0, plan.DurationMonths, 0),
	}
	if err := assignmentRepo.Create(assignment); err != nil {
		return err
	}
	user.MembershipStatus = model.StatusActive
	return nil
}

// RemovePlan 显式移除当前生效套餐：结束日期改为今天，状态置 Inactive
func (s *MembershipService) RemovePlan(userID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		today := dateOf(time.Now())

		active, err := repository.NewAssignmentRepository(tx).ActiveByUserID(userID, today)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		active.EndDate = today
		if err := repository.NewAssignmentRepository(tx).Update(active); err != nil {
			return err
		}
		return s.markStatusTx(tx, userID, model.StatusInactive)
	})
}

// DeleteAssignment 删除一条绑定记录并重推会员状态
func (s *MembershipService) DeleteAssignment(assignmentID int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		assignmentRepo := repository.NewAssignmentRepository(tx)

		assignment, err := assignmentRepo.GetByID(assignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return err
		}

		if err := assignmentRepo.Delete(assignmentID); err != nil {
			return err
		}

		user, err := repository.NewUserRepository(tx).GetByID(assignment.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // 会员已被删除，无状态可重推
			}
			return err
		}
		_, err = s.RefreshStatusTx(tx, user)
		return err
	})
}

// ListAssignmentsByUser 查询会员全部绑定（带套餐名称的显式联查）
func (s *MembershipService) ListAssignmentsByUser(userID int) ([]dto.AssignmentInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	assignments, err := s.assignmentRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	planNames, err := s.planNames(assignments)
	if err != nil {
		return nil, err
	}

	today := dateOf(time.Now())
	infos := make([]dto.AssignmentInfo, 0, len(assignments))
	for _, a := range assignments {
		infos = append(infos, dto.AssignmentInfo{
			AssignmentID: a.AssignmentID,
			UserID:       a.UserID,
			UserName:     user.Name,
			PlanID:       a.PlanID,
			PlanName:     planNames[a.PlanID],
			StartDate:    a.StartDate.Format(dto.DateLayout),
			EndDate:      a.EndDate.Format(dto.DateLayout),
			IsActive:     a.ActiveOn(today),
		})
	}
	return infos, nil
}

func (s *MembershipService) markStatusTx(tx *gorm.DB, userID int, status string) error {
	return repository.NewUserRepository(tx).UpdateFields(userID, map[string]interface{}{
		"membership_status": status,
	})
}

func (s *MembershipService) planNames(assignments []*model.PlanAssignment) (map[int]string, error) {
	idSet := make(map[int]struct{})
	for _, a := range assignments {
		idSet[a.PlanID] = struct{}{}
	}
	ids := make([]int, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	plans, err := s.planRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(plans))
	for _, p := range plans {
		names[p.PlanID] = p.PlanName
	}
	return names, nil
}
