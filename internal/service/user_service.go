package service

import (
	"errors"
	"io"
	"math/rand"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/pkg/oss"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var (
	ErrUserNotFound    = errors.New("会员不存在")
	ErrUserIDExists    = errors.New("会员编号已被占用")
	ErrUserIDExhausted = errors.New("无法生成唯一的 6 位会员编号")
	ErrInvalidDate     = errors.New("日期格式错误，应为 yyyy-MM-dd")
)

// 6 位会员编号生成的最大尝试次数
const maxIDAttempts = 100

type UserService struct {
	db             *gorm.DB
	userRepo       *repository.UserRepository
	planRepo       *repository.PlanRepository
	assignmentRepo *repository.AssignmentRepository
	membership     *MembershipService
	ossClient      *oss.Client

	// 进程内随机源，避免全局单例；rand.Rand 非并发安全，需加锁
	mu  sync.Mutex
	rng *rand.Rand
}

func NewUserService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	planRepo *repository.PlanRepository,
	assignmentRepo *repository.AssignmentRepository,
	membership *MembershipService,
	ossClient *oss.Client,
) *UserService {
	return &UserService{
		db:             db,
		userRepo:       userRepo,
		planRepo:       planRepo,
		assignmentRepo: assignmentRepo,
		membership:     membership,
		ossClient:      ossClient,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// generateUserID 生成未被占用的 6 位会员编号，尝试次数有上限
func (s *UserService) generateUserID() (int, error) {
	for i := 0; i < maxIDAttempts; i++ {
		s.mu.Lock()
		id := 100000 + s.rng.Intn(900000)
		s.mu.Unlock()

		exists, err := s.userRepo.ExistsByID(id)
		if err != nil {
			return 0, err
		}
		if !exists {
			return id, nil
		}
	}
	return 0, ErrUserIDExhausted
}

// CreateUser 新建会员；指定了套餐时同时建立绑定并置为 Active
func (s *UserService) CreateUser(req *dto.CreateUserRequest) (*dto.UserInfo, error) {
	joiningDate := dateOf(time.Now())
	if req.JoiningDate != "" {
		parsed, err := time.Parse(dto.DateLayout, req.JoiningDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		joiningDate = parsed
	}

	var userID int
	if req.UserID != nil {
		exists, err := s.userRepo.ExistsByID(*req.UserID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUserIDExists
		}
		userID = *req.UserID
	} else {
		id, err := s.generateUserID()
		if err != nil {
			return nil, err
		}
		userID = id
	}

	user := &model.User{
		UserID:           userID,
		Name:             req.Name,
		Age:              req.Age,
		Gender:           req.Gender,
		ContactNumber:    req.ContactNumber,
		MembershipStatus: model.StatusInactive,
		JoiningDate:      joiningDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewUserRepository(tx).Create(user); err != nil {
			return err
		}

		if req.PlanID != nil {
			plan, err := repository.NewPlanRepository(tx).GetByID(*req.PlanID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPlanNotFound
				}
				return err
			}
			if _, _, err := s.membership.AssignOrExtendTx(tx, user.UserID, plan, dateOf(time.Now())); err != nil {
				return err
			}
			user.MembershipStatus = model.StatusActive
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(user.UserID)
}

// GetUser 查询会员详情；状态按绑定日期现算，缓存不一致时自愈回写
func (s *UserService) GetUser(userID int) (*dto.UserInfo, error) {
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

	status := DeriveStatus(assignments, dateOf(time.Now()))
	if status != user.MembershipStatus {
		user.MembershipStatus = status
		if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
			"membership_status": status,
		}); err != nil {
			return nil, err
		}
	}

	planNames, err := s.planNamesFor(assignments)
	if err != nil {
		return nil, err
	}

	return s.buildUserInfo(user, assignments, planNames), nil
}

// ListUsers 分页查询会员列表，每个会员带全部套餐绑定
func (s *UserService) ListUsers(page, pageSize int) ([]*dto.UserInfo, int64, error) {
	users, total, err := s.userRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	infos, err := s.buildUserInfos(users)
	if err != nil {
		return nil, 0, err
	}
	return infos, total, nil
}

// UpdateUser 更新会员资料与套餐选择（一个事务内完成）
func (s *UserService) UpdateUser(userID int, req *dto.UpdateUserRequest) (*dto.UserInfo, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := repository.NewUserRepository(tx)

		user, err := userRepo.GetByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		user.Name = req.Name
		user.Age = req.Age
		user.Gender = req.Gender
		user.ContactNumber = req.ContactNumber
		if req.JoiningDate != "" {
			parsed, err := time.Parse(dto.DateLayout, req.JoiningDate)
			if err != nil {
				return ErrInvalidDate
			}
			user.JoiningDate = parsed
		}

		if err := s.membership.ChangePlanTx(tx, user, req.PlanID); err != nil {
			return err
		}

		return userRepo.Update(user)
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(userID)
}

// DeleteUser 删除会员（级联删除绑定、考勤、收款记录）
func (s *UserService) DeleteUser(userID int) error {
	exists, err := s.userRepo.ExistsByID(userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return s.userRepo.Delete(userID)
}

// SearchUsers 按姓名、编号子串或联系电话搜索
func (s *UserService) SearchUsers(query string) ([]*dto.UserInfo, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []*dto.UserInfo{}, nil
	}

	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, err
	}

	matched := make([]*model.User, 0)
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), query) ||
			strings.Contains(strconv.Itoa(u.UserID), query) ||
			strings.Contains(u.ContactNumber, query) {
			matched = append(matched, u)
		}
	}

	return s.buildUserInfos(matched)
}

// FilterByStatus 按推导状态过滤会员
func (s *UserService) FilterByStatus(status string) ([]*dto.UserInfo, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, err
	}

	infos, err := s.buildUserInfos(users)
	if err != nil {
		return nil, err
	}

	filtered := make([]*dto.UserInfo, 0)
	for _, info := range infos {
		if info.MembershipStatus == status {
			filtered = append(filtered, info)
		}
	}
	return filtered, nil
}

// UploadPhoto 上传会员照片到 OSS 并回写 URL
func (s *UserService) UploadPhoto(userID int, file io.Reader, filename string) (string, error) {
	if s.ossClient == nil {
		return "", errors.New("OSS 客户端未配置")
	}

	exists, err := s.userRepo.ExistsByID(userID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrUserNotFound
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}

	photoURL, err := s.ossClient.UploadMemberPhoto(userID, data, ext)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
		"photo_url": photoURL,
	}); err != nil {
		return "", err
	}

	return photoURL, nil
}

// buildUserInfos 批量组装会员详情：一次查出绑定和套餐名，避免逐条回查
func (s *UserService) buildUserInfos(users []*model.User) ([]*dto.UserInfo, error) {
	userIDs := make([]int, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.UserID)
	}

	assignments, err := s.assignmentRepo.ListByUserIDs(userIDs)
	if err != nil {
		return nil, err
	}

	planNames, err := s.planNamesFor(assignments)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int][]*model.PlanAssignment)
	for _, a := range assignments {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	infos := make([]*dto.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, s.buildUserInfo(u, byUser[u.UserID], planNames))
	}
	return infos, nil
}

func (s *UserService) buildUserInfo(user *model.User, assignments []*model.PlanAssignment, planNames map[int]string) *dto.UserInfo {
	today := dateOf(time.Now())

	plans := make([]dto.AssignedPlanInfo, 0, len(assignments))
	for _, a := range assignments {
		plans = append(plans, dto.AssignedPlanInfo{
			AssignmentID: a.AssignmentID,
			PlanID:       a.PlanID,
			PlanName:     planNames[a.PlanID],
			StartDate:    a.StartDate.Format(dto.DateLayout),
			EndDate:      a.EndDate.Format(dto.DateLayout),
			IsActive:     a.ActiveOn(today),
		})
	}

	// 生效的排在前面，其余按结束日期倒序
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].IsActive != plans[j].IsActive {
			return plans[i].IsActive
		}
		return plans[i].EndDate > plans[j].EndDate
	})

	return &dto.UserInfo{
		UserID:           user.UserID,
		Name:             user.Name,
		Age:              user.Age,
		Gender:           user.Gender,
		ContactNumber:    user.ContactNumber,
		MembershipStatus: DeriveStatus(assignments, today),
		JoiningDate:      user.JoiningDate.Format(dto.DateLayout),
		PhotoURL:         user.PhotoURL,
		AssignedPlans:    plans,
	}
}

func (s *UserService) planNamesFor(assignments []*model.PlanAssignment) (map[int]string, error) {
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
