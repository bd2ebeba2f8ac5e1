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
	ErrPaymentNotFound         = errors.New("收款记录不存在")
	ErrOriginalPaymentNotFound = errors.New("原欠款记录不存在")
	ErrInvalidPaymentMethod    = errors.New("不支持的支付方式")
)

var validPaymentMethods = map[string]bool{
	model.MethodCash:   true,
	model.MethodCard:   true,
	model.MethodOnline: true,
}

// PaymentService 收款台账：
// 记账、欠款跟踪、补缴核销与统计。
type PaymentService struct {
	db          *gorm.DB
	paymentRepo *repository.PaymentRepository
	userRepo    *repository.UserRepository
	planRepo    *repository.PlanRepository
	membership  *MembershipService
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	planRepo *repository.PlanRepository,
	membership *MembershipService,
) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		planRepo:    planRepo,
		membership:  membership,
	}
}

// AddPayment 记一笔收款。整个流程在一个事务内：
//   - 关联套餐时计算欠款 due = max(0, 套餐价 - 实收)，并绑定或续期套餐；
//   - 指向原欠款记录时按实收核销原记录欠款（下限为 0）。
func (s *PaymentService) AddPayment(req *dto.CreatePaymentRequest) (*dto.PaymentInfo, error) {
	paymentDate, err := time.Parse(dto.DateLayout, req.PaymentDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !validPaymentMethods[req.PaymentMethod] {
		return nil, ErrInvalidPaymentMethod
	}

	payment := &model.Payment{
		UserID:              req.UserID,
		Amount:              req.Amount,
		PaymentDate:         dateOf(paymentDate),
		PaymentMethod:       req.PaymentMethod,
		PaymentMethodDetail: req.PaymentMethodDetail,
		MembershipPlanID:    req.MembershipPlanID,
		OriginalPaymentID:   req.OriginalPaymentID,
		TransactionID:       req.TransactionID,
		Notes:               req.Notes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := repository.NewUserRepository(tx)
		paymentRepo := repository.NewPaymentRepository(tx)

		exists, err := userRepo.ExistsByID(req.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		if req.MembershipPlanID != nil {
			plan, err := repository.NewPlanRepository(tx).GetByID(*req.MembershipPlanID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPlanNotFound
				}
				return err
			}

			due := plan.Price - req.Amount
			if due < 0 {
				due = 0
			}
			payment.DueAmount = due

			if _, _, err := s.membership.AssignOrExtendTx(tx, req.UserID, plan, payment.PaymentDate); err != nil {
				return err
			}
		}

		if req.OriginalPaymentID != nil {
			original, err := paymentRepo.GetByID(*req.OriginalPaymentID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrOriginalPaymentNotFound
				}
				return err
			}

			remaining := original.DueAmount - req.Amount
			if remaining < 0 {
				remaining = 0
			}
			original.DueAmount = remaining
			if err := paymentRepo.Update(original); err != nil {
				return err
			}
		}

		return paymentRepo.Create(payment)
	})
	if err != nil {
		return nil, err
	}

	return s.GetPayment(payment.PaymentID)
}

func (s *PaymentService) GetPayment(paymentID int64) (*dto.PaymentInfo, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	infos, err := s.buildPaymentInfos([]*model.Payment{payment})
	if err != nil {
		return nil, err
	}
	return infos[0], nil
}

// ListPayments 分页查询收款，支持按白名单字段排序
func (s *PaymentService) ListPayments(page, pageSize int, sortField string, descending bool) ([]*dto.PaymentInfo, int64, error) {
	payments, total, err := s.paymentRepo.List(page, pageSize, sortField, descending)
	if err != nil {
		return nil, 0, err
	}

	infos, err := s.buildPaymentInfos(payments)
	if err != nil {
		return nil, 0, err
	}
	return infos, total, nil
}

// ListByUser 查询会员全部收款记录
func (s *PaymentService) ListByUser(userID int) ([]*dto.PaymentInfo, error) {
	exists, err := s.userRepo.ExistsByID(userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	payments, err := s.paymentRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.buildPaymentInfos(payments)
}

// DeletePayment 删除收款记录；不回滚由它带来的套餐续期与核销
func (s *PaymentService) DeletePayment(paymentID int64) error {
	exists, err := s.paymentRepo.ExistsByID(paymentID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPaymentNotFound
	}
	return s.paymentRepo.Delete(paymentID)
}

// Analytics 统计日期区间内的收款情况
func (s *PaymentService) Analytics(start, end time.Time) (*dto.PaymentAnalytics, error) {
	payments, err := s.paymentRepo.ListByDateRange(dateOf(start), dateOf(end))
	if err != nil {
		return nil, err
	}

	result := &dto.PaymentAnalytics{
		AmountByMethod: make(map[string]float64),
		CountByMethod:  make(map[string]int64),
		AmountByPlan:   make(map[string]float64),
	}

	planNames, err := s.planNamesForPayments(payments)
	if err != nil {
		return nil, err
	}

	for _, p := range payments {
		result.TotalAmountCollected += p.Amount
		result.TotalPaymentsCount++
		result.TotalDueAmount += p.DueAmount
		result.AmountByMethod[p.PaymentMethod] += p.Amount
		result.CountByMethod[p.PaymentMethod]++
		if p.MembershipPlanID != nil {
			result.AmountByPlan[planNames[*p.MembershipPlanID]] += p.Amount
		}
	}
	result.TotalExpectedAmount = result.TotalAmountCollected + result.TotalDueAmount

	return result, nil
}

// buildPaymentInfos 批量组装收款详情，一次查出会员姓名与套餐名称
func (s *PaymentService) buildPaymentInfos(payments []*model.Payment) ([]*dto.PaymentInfo, error) {
	userIDs := make([]int, 0, len(payments))
	for _, p := range payments {
		userIDs = append(userIDs, p.UserID)
	}
	users, err := s.userRepo.ListByIDs(userIDs)
	if err != nil {
		return nil, err
	}
	userNames := make(map[int]string, len(users))
	for _, u := range users {
		userNames[u.UserID] = u.Name
	}

	planNames, err := s.planNamesForPayments(payments)
	if err != nil {
		return nil, err
	}

	infos := make([]*dto.PaymentInfo, 0, len(payments))
	for _, p := range payments {
		info := &dto.PaymentInfo{
			PaymentID:           p.PaymentID,
			UserID:              p.UserID,
			UserName:            userNames[p.UserID],
			Amount:              p.Amount,
			DueAmount:           p.DueAmount,
			PaymentDate:         p.PaymentDate.Format(dto.DateLayout),
			PaymentMethod:       p.PaymentMethod,
			PaymentMethodDetail: p.PaymentMethodDetail,
			MembershipPlanID:    p.MembershipPlanID,
			OriginalPaymentID:   p.OriginalPaymentID,
			TransactionID:       p.TransactionID,
			Notes:               p.Notes,
		}
		if p.MembershipPlanID != nil {
			info.MembershipPlanName = planNames[*p.MembershipPlanID]
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *PaymentService) planNamesForPayments(payments []*model.Payment) (map[int]string, error) {
	idSet := make(map[int]struct{})
	for _, p := range payments {
		if p.MembershipPlanID != nil {
			idSet[*p.MembershipPlanID] = struct{}{}
		}
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
