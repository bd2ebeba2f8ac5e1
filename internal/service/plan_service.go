package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/model/dto"
	"github.com/qs3c/gym_go_server/internal/repository"
)

var ErrPlanNotFound = errors.New("会员套餐不存在")

type PlanService struct {
	planRepo *repository.PlanRepository
}

func NewPlanService(planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

func (s *PlanService) CreatePlan(req *dto.PlanRequest) (*model.MembershipPlan, error) {
	plan := &model.MembershipPlan{
		PlanName:       req.PlanName,
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
		FeaturesList:   req.FeaturesList,
	}
	if err := s.planRepo.Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) GetPlan(planID int) (*model.MembershipPlan, error) {
	plan, err := s.planRepo.GetByID(planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) ListPlans() ([]*model.MembershipPlan, error) {
	return s.planRepo.List()
}

// UpdatePlan 显式更新是套餐唯一允许的变更途径
func (s *PlanService) UpdatePlan(planID int, req *dto.PlanRequest) (*model.MembershipPlan, error) {
	plan, err := s.GetPlan(planID)
	if err != nil {
		return nil, err
	}

	plan.PlanName = req.PlanName
	plan.Price = req.Price
	plan.DurationMonths = req.DurationMonths
	plan.FeaturesList = req.FeaturesList

	if err := s.planRepo.Update(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) DeletePlan(planID int) error {
	if _, err := s.GetPlan(planID); err != nil {
		return err
	}
	return s.planRepo.Delete(planID)
}
