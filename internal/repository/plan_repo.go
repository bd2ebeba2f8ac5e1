package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *model.MembershipPlan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepository) GetByID(id int) (*model.MembershipPlan, error) {
	var plan model.MembershipPlan
	err := r.db.Where("plan_id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) List() ([]*model.MembershipPlan, error) {
	var plans []*model.MembershipPlan
	if err := r.db.Order("plan_id ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepository) ListByIDs(ids []int) ([]*model.MembershipPlan, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var plans []*model.MembershipPlan
	if err := r.db.Where("plan_id IN ?", ids).Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepository) Update(plan *model.MembershipPlan) error {
	return r.db.Save(plan).Error
}

func (r *PlanRepository) Delete(id int) error {
	return r.db.Where("plan_id = ?", id).Delete(&model.MembershipPlan{}).Error
}

func (r *PlanRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.MembershipPlan{}).Count(&count).Error
	return count, err
}
