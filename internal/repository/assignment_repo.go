package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/model"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(assignment *model.PlanAssignment) error {
	return r.db.Create(assignment).Error
}

func (r *AssignmentRepository) GetByID(id int64) (*model.PlanAssignment, error) {
	var assignment model.PlanAssignment
	err := r.db.Where("assignment_id = ?", id).First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) Update(assignment *model.PlanAssignment) error {
	return r.db.Save(assignment).Error
}

func (r *AssignmentRepository) Delete(id int64) error {
	return r.db.Where("assignment_id = ?", id).Delete(&model.PlanAssignment{}).Error
}

func (r *AssignmentRepository) ListByUserID(userID int) ([]*model.PlanAssignment, error) {
	var assignments []*model.PlanAssignment
	err := r.db.Where("user_id = ?", userID).
		Order("end_date DESC").Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *AssignmentRepository) ListByUserIDs(userIDs []int) ([]*model.PlanAssignment, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var assignments []*model.PlanAssignment
	err := r.db.Where("user_id IN ?", userIDs).
		Order("end_date DESC").Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// ActiveByUserID 查询会员当天生效的绑定（start <= day <= end）。
// 正常情况下至多一条，存在多条时取结束日期最晚的。
func (r *AssignmentRepository) ActiveByUserID(userID int, day time.Time) (*model.PlanAssignment, error) {
	var assignment model.PlanAssignment
	err := r.db.Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, day, day).
		Order("end_date DESC").First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// LatestByUserID 查询会员最近一条绑定（用于推导 Expired 状态）
func (r *AssignmentRepository) LatestByUserID(userID int) (*model.PlanAssignment, error) {
	var assignment model.PlanAssignment
	err := r.db.Where("user_id = ?", userID).
		Order("end_date DESC").First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListEndingBetween 查询结束日期落在区间内的绑定（到期提醒与看板）
func (r *AssignmentRepository) ListEndingBetween(start, end time.Time) ([]*model.PlanAssignment, error) {
	var assignments []*model.PlanAssignment
	err := r.db.Where("end_date >= ? AND end_date <= ?", start, end).
		Order("end_date ASC").Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListActiveOn 查询给定日期所有生效的绑定（套餐分布统计）
func (r *AssignmentRepository) ListActiveOn(day time.Time) ([]*model.PlanAssignment, error) {
	var assignments []*model.PlanAssignment
	err := r.db.Where("start_date <= ? AND end_date > ?", day, day).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
