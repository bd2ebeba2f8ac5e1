package model

import (
	"time"
)

// PlanAssignment 会员与套餐的时段绑定。
// 子记录单向持有外键，不维护对象图反向引用。
type PlanAssignment struct {
	AssignmentID int64     `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	UserID       int       `gorm:"not null;index" json:"user_id"`
	PlanID       int       `gorm:"not null;index" json:"plan_id"`
	StartDate    time.Time `gorm:"not null" json:"start_date"`
	EndDate      time.Time `gorm:"not null;index" json:"end_date"`
	CreatedAt    time.Time `json:"created_at"`
}

func (PlanAssignment) TableName() string {
	return "plan_assignments"
}

// ActiveOn 判断该绑定在给定日期是否生效（start <= day <= end）
func (a *PlanAssignment) ActiveOn(day time.Time) bool {
	return !a.StartDate.After(day) && !a.EndDate.Before(day)
}
