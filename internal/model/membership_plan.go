package model

import (
	"time"
)

type MembershipPlan struct {
	PlanID         int       `gorm:"primaryKey;column:plan_id" json:"plan_id"`
	PlanName       string    `gorm:"size:100;not null" json:"plan_name"`
	Price          float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	DurationMonths int       `gorm:"not null" json:"duration_months"`
	FeaturesList   string    `gorm:"type:text" json:"features_list"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (MembershipPlan) TableName() string {
	return "membership_plans"
}
